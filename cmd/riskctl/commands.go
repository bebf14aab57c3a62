package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/riskline/txrisk/internal/application/dto"
	"github.com/riskline/txrisk/internal/application/usecase"
	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/internal/domain/valueobject"
	"github.com/riskline/txrisk/internal/infrastructure/config"
	"github.com/riskline/txrisk/internal/infrastructure/messaging"
	"github.com/riskline/txrisk/pkg/observability"
)

type engineFlags struct {
	configPath string
	strategy   string
	profile    string
	logLevel   string
}

type scoreFlags struct {
	file             string
	amount           string
	location         string
	deviceType       string
	merchantCategory string
	ipAddress        string
	paymentMethod    string
	transactionTime  string
}

func newRootCmd() *cobra.Command {
	var ef engineFlags

	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Score transactions with the txrisk engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&ef.configPath, "config", os.Getenv("RISK_ENGINE_CONFIG"), "engine tables YAML file")
	root.PersistentFlags().StringVar(&ef.strategy, "strategy", "", "override the strategy (additive, logistic, blended)")
	root.PersistentFlags().StringVar(&ef.profile, "profile", "", "override the additive threshold profile (strict, balanced, lenient)")
	root.PersistentFlags().StringVar(&ef.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(newScoreCmd(&ef), newConfigCmd(&ef))
	return root
}

func newScoreCmd(ef *engineFlags) *cobra.Command {
	var sf scoreFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one transaction given as flags or a JSON file",
		Example: `  riskctl score --amount 75000 --location Mumbai --device-type Desktop \
    --merchant-category Electronics --ip-address 8.8.8.8 --payment-method UPI \
    --transaction-time "Late Night"
  riskctl score --file tx.json --strategy additive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, ef, sf)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&sf.file, "file", "f", "", "JSON transaction file, - for stdin")
	f.StringVar(&sf.amount, "amount", "", "transaction amount")
	f.StringVar(&sf.location, "location", "", "transaction location")
	f.StringVar(&sf.deviceType, "device-type", "", "device description")
	f.StringVar(&sf.merchantCategory, "merchant-category", "", "merchant category")
	f.StringVar(&sf.ipAddress, "ip-address", "", "client IPv4 address")
	f.StringVar(&sf.paymentMethod, "payment-method", "", "payment method, e.g. UPI")
	f.StringVar(&sf.transactionTime, "transaction-time", "", "time-of-day bucket, e.g. Late Night")
	cmd.MarkFlagsMutuallyExclusive("file", "amount")

	return cmd
}

func newConfigCmd(ef *engineFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective engine configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engineCfg, err := loadEngineConfig(ef)
			if err != nil {
				return err
			}
			out, err := config.MarshalEngineConfig(engineCfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func runScore(cmd *cobra.Command, ef *engineFlags, sf scoreFlags) error {
	req, err := buildRequest(cmd.InOrStdin(), sf)
	if err != nil {
		return err
	}

	engineCfg, err := loadEngineConfig(ef)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  ef.logLevel,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	engine, err := service.NewEngineFromConfig(engineCfg, logger)
	if err != nil {
		return err
	}

	uc := usecase.NewScoreTransaction(engine, messaging.NewLogPublisher(logger), nil, logger, engineCfg.ChallengeThreshold)
	resp, err := uc.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func buildRequest(stdin io.Reader, sf scoreFlags) (dto.ScoreTransactionRequest, error) {
	var req dto.ScoreTransactionRequest

	if sf.file != "" {
		var r io.Reader = stdin
		if sf.file != "-" {
			f, err := os.Open(sf.file)
			if err != nil {
				return req, fmt.Errorf("open transaction file: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("decode transaction: %w", err)
		}
		return req, nil
	}

	if sf.amount != "" {
		amount, err := decimal.NewFromString(sf.amount)
		if err != nil {
			return req, fmt.Errorf("invalid --amount: %w", err)
		}
		req.Amount = &amount
	}
	req.Location = sf.location
	req.DeviceType = sf.deviceType
	req.MerchantCategory = sf.merchantCategory
	req.IPAddress = sf.ipAddress
	req.PaymentMethod = sf.paymentMethod
	req.TransactionTime = sf.transactionTime
	return req, nil
}

func loadEngineConfig(ef *engineFlags) (service.EngineConfig, error) {
	c, err := config.LoadEngineConfig(ef.configPath)
	if err != nil {
		return service.EngineConfig{}, err
	}
	if err := config.ApplyEngineOverrides(&c); err != nil {
		return service.EngineConfig{}, err
	}

	if ef.strategy != "" {
		s, err := valueobject.StrategyFromString(ef.strategy)
		if err != nil {
			return service.EngineConfig{}, err
		}
		c.Strategy = s
	}
	if ef.profile != "" {
		p, err := valueobject.ProfileFromString(ef.profile)
		if err != nil {
			return service.EngineConfig{}, err
		}
		c.Profile = p
		c.Additive.Threshold = p.Threshold()
	}

	if err := c.Validate(); err != nil {
		return service.EngineConfig{}, err
	}
	return c, nil
}
