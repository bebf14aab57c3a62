package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/testutil"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreFromFlags(t *testing.T) {
	out, err := run(t, "", "score",
		"--amount", "75000",
		"--location", "Mumbai",
		"--device-type", "Desktop",
		"--merchant-category", "Electronics",
		"--ip-address", "8.8.8.8",
		"--payment-method", "UPI",
		"--transaction-time", "Late Night",
	)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, true, resp["fraud_prediction"])
	assert.Equal(t, "BLOCK", resp["action"])
	assert.Equal(t, "logistic", resp["strategy"])
}

func TestScoreFromStdinWithStrategy(t *testing.T) {
	body := `{"amount":500,"location":"Chennai","deviceType":"Mobile - Samsung","merchantCategory":"Groceries","ipAddress":"103.21.4.5","paymentMethod":"UPI","transactionTime":"Morning"}`

	out, err := run(t, body, "score", "--file", "-", "--strategy", "additive")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0.0, resp["risk_score"])
	assert.Equal(t, "APPROVE", resp["action"])
	assert.Equal(t, "Additive Rule Engine v1", resp["engine"])
}

func TestScoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.json")
	body := `{"amount":"1000000000001","location":"Pune","deviceType":"Mobile","merchantCategory":"Gold","ipAddress":"49.1.1.1","paymentMethod":"Card","transactionTime":"Noon"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "", "score", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"NON-PHYSICAL AMOUNT": 1`)
	assert.Contains(t, out, `"hard_blocked": true`)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	_, err := run(t, "", "score", "--amount", "10")
	testutil.AssertErrorContains(t, err, "is required")

	_, err = run(t, "", "score", "--amount", "ten")
	assert.Error(t, err)

	_, err = run(t, "", "score", "--strategy", "neural", "--amount", "1")
	assert.Error(t, err)
}

func TestConfigPrintsYAML(t *testing.T) {
	out, err := run(t, "", "config", "--strategy", "blended", "--profile", "strict")
	require.NoError(t, err)

	assert.Contains(t, out, "strategy: blended")
	assert.Contains(t, out, "profile: strict")
	assert.Contains(t, out, "threshold: 0.6")
	assert.Contains(t, out, "hard_block_ceiling:")
	assert.Contains(t, out, "1000000000000")
}
