package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/riskline/txrisk/internal/application/dto"
	"github.com/riskline/txrisk/internal/application/usecase"
	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/pkg/auth"
)

// PredictPath is the scoring route.
const PredictPath = "/api/ml/predict"

const maxBodyBytes = 64 << 10

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ScoreHandler serves the HTTP scoring endpoint.
type ScoreHandler struct {
	scoreTransaction *usecase.ScoreTransaction
	jwtService       *auth.JWTService
	logger           *slog.Logger
}

// NewScoreHandler creates a ScoreHandler. A nil jwtService leaves the route
// unauthenticated.
func NewScoreHandler(scoreTransaction *usecase.ScoreTransaction, jwtService *auth.JWTService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		scoreTransaction: scoreTransaction,
		jwtService:       jwtService,
		logger:           logger,
	}
}

// RegisterRoutes registers the scoring route on the provided ServeMux.
func (h *ScoreHandler) RegisterRoutes(mux *http.ServeMux) {
	var handler http.Handler = http.HandlerFunc(h.Predict)
	if h.jwtService != nil {
		handler = auth.HTTPMiddleware(h.jwtService, handler)
	}
	mux.Handle("POST "+PredictPath, handler)
}

// Predict scores the transaction in the request body.
func (h *ScoreHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.ScoreTransactionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: "malformed request body"})
		return
	}

	resp, err := h.scoreTransaction.Execute(r.Context(), req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: verr.Error(), Field: verr.Field})
			return
		}
		h.logger.ErrorContext(r.Context(), "prediction failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Status: "error", Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
