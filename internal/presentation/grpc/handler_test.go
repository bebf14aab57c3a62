package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/riskline/txrisk/internal/application/usecase"
	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/pkg/auth"
	"github.com/riskline/txrisk/pkg/events"
	"github.com/riskline/txrisk/pkg/observability"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	publishErr error
}

func (m *mockEventPublisher) Publish(_ context.Context, _ ...events.DomainEvent) error {
	return m.publishErr
}

type panicAggregator struct{ service.Aggregator }

func (panicAggregator) Combine(service.Signals) model.ScoringResult { panic("boom") }
func (panicAggregator) Label() string                               { return "panics" }

// --- Helpers ---

func contextWithClaims(roles ...string) context.Context {
	claims := &auth.Claims{
		UserID: uuid.New(),
		Roles:  roles,
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

func buildTestHandler(t *testing.T, requireAuth bool) *RiskServiceHandler {
	t.Helper()
	engine, err := service.NewEngineFromConfig(service.DefaultEngineConfig(), nil)
	require.NoError(t, err)
	return buildHandlerWithEngine(engine, requireAuth)
}

func buildHandlerWithEngine(engine *service.Engine, requireAuth bool) *RiskServiceHandler {
	logger := observability.DiscardLogger()
	uc := usecase.NewScoreTransaction(engine, &mockEventPublisher{}, nil, logger, service.DefaultChallengeThreshold)
	return NewRiskServiceHandler(uc, logger, requireAuth)
}

func validRequest() *ScoreTransactionRequest {
	return &ScoreTransactionRequest{
		Amount:           "75000",
		Location:         "Mumbai",
		DeviceType:       "Desktop",
		MerchantCategory: "Electronics",
		IPAddress:        "8.8.8.8",
		PaymentMethod:    "UPI",
		TransactionTime:  "Late Night",
	}
}

// --- Handler tests ---

func TestScoreTransaction_Success(t *testing.T) {
	h := buildTestHandler(t, false)

	resp, err := h.ScoreTransaction(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.FraudFlag)
	assert.Equal(t, "BLOCK", resp.Action)
	assert.Equal(t, "logistic", resp.Strategy)
	assert.Equal(t, service.LogisticEngineLabel, resp.EngineLabel)
	require.Len(t, resp.Breakdown, 3)
	assert.Equal(t, service.LabelGeoMismatch, resp.Breakdown[0].Label)
	_, err = uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
}

func TestScoreTransaction_InvalidArgument(t *testing.T) {
	h := buildTestHandler(t, false)

	tests := []struct {
		name   string
		mutate func(*ScoreTransactionRequest)
	}{
		{"unparseable amount", func(r *ScoreTransactionRequest) { r.Amount = "lots" }},
		{"missing amount", func(r *ScoreTransactionRequest) { r.Amount = "" }},
		{"negative amount", func(r *ScoreTransactionRequest) { r.Amount = "-1" }},
		{"missing ip", func(r *ScoreTransactionRequest) { r.IPAddress = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := h.ScoreTransaction(context.Background(), req)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	_, err := h.ScoreTransaction(context.Background(), nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestScoreTransaction_InternalErrorIsOpaque(t *testing.T) {
	engine := service.NewEngine(service.NewFeatureExtractor(service.DefaultRuleSet()), panicAggregator{})
	h := buildHandlerWithEngine(engine, false)

	_, err := h.ScoreTransaction(context.Background(), validRequest())
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal computation error", st.Message())
}

func TestScoreTransaction_Auth(t *testing.T) {
	h := buildTestHandler(t, true)

	_, err := h.ScoreTransaction(context.Background(), validRequest())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.ScoreTransaction(contextWithClaims("auditor"), validRequest())
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.ScoreTransaction(contextWithClaims(auth.RoleService), validRequest())
	assert.NoError(t, err)
}

func TestToStatus_UnknownError(t *testing.T) {
	h := buildTestHandler(t, false)
	err := h.toStatus(errors.New("database exploded"))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
}

// --- Server tests over an in-memory listener ---

func startServer(t *testing.T, handler *RiskServiceHandler, jwtService *auth.JWTService) *grpclib.ClientConn {
	t.Helper()

	srv, err := NewServer(handler, ServerConfig{Reflection: true}, jwtService, observability.DiscardLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_ScoreTransactionOverJSONCodec(t *testing.T) {
	conn := startServer(t, buildTestHandler(t, false), nil)

	var resp ScoreTransactionResponse
	err := conn.Invoke(context.Background(), ScoreTransactionMethod, validRequest(), &resp,
		grpclib.CallContentSubtype(JSONCodecName))
	require.NoError(t, err)

	assert.Equal(t, "BLOCK", resp.Action)
	assert.True(t, resp.FraudFlag)
	assert.Equal(t, 1.0, resp.RiskScore)
}

func TestServer_Health(t *testing.T) {
	conn := startServer(t, buildTestHandler(t, false), nil)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: HealthServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServer_AuthInterceptor(t *testing.T) {
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "txrisk-test"})
	require.NoError(t, err)
	conn := startServer(t, buildTestHandler(t, true), jwtService)

	var resp ScoreTransactionResponse
	err = conn.Invoke(context.Background(), ScoreTransactionMethod, validRequest(), &resp,
		grpclib.CallContentSubtype(JSONCodecName))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := jwtService.GenerateToken(uuid.New(), []string{auth.RoleUser})
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)

	err = conn.Invoke(ctx, ScoreTransactionMethod, validRequest(), &resp,
		grpclib.CallContentSubtype(JSONCodecName))
	require.NoError(t, err)
	assert.Equal(t, "BLOCK", resp.Action)

	// Health checks bypass authentication.
	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	assert.NoError(t, err)
}
