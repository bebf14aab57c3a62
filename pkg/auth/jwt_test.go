package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "txrisk-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, []string{RoleUser})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.True(t, claims.HasRole(RoleUser))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s", Expiration: -time.Minute})
	require.NoError(t, err)

	token, err := svc.GenerateToken(uuid.New(), []string{RoleUser})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuer, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "someone-else", Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "txrisk", Expiration: time.Minute})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), []string{RoleUser})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
	assert.False(t, JWTConfig{}.Enabled())
	assert.True(t, JWTConfig{Secret: "x"}.Enabled())
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/txrisk.v1.RiskService/ScoreTransaction"}

	t.Run("missing metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("skipped method", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		assert.NoError(t, err)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), []string{RoleService})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		_, err = interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.True(t, seen.HasRole(RoleService))
	})
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, RequireAnyRole(r.Context(), ScoringRoles...))
		w.WriteHeader(http.StatusNoContent)
	})
	h := HTTPMiddleware(svc, next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ml/predict", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := svc.GenerateToken(uuid.New(), []string{RoleUser})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/ml/predict", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, status.Code(RequireAnyRole(context.Background(), RoleAdmin)))

	ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleUser}})
	assert.Equal(t, codes.PermissionDenied, status.Code(RequireAnyRole(ctx, RoleAdmin)))
	assert.NoError(t, RequireAnyRole(ctx, RoleAdmin, RoleUser))
}
