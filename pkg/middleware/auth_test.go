package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubResolver struct {
	principals map[uint64]*authz.Principal
}

func (r stubResolver) ResolvePrincipal(ctx context.Context, userID uint64) (*authz.Principal, error) {
	p, ok := r.principals[userID]
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	if p.Email == "gone@plant.io" {
		return nil, apperrors.ErrUserInactive
	}
	return p, nil
}

func newTestServer(t *testing.T) (*echo.Echo, service.JWTService) {
	t.Helper()
	roleID := uint64(1)
	resolver := stubResolver{principals: map[uint64]*authz.Principal{
		1: {UserID: 1, Email: "viewer@plant.io", RoleID: &roleID, Permissions: map[string]bool{authz.ViewReports: true}},
		2: {UserID: 2, Email: "tech@plant.io", RoleID: &roleID, Permissions: map[string]bool{authz.CompleteRequests: true}},
		3: {UserID: 3, Email: "gone@plant.io"},
	}}
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour)
	mw := NewAuthMiddleware(jwtSvc, resolver, zap.NewNop())

	e := echo.New()
	e.Use(InjectLogger(zap.NewNop()))
	group := e.Group("", mw.Auth)
	group.GET("/me", func(c echo.Context) error {
		p, err := PrincipalFromContext(c.Request().Context())
		if err != nil {
			return err
		}
		requestID, _ := c.Request().Context().Value(contextkeys.RequestIDKey).(string)
		return c.JSON(http.StatusOK, map[string]interface{}{"email": p.Email, "request_id": requestID})
	})
	group.GET("/export", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, mw.AuthorizeAny(authz.ViewReports, authz.ManageRequests))
	return e, jwtSvc
}

func doRequest(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, jwtSvc service.JWTService, userID uint64, refresh bool) string {
	t.Helper()
	access, refreshToken, err := jwtSvc.GenerateTokens(userID)
	require.NoError(t, err)
	if refresh {
		return "Bearer " + refreshToken
	}
	return "Bearer " + access
}

func TestAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	e, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/me", "Bearer not-a-jwt").Code)
}

func TestAuth_RejectsRefreshToken(t *testing.T) {
	e, jwtSvc := newTestServer(t)

	rec := doRequest(e, "/me", bearer(t, jwtSvc, 1, true))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ResolvesPrincipal(t *testing.T) {
	e, jwtSvc := newTestServer(t)

	rec := doRequest(e, "/me", bearer(t, jwtSvc, 1, false))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "viewer@plant.io")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/me", bearer(t, jwtSvc, 99, false)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(e, "/me", bearer(t, jwtSvc, 3, false)).Code)
}

func TestAuthorizeAny(t *testing.T) {
	e, jwtSvc := newTestServer(t)

	assert.Equal(t, http.StatusOK, doRequest(e, "/export", bearer(t, jwtSvc, 1, false)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(e, "/export", bearer(t, jwtSvc, 2, false)).Code)
}

func TestInjectLogger_KeepsIncomingRequestID(t *testing.T) {
	e, jwtSvc := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, jwtSvc, 1, false))
	req.Header.Set(RequestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), "trace-123")
}
