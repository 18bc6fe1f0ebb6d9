package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/contextkeys"
	"maintenance-system/pkg/customvalidator"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRequestService запоминает последний патч и отвечает заготовленным результатом.
type stubRequestService struct {
	services.RequestServiceInterface

	lastPatch dto.UpdateRequestDTO
	lastStage uint64
	lastFrom  *time.Time
	lastTo    *time.Time
	auditErr  error
	err       error
}

func (s *stubRequestService) UpdateRequest(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateRequestDTO) (services.Outcome[*dto.RequestResponseDTO], error) {
	s.lastPatch = patch
	return services.Outcome[*dto.RequestResponseDTO]{Data: &dto.RequestResponseDTO{ID: id, Reference: "MR-00001"}, AuditErr: s.auditErr}, s.err
}

func (s *stubRequestService) MoveStage(ctx context.Context, principal *authz.Principal, id, stageID uint64) (services.Outcome[*dto.RequestResponseDTO], error) {
	s.lastStage = stageID
	return services.Outcome[*dto.RequestResponseDTO]{Data: &dto.RequestResponseDTO{ID: id, StageID: stageID}, AuditErr: s.auditErr}, s.err
}

func (s *stubRequestService) CalendarEvents(ctx context.Context, from, to *time.Time) ([]dto.CalendarEventDTO, error) {
	s.lastFrom, s.lastTo = from, to
	return nil, s.err
}

func (s *stubRequestService) ExportRequests(ctx context.Context, filter types.Filter) ([]byte, error) {
	return []byte("xlsx"), nil
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	ev, err := customvalidator.NewEchoValidator()
	require.NoError(t, err)
	e := echo.New()
	e.Validator = ev
	return e
}

func serve(e *echo.Echo, method, path, body string, principal *authz.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if principal != nil {
		req = req.WithContext(context.WithValue(req.Context(), contextkeys.PrincipalKey, principal))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func routeRequests(e *echo.Echo, svc services.RequestServiceInterface) {
	ctrl := NewRequestController(svc, zap.NewNop())
	e.PUT("/requests/:id", ctrl.UpdateRequest)
	e.POST("/requests/:id/move-stage", ctrl.MoveStage)
	e.GET("/requests/export", ctrl.ExportRequests)
	e.GET("/calendar/events", ctrl.CalendarEvents)
}

func TestUpdateRequest_PassesPresentFields(t *testing.T) {
	e := newEcho(t)
	svc := &stubRequestService{}
	routeRequests(e, svc)
	user := &authz.Principal{UserID: 1, Email: "user@plant.io"}

	rec := serve(e, http.MethodPut, "/requests/5", `{"description": null, "priority": "high"}`, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(utils.AuditDegradedHeader))

	assert.True(t, svc.lastPatch.Has("description"))
	assert.False(t, svc.lastPatch.Description.Valid)
	assert.True(t, svc.lastPatch.Has("priority"))
	assert.False(t, svc.lastPatch.Has("name"))
}

func TestUpdateRequest_RejectsUnknownPriority(t *testing.T) {
	e := newEcho(t)
	routeRequests(e, &stubRequestService{})

	rec := serve(e, http.MethodPut, "/requests/5", `{"priority": "whenever"}`, &authz.Principal{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRequest_Unauthenticated(t *testing.T) {
	e := newEcho(t)
	routeRequests(e, &stubRequestService{})

	rec := serve(e, http.MethodPut, "/requests/5", `{"name": "x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMoveStage_StatusCodes(t *testing.T) {
	e := newEcho(t)
	svc := &stubRequestService{}
	routeRequests(e, svc)
	tech := &authz.Principal{UserID: 2}

	rec := serve(e, http.MethodPost, "/requests/abc/move-stage", `{"stage_id": 3}`, tech)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodPost, "/requests/5/move-stage", `{}`, tech)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "stage_id обязателен")

	rec = serve(e, http.MethodPost, "/requests/5/move-stage", `{"stage_id": 3}`, tech)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), svc.lastStage)

	svc.err = apperrors.ErrPermissionDenied
	rec = serve(e, http.MethodPost, "/requests/5/move-stage", `{"stage_id": 3}`, tech)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMoveStage_DegradedAudit(t *testing.T) {
	e := newEcho(t)
	routeRequests(e, &stubRequestService{auditErr: errors.New("activity_logs unavailable")})

	rec := serve(e, http.MethodPost, "/requests/5/move-stage", `{"stage_id": 3}`, &authz.Principal{UserID: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(utils.AuditDegradedHeader))
}

func TestExportRequests_Attachment(t *testing.T) {
	e := newEcho(t)
	routeRequests(e, &stubRequestService{})

	rec := serve(e, http.MethodGet, "/requests/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "maintenance_requests.xlsx")
}

func TestCalendarEvents_Bounds(t *testing.T) {
	e := newEcho(t)
	svc := &stubRequestService{}
	routeRequests(e, svc)
	user := &authz.Principal{UserID: 3}

	rec := serve(e, http.MethodGet, "/calendar/events", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastFrom)
	assert.Nil(t, svc.lastTo)
	assert.Contains(t, rec.Body.String(), `"body":[]`)

	rec = serve(e, http.MethodGet, "/calendar/events?start=2026-03-01T00:00:00Z&end=2026-03-31", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFrom)
	assert.True(t, svc.lastFrom.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.lastTo)
	assert.True(t, svc.lastTo.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))

	rec = serve(e, http.MethodGet, "/calendar/events?start=2026-03-01T10:00:00", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastFrom.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)), "время без зоны - UTC")

	rec = serve(e, http.MethodGet, "/calendar/events?end=next-week", "", user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
