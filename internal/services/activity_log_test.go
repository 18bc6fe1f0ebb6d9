package services

import (
	"context"
	"testing"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActivityLog_RecordCarriesRequestID(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityLogService(repo, zap.NewNop())
	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-42")

	err := svc.Record(ctx, nil, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityRequest,
		EntityID:    5,
		EntityRef:   "MR-00005",
		Description: "Created request: MR-00005",
	})
	require.NoError(t, err)

	entry := repo.last()
	assert.Nil(t, entry.UserID, "системное действие без пользователя")
	require.NotNil(t, entry.RequestID)
	assert.Equal(t, "req-42", *entry.RequestID)
}

func TestActivityLog_RecordFailure(t *testing.T) {
	repo := &fakeActivityRepo{err: errBoom}
	svc := NewActivityLogService(repo, zap.NewNop())

	err := svc.Record(context.Background(), adminPrincipal(), AuditEntry{Action: entities.ActionDelete})
	assert.ErrorIs(t, err, errBoom)
}

func TestActivityLog_ListRequiresReports(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityLogService(repo, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, adminPrincipal(), AuditEntry{Action: entities.ActionScrap}))

	_, _, err := svc.ListActivity(ctx, principalWith("tech@plant.io", authz.CompleteRequests), types.Filter{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	list, total, err := svc.ListActivity(ctx, principalWith("auditor@plant.io", authz.ViewReports), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, list, 1)
}
