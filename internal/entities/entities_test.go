package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestMaintenanceRequest_IsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	open := &Stage{ID: 1, Name: "New"}
	done := &Stage{ID: 3, Name: "Repaired", IsDone: true}
	scrap := &Stage{ID: 4, Name: "Scrap", IsScrap: true}

	req := &MaintenanceRequest{Deadline: ptrTime(now.Add(-24 * time.Hour))}
	assert.True(t, req.IsOverdue(open, now))
	assert.True(t, req.IsOverdue(nil, now))
	assert.False(t, req.IsOverdue(done, now))
	assert.False(t, req.IsOverdue(scrap, now))

	req.Deadline = ptrTime(now.Add(time.Hour))
	assert.False(t, req.IsOverdue(open, now))

	req.Deadline = nil
	assert.False(t, req.IsOverdue(open, now))
}

func TestMaintenanceRequest_DerivedFields(t *testing.T) {
	req := &MaintenanceRequest{Reference: FormatReference(7), Priority: PriorityUrgent}
	assert.Equal(t, "MR-00007", req.Reference)
	assert.Equal(t, uint64(7), req.ReferenceNumber())
	assert.Equal(t, 4, req.PriorityRank())

	req.Reference = "legacy"
	assert.Equal(t, uint64(0), req.ReferenceNumber())
}

func TestEquipment_IsWarrantyValid(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	eq := &Equipment{}
	assert.False(t, eq.IsWarrantyValid(now))

	eq.WarrantyExpiry = ptrTime(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.True(t, eq.IsWarrantyValid(now), "гарантия действует до конца последнего дня")

	eq.WarrantyExpiry = ptrTime(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	assert.False(t, eq.IsWarrantyValid(now))

	assert.Equal(t, "EQ-0012", FormatEquipmentCode(12))
}
