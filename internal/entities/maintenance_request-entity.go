package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"maintenance-system/pkg/types"
)

const (
	RequestTypeCorrective = "corrective"
	RequestTypePreventive = "preventive"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const ReferencePrefix = "MR-"

var priorityRanks = map[string]int{
	PriorityLow:    1,
	PriorityNormal: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

type MaintenanceRequest struct {
	ID              uint64     `json:"id" db:"id"`
	Reference       string     `json:"reference" db:"reference"`
	Name            string     `json:"name" db:"name"`
	Description     *string    `json:"description" db:"description"`
	EquipmentID     uint64     `json:"equipment_id" db:"equipment_id"`
	TeamID          *uint64    `json:"team_id" db:"team_id"`
	TechnicianID    *uint64    `json:"technician_id" db:"technician_id"`
	StageID         uint64     `json:"stage_id" db:"stage_id"`
	RequestType     string     `json:"request_type" db:"request_type"`
	Priority        string     `json:"priority" db:"priority"`
	RequesterName   *string    `json:"requester_name" db:"requester_name"`
	RequesterEmail  string     `json:"requester_email" db:"requester_email"`
	ScheduledDate   *time.Time `json:"scheduled_date" db:"scheduled_date"`
	Deadline        *time.Time `json:"deadline" db:"deadline"`
	CompletedDate   *time.Time `json:"completed_date" db:"completed_date"`
	HoursSpent      *float64   `json:"hours_spent" db:"hours_spent"`
	MaintenanceCost *float64   `json:"maintenance_cost" db:"maintenance_cost"`
	Resolution      *string    `json:"resolution" db:"resolution"`

	types.BaseEntity
}

// FormatReference - MR-00001, MR-00002, ...
func FormatReference(n uint64) string {
	return fmt.Sprintf("%s%05d", ReferencePrefix, n)
}

// ReferenceNumber - числовой суффикс номера, 0 если номер нестандартный.
func (r *MaintenanceRequest) ReferenceNumber() uint64 {
	n, err := strconv.ParseUint(strings.TrimPrefix(r.Reference, ReferencePrefix), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (r *MaintenanceRequest) PriorityRank() int {
	return priorityRanks[r.Priority]
}

// IsOverdue вычисляется при каждом чтении и никогда не хранится.
// stage может быть nil, если стадия не загружена: тогда заявка считается открытой.
func (r *MaintenanceRequest) IsOverdue(stage *Stage, now time.Time) bool {
	if r.Deadline == nil {
		return false
	}
	if stage.IsTerminal() {
		return false
	}
	return r.Deadline.Before(now)
}

func IsValidPriority(p string) bool {
	_, ok := priorityRanks[p]
	return ok
}

func IsValidRequestType(t string) bool {
	return t == RequestTypeCorrective || t == RequestTypePreventive
}

// ScheduledRequest - плановая заявка вместе с названиями оборудования и команды.
type ScheduledRequest struct {
	MaintenanceRequest
	EquipmentName *string `db:"equipment_name"`
	TeamName      *string `db:"team_name"`
}
