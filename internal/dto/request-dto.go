package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateRequestDTO struct {
	Name            string     `json:"name" validate:"omitempty,max=200"`
	Description     *string    `json:"description,omitempty"`
	EquipmentID     uint64     `json:"equipment_id"`
	StageID         *uint64    `json:"stage_id,omitempty" validate:"omitempty,gt=0"`
	TeamID          *uint64    `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	TechnicianID    *uint64    `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
	RequestType     string     `json:"request_type,omitempty" validate:"omitempty,mr_request_type"`
	Priority        string     `json:"priority,omitempty" validate:"omitempty,mr_priority"`
	RequesterName   *string    `json:"requester_name,omitempty" validate:"omitempty,max=100"`
	RequesterEmail  *string    `json:"requester_email,omitempty" validate:"omitempty,email"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	HoursSpent      *float64   `json:"hours_spent,omitempty"`
	MaintenanceCost *float64   `json:"maintenance_cost,omitempty"`
	Resolution      *string    `json:"resolution,omitempty"`
}

// UpdateRequestDTO: отсутствующее поле не меняется, явный null очищает его.
// id и reference принимаются только для сверки с текущими значениями.
type UpdateRequestDTO struct {
	ID              null.Uint64  `json:"id"`
	Reference       null.String  `json:"reference"`
	Name            null.String  `json:"name" validate:"omitempty,max=200"`
	Description     null.String  `json:"description"`
	EquipmentID     null.Uint64  `json:"equipment_id"`
	TeamID          null.Uint64  `json:"team_id"`
	TechnicianID    null.Uint64  `json:"technician_id"`
	StageID         null.Uint64  `json:"stage_id"`
	RequestType     null.String  `json:"request_type" validate:"omitempty,mr_request_type"`
	Priority        null.String  `json:"priority" validate:"omitempty,mr_priority"`
	RequesterName   null.String  `json:"requester_name"`
	RequesterEmail  null.String  `json:"requester_email" validate:"omitempty,email"`
	ScheduledDate   null.Time    `json:"scheduled_date"`
	Deadline        null.Time    `json:"deadline"`
	CompletedDate   null.Time    `json:"completed_date"`
	HoursSpent      null.Float64 `json:"hours_spent"`
	MaintenanceCost null.Float64 `json:"maintenance_cost"`
	Resolution      null.String  `json:"resolution"`

	Patch
}

type MoveStageDTO struct {
	StageID uint64 `json:"stage_id" validate:"required,gt=0"`
}

// AssignTeamDTO: team_id = null снимает назначение.
type AssignTeamDTO struct {
	TeamID *uint64 `json:"team_id"`
}

type RequestResponseDTO struct {
	ID              uint64   `json:"id"`
	Reference       string   `json:"reference"`
	ReferenceNumber uint64   `json:"reference_number"`
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	EquipmentID     uint64   `json:"equipment_id"`
	TeamID          *uint64  `json:"team_id"`
	TechnicianID    *uint64  `json:"technician_id"`
	StageID         uint64   `json:"stage_id"`
	StageName       string   `json:"stage_name"`
	RequestType     string   `json:"request_type"`
	Priority        string   `json:"priority"`
	PriorityRank    int      `json:"priority_rank"`
	RequesterName   *string  `json:"requester_name"`
	RequesterEmail  string   `json:"requester_email"`
	ScheduledDate   *string  `json:"scheduled_date"`
	Deadline        *string  `json:"deadline"`
	CompletedDate   *string  `json:"completed_date"`
	HoursSpent      *float64 `json:"hours_spent"`
	MaintenanceCost *float64 `json:"maintenance_cost"`
	Resolution      *string  `json:"resolution"`
	IsOverdue       bool     `json:"is_overdue"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type EquipmentRequestsDTO struct {
	Equipment  EquipmentResponseDTO `json:"equipment"`
	Requests   []RequestResponseDTO `json:"requests"`
	TotalCount uint64               `json:"total_count"`
	OpenCount  uint64               `json:"open_count"`
}

// CalendarEventDTO - плановая заявка в формате событий календаря.
type CalendarEventDTO struct {
	ID            uint64             `json:"id"`
	Title         string             `json:"title"`
	Start         string             `json:"start"`
	End           string             `json:"end"`
	Color         string             `json:"color"`
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}

type CalendarEventProps struct {
	Reference string  `json:"reference"`
	Equipment *string `json:"equipment"`
	Team      *string `json:"team"`
	Priority  string  `json:"priority"`
	IsOverdue bool    `json:"is_overdue"`
}
