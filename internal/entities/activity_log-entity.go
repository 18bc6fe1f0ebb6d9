package entities

import "time"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionMove   = "move"
	ActionAssign = "assign"
	ActionScrap  = "scrap"
)

const (
	EntityRequest   = "request"
	EntityEquipment = "equipment"
	EntityStage     = "stage"
	EntityTeam      = "team"
	EntityMember    = "team_member"
	EntityCategory  = "category"
)

type ActivityLog struct {
	ID          uint64    `json:"id" db:"id"`
	UserID      *uint64   `json:"user_id" db:"user_id"`
	Action      string    `json:"action" db:"action"`
	EntityType  string    `json:"entity_type" db:"entity_type"`
	EntityID    uint64    `json:"entity_id" db:"entity_id"`
	EntityRef   string    `json:"entity_ref" db:"entity_ref"`
	Description string    `json:"description" db:"description"`
	RequestID   *string   `json:"request_id" db:"request_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	UserName *string `json:"user_name,omitempty" db:"-"`
}
