package entities

import "time"

const DefaultMemberRole = "Technician"

type Team struct {
	ID          uint64    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	LeaderName  *string   `json:"leader_name" db:"leader_name"`
	LeaderEmail *string   `json:"leader_email" db:"leader_email"`
	LeaderPhone *string   `json:"leader_phone" db:"leader_phone"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	MemberCount uint64    `json:"member_count" db:"member_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TeamMember - техник в составе команды. Не обязательно пользователь системы.
type TeamMember struct {
	ID        uint64    `json:"id" db:"id"`
	TeamID    uint64    `json:"team_id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
