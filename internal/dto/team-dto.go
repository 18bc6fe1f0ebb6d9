package dto

import (
	"maintenance-system/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateTeamDTO struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty" validate:"omitempty,hex_color"`
	LeaderName  *string `json:"leader_name,omitempty" validate:"omitempty,max=100"`
	LeaderEmail *string `json:"leader_email,omitempty" validate:"omitempty,email"`
	LeaderPhone *string `json:"leader_phone,omitempty" validate:"omitempty,max=20"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UpdateTeamDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=100"`
	Description null.String `json:"description"`
	Color       null.String `json:"color" validate:"omitempty,hex_color"`
	LeaderName  null.String `json:"leader_name" validate:"omitempty,max=100"`
	LeaderEmail null.String `json:"leader_email" validate:"omitempty,email"`
	LeaderPhone null.String `json:"leader_phone" validate:"omitempty,max=20"`
	IsActive    null.Bool   `json:"is_active"`

	Patch
}

// TeamDetailDTO - карточка команды: состав и число открытых заявок.
type TeamDetailDTO struct {
	entities.Team
	Members      []entities.TeamMember `json:"members"`
	OpenRequests uint64                `json:"open_requests"`
}

type CreateTeamMemberDTO struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role     string  `json:"role,omitempty" validate:"omitempty,max=50"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateTeamMemberDTO struct {
	Name     null.String `json:"name" validate:"omitempty,max=100"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	Phone    null.String `json:"phone" validate:"omitempty,max=20"`
	Role     null.String `json:"role" validate:"omitempty,max=50"`
	IsActive null.Bool   `json:"is_active"`

	Patch
}
