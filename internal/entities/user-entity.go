// Файл: internal/entities/user_entity.go
package entities

import "maintenance-system/pkg/types"

type User struct {
	ID       uint64  `json:"id" db:"id"`
	Email    string  `json:"email" db:"email"`
	FullName string  `json:"full_name" db:"full_name"`
	Password string  `json:"-" db:"password_hash"`
	RoleID   *uint64 `json:"role_id" db:"role_id"`
	TeamID   *uint64 `json:"team_id" db:"team_id"`
	IsActive bool    `json:"is_active" db:"is_active"`

	RoleName *string `json:"role_name,omitempty" db:"-"`

	types.BaseEntity
}
