package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserPublicDTO `json:"user,omitempty"`
}

type UserPublicDTO struct {
	ID          uint64   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	RoleID      *uint64  `json:"role_id"`
	RoleName    *string  `json:"role_name"`
	TeamID      *uint64  `json:"team_id"`
	Permissions []string `json:"permissions"`
}
