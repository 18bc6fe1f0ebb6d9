package dto

import "github.com/aarondl/null/v8"

type CreateStageDTO struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Sequence    int     `json:"sequence"`
	IsDone      bool    `json:"is_done"`
	IsScrap     bool    `json:"is_scrap"`
	Fold        bool    `json:"fold"`
	Color       string  `json:"color,omitempty" validate:"omitempty,hex_color"`
	Description *string `json:"description,omitempty"`
}

type UpdateStageDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=50"`
	Sequence    null.Int    `json:"sequence"`
	IsDone      null.Bool   `json:"is_done"`
	IsScrap     null.Bool   `json:"is_scrap"`
	Fold        null.Bool   `json:"fold"`
	Color       null.String `json:"color" validate:"omitempty,hex_color"`
	Description null.String `json:"description"`

	Patch
}
