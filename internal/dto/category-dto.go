package dto

import "github.com/aarondl/null/v8"

type CreateCategoryDTO struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty" validate:"omitempty,hex_color"`
	Icon        string  `json:"icon,omitempty" validate:"omitempty,max=50"`
}

type UpdateCategoryDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=100"`
	Description null.String `json:"description"`
	Color       null.String `json:"color" validate:"omitempty,hex_color"`
	Icon        null.String `json:"icon" validate:"omitempty,max=50"`

	Patch
}
