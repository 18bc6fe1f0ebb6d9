package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name                string     `json:"name" validate:"required,max=150"`
	CategoryID          *uint64    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	SerialNumber        *string    `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	Model               *string    `json:"model,omitempty"`
	Manufacturer        *string    `json:"manufacturer,omitempty"`
	Location            *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Department          *string    `json:"department,omitempty" validate:"omitempty,max=100"`
	OwnerName           *string    `json:"owner_name,omitempty"`
	OwnerEmail          *string    `json:"owner_email,omitempty" validate:"omitempty,email"`
	Status              string     `json:"status,omitempty" validate:"omitempty,equipment_status"`
	DefaultTeamID       *uint64    `json:"default_team_id,omitempty" validate:"omitempty,gt=0"`
	DefaultTechnicianID *uint64    `json:"default_technician_id,omitempty" validate:"omitempty,gt=0"`
	PurchaseDate        *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry      *time.Time `json:"warranty_expiry,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

type UpdateEquipmentDTO struct {
	Name                null.String `json:"name" validate:"omitempty,max=150"`
	CategoryID          null.Uint64 `json:"category_id"`
	SerialNumber        null.String `json:"serial_number"`
	Model               null.String `json:"model"`
	Manufacturer        null.String `json:"manufacturer"`
	Location            null.String `json:"location"`
	Department          null.String `json:"department"`
	OwnerName           null.String `json:"owner_name"`
	OwnerEmail          null.String `json:"owner_email" validate:"omitempty,email"`
	Status              null.String `json:"status" validate:"omitempty,equipment_status"`
	DefaultTeamID       null.Uint64 `json:"default_team_id"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id"`
	PurchaseDate        null.Time   `json:"purchase_date"`
	WarrantyExpiry      null.Time   `json:"warranty_expiry"`
	Notes               null.String `json:"notes"`

	Patch
}

type ScrapEquipmentDTO struct {
	Reason *string `json:"reason"`
}

type EquipmentResponseDTO struct {
	ID                  uint64  `json:"id"`
	Code                string  `json:"code"`
	Name                string  `json:"name"`
	CategoryID          *uint64 `json:"category_id"`
	CategoryName        *string `json:"category_name"`
	SerialNumber        *string `json:"serial_number"`
	Model               *string `json:"model"`
	Manufacturer        *string `json:"manufacturer"`
	Location            *string `json:"location"`
	Department          *string `json:"department"`
	OwnerName           *string `json:"owner_name"`
	OwnerEmail          *string `json:"owner_email"`
	Status              string  `json:"status"`
	DefaultTeamID       *uint64 `json:"default_team_id"`
	DefaultTechnicianID *uint64 `json:"default_technician_id"`
	PurchaseDate        *string `json:"purchase_date"`
	WarrantyExpiry      *string `json:"warranty_expiry"`
	IsWarrantyValid     bool    `json:"is_warranty_valid"`
	IsScrapped          bool    `json:"is_scrapped"`
	ScrapDate           *string `json:"scrap_date"`
	ScrapReason         *string `json:"scrap_reason"`
	Notes               *string `json:"notes"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// AutofillDTO - значения по умолчанию для формы заявки.
type AutofillDTO struct {
	EquipmentID  uint64  `json:"equipment_id"`
	TeamID       *uint64 `json:"team_id"`
	TechnicianID *uint64 `json:"technician_id"`
	Location     *string `json:"location"`
	Department   *string `json:"department"`
	CategoryID   *uint64 `json:"category_id"`
	CategoryName *string `json:"category_name"`
}

type OpenRequestsDTO struct {
	EquipmentID uint64 `json:"equipment_id"`
	OpenCount   uint64 `json:"open_count"`
}
