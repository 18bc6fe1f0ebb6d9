package entities

import (
	"fmt"
	"time"

	"maintenance-system/pkg/types"
)

const (
	EquipmentOperational = "operational"
	EquipmentMaintenance = "maintenance"
	EquipmentBroken      = "broken"
	EquipmentScrapped    = "scrapped"
)

const DefaultScrapReason = "No reason provided"

type Equipment struct {
	ID                  uint64     `json:"id" db:"id"`
	Code                string     `json:"code" db:"code"`
	Name                string     `json:"name" db:"name"`
	CategoryID          *uint64    `json:"category_id" db:"category_id"`
	CategoryName        *string    `json:"category_name" db:"category_name"`
	SerialNumber        *string    `json:"serial_number" db:"serial_number"`
	Model               *string    `json:"model" db:"model"`
	Manufacturer        *string    `json:"manufacturer" db:"manufacturer"`
	Location            *string    `json:"location" db:"location"`
	Department          *string    `json:"department" db:"department"`
	OwnerName           *string    `json:"owner_name" db:"owner_name"`
	OwnerEmail          *string    `json:"owner_email" db:"owner_email"`
	Status              string     `json:"status" db:"status"`
	DefaultTeamID       *uint64    `json:"default_team_id" db:"default_team_id"`
	DefaultTechnicianID *uint64    `json:"default_technician_id" db:"default_technician_id"`
	PurchaseDate        *time.Time `json:"purchase_date" db:"purchase_date"`
	WarrantyExpiry      *time.Time `json:"warranty_expiry" db:"warranty_expiry"`
	IsScrapped          bool       `json:"is_scrapped" db:"is_scrapped"`
	ScrapDate           *time.Time `json:"scrap_date" db:"scrap_date"`
	ScrapReason         *string    `json:"scrap_reason" db:"scrap_reason"`
	Notes               *string    `json:"notes" db:"notes"`

	types.BaseEntity
}

// IsWarrantyValid - гарантия действует, пока дата окончания не раньше сегодняшнего дня.
func (e *Equipment) IsWarrantyValid(now time.Time) bool {
	if e.WarrantyExpiry == nil {
		return false
	}
	today := truncateToDay(now)
	return !truncateToDay(*e.WarrantyExpiry).Before(today)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const EquipmentCodePrefix = "EQ-"

// FormatEquipmentCode - EQ-0001, EQ-0002, ...
func FormatEquipmentCode(n uint64) string {
	return fmt.Sprintf("%s%04d", EquipmentCodePrefix, n)
}
