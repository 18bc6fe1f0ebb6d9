package entities

import "maintenance-system/pkg/types"

const (
	DefaultCategoryColor = "#6c757d"
	DefaultCategoryIcon  = "bi-box"
)

type EquipmentCategory struct {
	ID          uint64  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Color       string  `json:"color" db:"color"`
	Icon        string  `json:"icon" db:"icon"`

	// EquipmentCount считается запросом и не хранится.
	EquipmentCount uint64 `json:"equipment_count" db:"equipment_count"`

	types.BaseEntity
}
