package entities

import "maintenance-system/pkg/types"

type Stage struct {
	ID          uint64  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Sequence    int     `json:"sequence" db:"sequence"`
	IsDone      bool    `json:"is_done" db:"is_done"`
	IsScrap     bool    `json:"is_scrap" db:"is_scrap"`
	Fold        bool    `json:"fold" db:"fold"`
	Color       string  `json:"color" db:"color"`
	Description *string `json:"description,omitempty" db:"description"`

	types.BaseEntity
}

// IsTerminal - заявка на такой стадии считается закрытой.
func (s *Stage) IsTerminal() bool {
	return s != nil && (s.IsDone || s.IsScrap)
}
