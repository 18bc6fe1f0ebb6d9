package dto

// Patch - набор реально присланных полей тела PATCH/PUT запроса.
// Заполняется контроллером из сырого JSON, см. utils.DecodePatch.
type Patch struct {
	Fields map[string]bool `json:"-"`
}

func (p Patch) Has(field string) bool {
	return p.Fields[field]
}

func (p Patch) Empty() bool {
	return len(p.Fields) == 0
}

// ListResponseDTO - страница списка.
type ListResponseDTO[T any] struct {
	List       []T    `json:"list"`
	TotalCount uint64 `json:"total_count"`
}
