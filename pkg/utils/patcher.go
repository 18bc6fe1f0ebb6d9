// Файл: utils/patcher.go
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
)

// SentFields - набор ключей верхнего уровня, реально присланных в теле.
// null.* в DTO не отличают "не прислали" от "прислали null", поэтому
// присутствие поля берём из сырого JSON.
func SentFields(rawRequestBody []byte) (map[string]bool, error) {
	trimmed := bytes.TrimSpace(rawRequestBody)
	if len(trimmed) == 0 {
		return map[string]bool{}, nil
	}

	var sentFields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &sentFields); err != nil {
		return nil, fmt.Errorf("тело запроса должно быть JSON-объектом: %w", err)
	}

	fields := make(map[string]bool, len(sentFields))
	for key := range sentFields {
		fields[key] = true
	}
	return fields, nil
}

// DecodePatch разбирает тело в dto и возвращает набор присланных полей.
func DecodePatch(rawRequestBody []byte, dto interface{}) (map[string]bool, error) {
	fields, err := SentFields(rawRequestBody)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(rawRequestBody, dto); err != nil {
		return nil, err
	}
	return fields, nil
}

func NullStringPtr(v null.String) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func NullUint64Ptr(v null.Uint64) *uint64 {
	if !v.Valid {
		return nil
	}
	n := v.Uint64
	return &n
}

func NullFloat64Ptr(v null.Float64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func NullTimePtr(v null.Time) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
