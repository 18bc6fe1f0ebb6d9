package utils

import "time"

func ToPtr[T any](v T) *T {
	return &v
}

// FormatTimePtr - RFC3339 или nil, для JSON-ответов.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// FormatDatePtr - только дата (YYYY-MM-DD).
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
