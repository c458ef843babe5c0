package entity

import "strings"

// SortOrder names a logical sort field and direction. Field is resolved
// against a per-entity allow-list; unknown fields mean "unsorted".
type SortOrder struct {
	Field string
	Desc  bool
}

// NewSortOrder builds a SortOrder from raw query values. Any direction other
// than "desc" sorts ascending.
func NewSortOrder(field, direction string) SortOrder {
	return SortOrder{
		Field: strings.TrimSpace(field),
		Desc:  strings.EqualFold(strings.TrimSpace(direction), "desc"),
	}
}

// DefaultSortOrder mirrors the list endpoints' defaults: by name, ascending.
func DefaultSortOrder(field, direction string) SortOrder {
	if strings.TrimSpace(field) == "" {
		field = "name"
	}
	return NewSortOrder(field, direction)
}
