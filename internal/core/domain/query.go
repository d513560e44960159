package domain

import (
	"fmt"
	"strings"
)

// SortField is the record attribute a list is ordered by.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
	SortByName   SortField = "name"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec selects the ordering of a listing.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort is newest first.
var DefaultSort = SortSpec{Field: SortByDate, Direction: Descending}

// ListFilter narrows a listing. An empty Category behaves like CategoryAll.
type ListFilter struct {
	Category string
	Search   string
}

// ParseSortSpec reads the sortBy and direction query values, falling back to
// DefaultSort for whichever is empty.
func ParseSortSpec(field, direction string) (SortSpec, error) {
	spec := DefaultSort
	switch f := SortField(strings.ToLower(strings.TrimSpace(field))); f {
	case "":
	case SortByDate, SortByAmount, SortByName:
		spec.Field = f
	default:
		return SortSpec{}, fmt.Errorf("unsupported sort field %q", field)
	}
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(direction))); d {
	case "":
	case Ascending, Descending:
		spec.Direction = d
	default:
		return SortSpec{}, fmt.Errorf("unsupported sort direction %q", direction)
	}
	return spec, nil
}
