package dto

import "strings"

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// NewQueryParams returns the first page of size limit, ordered by sortBy.
// An unknown direction falls back to DESC.
func NewQueryParams(limit int, sortBy, sortDir string) QueryParams {
	dir := strings.ToUpper(sortDir)
	if dir != SortDirAsc {
		dir = SortDirDesc
	}

	return QueryParams{
		Page:    1,
		Limit:   limit,
		SortBy:  sortBy,
		SortDir: dir,
	}
}
