// Package query holds list filter building blocks shared by repositories.
package query

import "github.com/guildkeeper/guildkeeper/internal/shared/constants"

type PageFilter struct {
	Page     int
	PageSize int
}

func (f PageFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

func (f PageFilter) Limit() int {
	if f.PageSize <= 0 {
		return constants.DefaultPageSize
	}
	if f.PageSize > constants.MaxPageSize {
		return constants.MaxPageSize
	}
	return f.PageSize
}

type SortFilter struct {
	SortBy    string
	SortOrder string
}

func (f SortFilter) IsDescending() bool {
	return f.SortOrder == "desc" || f.SortOrder == "DESC"
}

// OrderClause renders "column ASC|DESC" when SortBy maps to a column in
// allowed, otherwise the fallback clause. User input never reaches SQL
// unless it is a whitelisted key.
func (f SortFilter) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[f.SortBy]
	if !ok {
		return fallback
	}
	order := "ASC"
	if f.IsDescending() {
		order = "DESC"
	}
	return column + " " + order
}
