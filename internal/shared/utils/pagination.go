package utils

import (
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
)

// Page is a normalized page request for list queries.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps a caller-supplied page request: numbers below 1 fall
// back to the first page, sizes to the default and never above MaxPageSize.
func NormalizePage(number, size int) Page {
	if number < 1 {
		number = constants.DefaultPage
	}
	switch {
	case size < 1:
		size = constants.DefaultPageSize
	case size > constants.MaxPageSize:
		size = constants.MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// PageCount returns how many pages of size hold total rows; an empty result
// still has one page.
func PageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
