// Package search filters and paginates in-memory record lists. Matching is a
// case-insensitive substring scan over the fields each record exposes; result
// order is the underlying list's insertion order, with no relevance scoring.
package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLength = 2
	MaxQueryLength = 100

	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ErrInvalidQuery is wrapped by every query validation failure.
var ErrInvalidQuery = errors.New("invalid search query")

// Pagination carries page metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Searchable is a record that exposes the fields free-text search matches.
type Searchable interface {
	SearchFields() []string
}

// ValidateQuery trims the query and enforces the length bounds. Bounds are
// counted in runes, so a two-character CJK query is valid.
func ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	n := utf8.RuneCountInString(query)
	if n < MinQueryLength {
		return "", fmt.Errorf("%w: must be at least %d characters", ErrInvalidQuery, MinQueryLength)
	}
	if n > MaxQueryLength {
		return "", fmt.Errorf("%w: must not be more than %d characters", ErrInvalidQuery, MaxQueryLength)
	}
	return query, nil
}

// Match returns the records whose search fields contain the query,
// case-insensitively, preserving input order.
func Match[T Searchable](items []T, query string) ([]T, error) {
	query, err := ValidateQuery(query)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []T
	for _, item := range items {
		for _, field := range item.SearchFields() {
			if strings.Contains(strings.ToLower(field), query) {
				results = append(results, item)
				break
			}
		}
	}
	return results, nil
}

// Paginate slices items for the requested page. perPage is clamped to
// [1, MaxPerPage] with DefaultPerPage for zero or negative values; a page
// past the end returns an empty slice with correct metadata rather than an
// error.
func Paginate[T any](items []T, page, perPage int) ([]T, Pagination) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	slice := make([]T, end-start)
	copy(slice, items[start:end])

	return slice, Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
