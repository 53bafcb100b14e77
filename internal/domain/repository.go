// Package domain provides core business logic interfaces and types.
package domain

// Pagination limits shared by all list operations.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PageFilter contains page-based pagination common to list operations.
type PageFilter struct {
	// Page is 1-based
	Page int

	// PageSize is the window size, capped at MaxPageSize
	PageSize int
}

// DefaultPageFilter returns sensible defaults.
func DefaultPageFilter() PageFilter {
	return PageFilter{
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Offset converts page/pageSize to a row offset.
func (p PageFilter) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ListResult contains paginated results.
// TotalCount reflects the filtered set size, independent of the page window.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}
