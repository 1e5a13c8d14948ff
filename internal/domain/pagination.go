package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the item offset for the current page (0-based).
// Formula: (Page - 1) * PageSize, saturating at math.MaxInt.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Window returns the [start, end) bounds of the current page within a list of total items.
// A zero PageSize means "no pagination" and yields the whole list. Pages past the end
// yield an empty window at total.
func (p PaginationParams) Window(total int) (int, int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	start := min(p.Offset(), total)
	end := total
	if p.PageSize < total-start {
		end = start + p.PageSize
	}
	return start, end
}
