package helpers

import (
	"net/http"
	"strconv"

	"eventnexus/internal/domain"
)

// Query parameters and limits of paginated lists. Six events fill one page of the grid.
const (
	PageParam       = "page"
	PageSizeParam   = "page_size"
	DefaultPage     = 1
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// ParsePagination reads page and page_size. Missing or malformed values use the defaults
// and page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get(PageParam), DefaultPage),
		PageSize: min(positiveInt(q.Get(PageSizeParam), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// PaginationMeta accompanies every paginated list.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPaginationMeta derives the page count from total. A zero pageSize yields no pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}
