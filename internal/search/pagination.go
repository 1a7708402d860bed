package search

import "strconv"

const (
	// DefaultFilterLimit is the page size for the general filter listing.
	DefaultFilterLimit = 10
	// DefaultSearchLimit is the page size for free-text search.
	DefaultSearchLimit = 20
)

// PageRequest is a 1-based page plus page size.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePage coerces raw query text into a page request. Absent, non-numeric,
// or out-of-range values fall back to defaults rather than failing.
func ParsePage(pageStr, limitStr string, defaultLimit int) PageRequest {
	page := 1
	if n, err := strconv.Atoi(pageStr); err == nil && n >= 1 {
		page = n
	}
	limit := defaultLimit
	if n, err := strconv.Atoi(limitStr); err == nil && n >= 1 {
		limit = n
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo is the pagination summary returned alongside a result page.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPageInfo(p PageRequest, total int64) PageInfo {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
