package handler

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func (p pagination) limit() int64  { return int64(p.PerPage) }
func (p pagination) offset() int64 { return int64((p.Page - 1) * p.PerPage) }

// parsePagination reads ?page and ?per_page with clamping. Malformed
// values fall back to defaults rather than erroring.
func parsePagination(r *http.Request) pagination {
	p := pagination{Page: 1, PerPage: defaultPageSize}

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		if v > maxPageSize {
			v = maxPageSize
		}
		p.PerPage = v
	}
	return p
}
