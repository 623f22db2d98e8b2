package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/api/v1/posts", 1, defaultPageSize},
		{"explicit", "/api/v1/posts?page=3&per_page=10", 3, 10},
		{"clamped", "/api/v1/posts?per_page=10000", 1, maxPageSize},
		{"garbage ignored", "/api/v1/posts?page=abc&per_page=-5", 1, defaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parsePagination(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestPaginationOffsets(t *testing.T) {
	p := pagination{Page: 3, PerPage: 20}
	assert.Equal(t, int64(20), p.limit())
	assert.Equal(t, int64(40), p.offset())
}
