package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"?page=3&per_page=50", Params{Page: 3, PerPage: 50, Offset: 100}},
		{"?page=5&per_page=20", Params{Page: 5, PerPage: 20, Offset: 80}},
		{"?page=-1", Params{Page: 1, PerPage: 20}},
		{"?page=0", Params{Page: 1, PerPage: 20}},
		{"?page=abc", Params{Page: 1, PerPage: 20}},
		{"?per_page=100", Params{Page: 1, PerPage: 100}},
		{"?per_page=101", Params{Page: 1, PerPage: 20}},
		{"?per_page=0", Params{Page: 1, PerPage: 20}},
		{"?page=2&per_page=oops", Params{Page: 2, PerPage: 20, Offset: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := FromRequest(httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		params  Params
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{"empty", 0, Params{Page: 1, PerPage: 20}, 0, false, false},
		{"single page", 3, Params{Page: 1, PerPage: 10}, 1, false, false},
		{"first of many", 20, Params{Page: 1, PerPage: 5}, 4, true, false},
		{"middle", 10, Params{Page: 2, PerPage: 2, Offset: 2}, 5, true, true},
		{"partial last page", 11, Params{Page: 3, PerPage: 5, Offset: 10}, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResult([]string{"x"}, tt.total, tt.params)
			assert.Equal(t, tt.total, got.TotalCount)
			assert.Equal(t, tt.params.Page, got.Page)
			assert.Equal(t, tt.params.PerPage, got.PerPage)
			assert.Equal(t, tt.pages, got.TotalPages)
			assert.Equal(t, tt.hasNext, got.HasNext)
			assert.Equal(t, tt.hasPrev, got.HasPrev)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name    string
		params  Params
		want    []int
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{name: "first page", params: Params{Page: 1, PerPage: 3, Offset: 0}, want: []int{1, 2, 3}, pages: 3, hasNext: true},
		{name: "middle page", params: Params{Page: 2, PerPage: 3, Offset: 3}, want: []int{4, 5, 6}, pages: 3, hasNext: true, hasPrev: true},
		{name: "short last page", params: Params{Page: 3, PerPage: 3, Offset: 6}, want: []int{7}, pages: 3, hasPrev: true},
		{name: "past the end", params: Params{Page: 9, PerPage: 3, Offset: 24}, want: []int{}, pages: 3, hasPrev: true},
		{name: "single page", params: DefaultParams(), want: items, pages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.params)
			assert.Equal(t, tt.want, got.Data)
			assert.Equal(t, len(items), got.TotalCount)
			assert.Equal(t, tt.pages, got.TotalPages)
			assert.Equal(t, tt.hasNext, got.HasNext)
			assert.Equal(t, tt.hasPrev, got.HasPrev)
		})
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := []string{"a", "b"}
	got := Paginate(items, DefaultParams())
	got.Data[0] = "z"
	assert.Equal(t, "a", items[0])
}
