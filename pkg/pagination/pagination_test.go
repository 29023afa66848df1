package pagination

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Limit: 10, Offset: 0}},
		{"explicit", "?limit=5&offset=15", Params{Limit: 5, Offset: 15}},
		{"clamped to max", "?limit=500", Params{Limit: 100, Offset: 0}},
		{"zero limit", "?limit=0", Params{Limit: 10, Offset: 0}},
		{"garbage", "?limit=abc&offset=-3", Params{Limit: 10, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/titles/"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r, 10, 100))
		})
	}
}

func TestNewPage_Links(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/api/v1/titles/?year=1999&limit=2&offset=2", nil)
	p := FromRequest(r, 10, 100)

	page := NewPage(r, p, 5, []int{3, 4})

	assert.EqualValues(t, 5, page.Count)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/v1/titles/?limit=2&offset=4&year=1999", *page.Next)
	assert.Equal(t, "http://example.com/api/v1/titles/?limit=2&year=1999", *page.Previous)
}

func TestNewPage_FirstAndLast(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/api/v1/genres/", nil)

	only := NewPage(r, Params{Limit: 10}, 3, []string{"a", "b", "c"})
	assert.Nil(t, only.Next)
	assert.Nil(t, only.Previous)

	empty := NewPage[string](r, Params{Limit: 10}, 0, nil)
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)
}

func TestMap(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/x/", nil)
	page := NewPage(r, Params{Limit: 1}, 2, []int{7})

	mapped := Map(page, func(n *int) string { return strconv.Itoa(*n) })
	assert.Equal(t, []string{"7"}, mapped.Results)
	assert.Equal(t, page.Next, mapped.Next)
}
