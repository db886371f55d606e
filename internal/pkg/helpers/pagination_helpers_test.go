package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page, info := Paginate(items, 2, 5)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, page)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 6, info.First)
	assert.Equal(t, 10, info.Last)
	assert.True(t, info.HasPrev())
	assert.True(t, info.HasNext())

	page, info = Paginate(items, 3, 5)
	assert.Equal(t, []int{11, 12}, page)
	assert.False(t, info.HasNext())

	page, info = Paginate(items, 9, 5)
	assert.Equal(t, []int{11, 12}, page, "past the end clamps to the last page")
	assert.Equal(t, 3, info.CurrentPage)
}

func TestPaginate_Empty(t *testing.T) {
	page, info := Paginate([]string{}, 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 1, info.TotalPages)
	assert.Zero(t, info.First)
	assert.False(t, info.HasPrev())
	assert.False(t, info.HasNext())
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query string
		page  int
		size  int
	}{
		{"", 1, DefaultPageSize},
		{"?page=3&size=25", 3, 25},
		{"?page=0&size=1000", 1, DefaultPageSize},
		{"?page=abc&size=-1", 1, DefaultPageSize},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tt.query, nil)
		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}
