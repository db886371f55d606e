package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// PageSizes are the choices offered under tables
var PageSizes = []int{10, 25, 50, 100}

// PaginationInfo describes one page of a table
type PaginationInfo struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
	TotalItems  int64
	// First and Last are the 1-based positions of the shown rows, 0 when empty
	First int
	Last  int
}

// HasPrev reports whether a previous page exists
func (p PaginationInfo) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a next page exists
func (p PaginationInfo) HasNext() bool { return p.CurrentPage < p.TotalPages }

// PrevPage is the previous page number
func (p PaginationInfo) PrevPage() int { return p.CurrentPage - 1 }

// NextPage is the next page number
func (p PaginationInfo) NextPage() int { return p.CurrentPage + 1 }

// NewPaginationInfo creates the pagination info for a 1-based page
func NewPaginationInfo(totalItems int64, page, size int) PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// An empty table still has one (empty) page
	totalPages := 1
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	currentPage := page
	if currentPage > totalPages {
		currentPage = totalPages
	}

	info := PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
	if totalItems > 0 {
		start, end := CalculateSliceIndices(currentPage, size, int(totalItems))
		info.First, info.Last = start+1, end
	}
	return info
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		start = totalItems
		end = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}

// Paginate returns the requested page of items along with its info. Pages
// past the end are clamped to the last page.
func Paginate[T any](items []T, page, size int) ([]T, PaginationInfo) {
	info := NewPaginationInfo(int64(len(items)), page, size)
	start, end := CalculateSliceIndices(info.CurrentPage, info.PageSize, len(items))
	return items[start:end], info
}
