package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1 // Default page is 1-based

	// MaxOffset is the largest offset handed to a store; SQL OFFSET and mongo skip are signed 64-bit
	MaxOffset uint64 = math.MaxInt64
)

// CalculateOffsetLimit calculates the offset and limit for store queries based on 1-based page index.
// There is no upper bound on size: a page past the end simply yields no rows.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// past MaxOffset every backend returns an empty page
	if uint64(page-1) > MaxOffset/uint64(size) {
		return MaxOffset, uint64(size)
	}
	offset = uint64(page-1) * uint64(size)
	return offset, uint64(size)
}

// TotalPages returns ceil(totalItems/size); zero items means zero pages.
func TotalPages(totalItems int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}

// NewPaginationInfo creates the pagination block of a list envelope.
// page should be the 1-based page number as requested; it is not clamped to the last page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if page < 1 {
		page = DefaultPage
	}
	return dto.PaginationInfo{
		TotalPages:  TotalPages(totalItems, size),
		CurrentPage: page,
		Total:       totalItems,
	}
}

// ParsePaginationParams extracts page and limit from the query string, falling back to defaults
// for missing, non-numeric or non-positive values.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 {
		size = DefaultPageSize
	}

	return page, size
}

// PageBounds clamps the window [offset, offset+limit) to a slice of total items.
// A zero limit means no limit.
func PageBounds(offset, limit uint64, total int) (start, end int) {
	n := uint64(total)
	if offset >= n {
		return total, total
	}
	stop := offset + limit
	if limit == 0 || stop > n {
		stop = n
	}
	return int(offset), int(stop)
}
