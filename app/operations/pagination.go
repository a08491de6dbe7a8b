package operations

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginatedResponse is the envelope for the operations listing.
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	TotalRows   int64       `json:"totalRows"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

const maxPageSize = 100

// pageParams reads "page" and "pageSize" from the query string, clamping
// them to sane bounds. defaultSize is the configured page-size constant.
func pageParams(c *gin.Context, defaultSize int) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}

	size, _ = strconv.Atoi(c.Query("pageSize"))
	switch {
	case size > maxPageSize:
		size = maxPageSize
	case size <= 0:
		size = defaultSize
	}
	return page, size
}

func newPaginatedResponse(data interface{}, total int64, page, size int) PaginatedResponse {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	}
	return PaginatedResponse{
		Data:        data,
		TotalRows:   total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    size,
	}
}
