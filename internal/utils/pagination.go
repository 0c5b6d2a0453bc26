package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 200

// PaginationParams holds optional pagination parameters. A zero Limit means
// the caller did not ask for pagination and the full result set is returned.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination parameters from the request.
// Both page and limit must be present for pagination to apply.
func GetPaginationParams(c *gin.Context) PaginationParams {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return PaginationParams{}
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > maxPageSize {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
