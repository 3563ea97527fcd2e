package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/tenant-task-api/internal/constants"
)

var ErrInvalidPagination = errors.New("page must be >= 1 and limit between 1 and 100")

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

// GetPaginationParams extracts and validates page/limit query values.
// Absent values fall back to page 1 and defaultLimit.
func GetPaginationParams(c *gin.Context, defaultLimit int) (PaginationParams, error) {
	page := constants.MinPage
	limit := defaultLimit

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < constants.MinPage {
			return PaginationParams{}, ErrInvalidPagination
		}
		page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > constants.MaxPageSize {
			return PaginationParams{}, ErrInvalidPagination
		}
		limit = v
	}

	return NewPaginationParams(page, limit), nil
}

// NewPaginationParams builds params from already validated values
func NewPaginationParams(page, limit int) PaginationParams {
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewPaginationResponse computes total pages for total rows
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}
	return PaginationResponse{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		Limit:       params.Limit,
	}
}
