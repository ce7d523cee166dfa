package domain

import "fmt"

// MaxPageSize caps the number of entries a single page may request.
const MaxPageSize = 100

// DefaultPageSize is used when the caller does not specify a limit.
const DefaultPageSize = 20

// PageParams holds pagination parameters for list reads.
type PageParams struct {
	Page  int // 1-indexed
	Limit int // items per page
}

// DefaultPageParams returns pagination params with sensible defaults.
func DefaultPageParams() PageParams {
	return PageParams{Page: 1, Limit: DefaultPageSize}
}

// Validate rejects out-of-range pagination parameters. Unlike bound
// correction, invalid input is an error: callers get ErrInvalidArgument
// rather than a silently adjusted page.
func (p PageParams) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidArgument)
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, MaxPageSize)
	}
	return nil
}

// Offset calculates the store offset for pagination.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination holds pagination metadata for a paged response.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// PagedList is one page of a user's list joined with catalog metadata.
// This is also the unit the read cache stores, so it must round-trip
// through JSON without loss.
type PagedList struct {
	Items      []ListItem `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagedList builds a PagedList with calculated pagination metadata.
func NewPagedList(items []ListItem, total int64, params PageParams) *PagedList {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &PagedList{
		Items: items,
		Pagination: Pagination{
			CurrentPage:  params.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: params.Limit,
			HasNextPage:  params.Page < totalPages,
			HasPrevPage:  params.Page > 1,
		},
	}
}
