// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"fmt"
	"strconv"

	"mylist-service/internal/domain"
)

// AddToListRequest represents the body of POST /mylist.
type AddToListRequest struct {
	ContentID   string `json:"contentId" validate:"required,max=100"`
	ContentType string `json:"contentType" validate:"required,oneof=movie series"`
}

// ListQuery represents the query parameters of GET /mylist.
//
// Absent parameters fall back to defaults; present-but-invalid values are
// rejected, never clamped, so a caller asking for page=0 learns about the
// bug instead of silently getting page 1.
type ListQuery struct {
	Page  string `query:"page"`
	Limit string `query:"limit"`
}

// ToPageParams resolves the raw query values against the defaults.
func (q *ListQuery) ToPageParams() (domain.PageParams, error) {
	params := domain.DefaultPageParams()

	if q.Page != "" {
		page, err := parsePositiveInt(q.Page)
		if err != nil {
			return params, err
		}
		params.Page = page
	}
	if q.Limit != "" {
		limit, err := parsePositiveInt(q.Limit)
		if err != nil {
			return params, err
		}
		params.Limit = limit
	}

	return params, params.Validate()
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid integer", domain.ErrInvalidArgument, raw)
	}

	return n, nil
}
