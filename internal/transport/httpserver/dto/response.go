package dto

import (
	"time"

	"mylist-service/internal/domain"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope. detail carries machine-checkable
// information (validation breakdown, error category); message stays
// human-readable.
func Fail(message, detail string) Response {
	return Response{Success: false, Message: message, Error: detail}
}

// EntryResponse represents a single list entry in the response.
type EntryResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	AddedAt     string `json:"addedAt"`
}

// FromDomainEntry converts domain.ListEntry to EntryResponse.
func FromDomainEntry(e *domain.ListEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		ContentID:   e.ContentID,
		ContentType: string(e.ContentType),
		AddedAt:     e.AddedAt.Format(time.RFC3339),
	}
}

// ListItemResponse is an entry joined with its catalog metadata. Content
// is null when the referenced catalog record no longer exists.
type ListItemResponse struct {
	EntryResponse
	Content *domain.ContentSummary `json:"content"`
}

// ListResponse represents one page of a user's list.
type ListResponse struct {
	Items      []ListItemResponse `json:"data"`
	Pagination domain.Pagination  `json:"pagination"`
}

// FromPagedList converts domain.PagedList to ListResponse.
func FromPagedList(page *domain.PagedList) ListResponse {
	items := make([]ListItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = ListItemResponse{
			EntryResponse: FromDomainEntry(&item.ListEntry),
			Content:       item.Content,
		}
	}

	return ListResponse{
		Items:      items,
		Pagination: page.Pagination,
	}
}

// CheckResponse represents the membership check result.
type CheckResponse struct {
	InList bool `json:"inList"`
}

// CountResponse represents the list size result.
type CountResponse struct {
	Count int64 `json:"count"`
}
