// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// ContentType represents the kind of catalog content.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Valid reports whether the content type is one of the known kinds.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeSeries
}

// ListEntry represents one user's saved reference to one piece of catalog
// content. Entries are immutable after creation: the only lifecycle
// transitions are create (add) and delete (remove).
type ListEntry struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	ContentID   string      `json:"contentId"`
	ContentType ContentType `json:"contentType"`

	// AddedAt is assigned at write time and drives list ordering
	// (most recent first, ties broken by ID).
	AddedAt time.Time `json:"addedAt"`
}

// NewListEntry creates a ListEntry for persistence. ID and AddedAt are
// assigned by the store at insert time.
func NewListEntry(userID, contentID string, contentType ContentType) *ListEntry {
	return &ListEntry{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
	}
}

// ListItem is a ListEntry joined with its catalog metadata for read
// responses. Content is nil when the referenced catalog record no longer
// exists (orphaned reference); the entry itself is still returned.
type ListItem struct {
	ListEntry
	Content *ContentSummary `json:"content"`
}
