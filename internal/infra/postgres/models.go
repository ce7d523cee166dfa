package postgres

import (
	"time"

	"mylist-service/internal/domain"
)

// ListEntryModel is the GORM model for the list_entries table.
// The composite unique index enforces at-most-one entry per
// (user_id, content_id) pair at the store level.
type ListEntryModel struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      string    `gorm:"type:varchar(100);not null;index:idx_user_content,unique;index:idx_user_added_at,priority:1"`
	ContentID   string    `gorm:"type:varchar(100);not null;index:idx_user_content,unique"`
	ContentType string    `gorm:"type:varchar(20);not null"`
	AddedAt     time.Time `gorm:"not null;autoCreateTime;index:idx_user_added_at,priority:2,sort:desc"`
}

// TableName returns the table name for ListEntryModel.
func (ListEntryModel) TableName() string {
	return "list_entries"
}

// ToDomain converts ListEntryModel to domain.ListEntry.
func (m *ListEntryModel) ToDomain() *domain.ListEntry {
	return &domain.ListEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		ContentID:   m.ContentID,
		ContentType: domain.ContentType(m.ContentType),
		AddedAt:     m.AddedAt,
	}
}

// FromDomain creates a ListEntryModel from domain.ListEntry.
func FromDomain(e *domain.ListEntry) *ListEntryModel {
	return &ListEntryModel{
		ID:          e.ID,
		UserID:      e.UserID,
		ContentID:   e.ContentID,
		ContentType: string(e.ContentType),
		AddedAt:     e.AddedAt,
	}
}

// ToDomainSlice converts a slice of models to domain entries.
func ToDomainSlice(models []ListEntryModel) []*domain.ListEntry {
	entries := make([]*domain.ListEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToDomain()
	}

	return entries
}
