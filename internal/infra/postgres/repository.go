package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mylist-service/internal/domain"
)

// Repository implements domain.ListRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new list entry. Uniqueness of (user_id, content_id) is
// enforced by the table's unique constraint, so two concurrent creates for
// the same pair resolve atomically in the database: one INSERT commits, the
// other fails with a duplicate-key error mapped to domain.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, entry *domain.ListEntry) error {
	model := FromDomain(entry)

	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("entry for user %s content %s: %w",
				entry.UserID, entry.ContentID, domain.ErrAlreadyExists)
		}

		return fmt.Errorf("creating list entry: %w", err)
	}

	// Copy back database-assigned fields
	entry.ID = model.ID
	entry.AddedAt = model.AddedAt

	return nil
}

// Delete removes the entry for (userID, contentID).
func (r *Repository) Delete(ctx context.Context, userID, contentID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&ListEntryModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting list entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("entry for user %s content %s: %w",
			userID, contentID, domain.ErrNotFound)
	}

	return nil
}

// Exists reports whether (userID, contentID) is in the user's list.
func (r *Repository) Exists(ctx context.Context, userID, contentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ListEntryModel{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking list entry: %w", err)
	}

	return count > 0, nil
}

// Count returns the total number of entries for the user.
func (r *Repository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ListEntryModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting list entries: %w", err)
	}

	return count, nil
}

// Page returns one page of the user's entries plus the user's total count.
// Ordering is added_at descending with id descending as the tie-breaker,
// which keeps pagination deterministic when timestamps collide.
func (r *Repository) Page(ctx context.Context, userID string, offset, limit int) ([]*domain.ListEntry, int64, error) {
	total, err := r.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var models []ListEntryModel
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("paging list entries: %w", err)
	}

	return ToDomainSlice(models), total, nil
}

// Entries returns a batch of entries across all users for the orphan audit.
func (r *Repository) Entries(ctx context.Context, offset, limit int) ([]*domain.ListEntry, error) {
	var models []ListEntryModel
	err := r.db.WithContext(ctx).
		Order("added_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("scanning list entries: %w", err)
	}

	return ToDomainSlice(models), nil
}
