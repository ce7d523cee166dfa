package domain

import (
	"context"
	"time"
)

// ListRepository defines the interface for list entry persistence.
// Implementations: internal/infra/postgres/repository.go
type ListRepository interface {
	// Create persists a new entry, assigning ID and AddedAt. The store
	// enforces uniqueness of (UserID, ContentID) atomically: of two
	// concurrent creates for the same pair exactly one succeeds, the
	// other fails with ErrAlreadyExists.
	Create(ctx context.Context, entry *ListEntry) error

	// Delete removes the entry for (userID, contentID).
	// Returns ErrNotFound if no such entry exists.
	Delete(ctx context.Context, userID, contentID string) error

	// Exists reports whether (userID, contentID) is in the list.
	// Absence is not an error.
	Exists(ctx context.Context, userID, contentID string) (bool, error)

	// Count returns the total number of entries for the user.
	Count(ctx context.Context, userID string) (int64, error)

	// Page returns entries for the user ordered by AddedAt descending,
	// ties broken by ID descending, plus the user's total entry count.
	// The caller enforces the limit ceiling.
	Page(ctx context.Context, userID string, offset, limit int) ([]*ListEntry, int64, error)

	// Entries returns a batch of entries across all users in insertion
	// order. Used by the orphan audit job.
	Entries(ctx context.Context, offset, limit int) ([]*ListEntry, error)
}

// Catalog defines the interface to the external content catalog.
// Implementations: internal/infra/catalog/client.go
//
// Both operations distinguish a missing record from a transient lookup
// failure: absence is reported via the boolean / ErrNotFound, while
// transport failures surface as wrapped errors.
type Catalog interface {
	// Exists confirms the content exists with the given kind.
	Exists(ctx context.Context, contentID string, kind ContentType) (bool, error)

	// Fetch retrieves full content metadata.
	// Returns ErrNotFound if the content does not exist.
	Fetch(ctx context.Context, contentID string, kind ContentType) (*ContentSummary, error)
}

// Cache defines the interface for the read cache.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes all keys starting with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
