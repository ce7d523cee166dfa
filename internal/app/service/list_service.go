// Package service provides application use cases.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mylist-service/internal/domain"
)

// ListService composes the list store, catalog lookup and read cache into
// the five public list operations. It owns the cache-consistency protocol:
// reads go cache-first, and every mutation invalidates all of the user's
// cached pages before the mutation is acknowledged.
type ListService struct {
	repo    domain.ListRepository
	catalog domain.Catalog
	cache   domain.Cache // nil disables caching
	ttl     time.Duration
	logger  *zap.Logger
}

// NewListService creates a new ListService. Passing a nil cache disables
// the read cache entirely; every other dependency is required.
func NewListService(
	repo domain.ListRepository,
	catalog domain.Catalog,
	cache domain.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *ListService {
	return &ListService{
		repo:    repo,
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Add puts a piece of catalog content on the user's list.
//
// Validation happens before any I/O; catalog existence is confirmed before
// the write so the stored contentType always matches the catalog's kind.
// The store's unique constraint decides races between concurrent adds.
func (s *ListService) Add(ctx context.Context, userID, contentID string, contentType domain.ContentType) (*domain.ListEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	if contentID == "" {
		return nil, fmt.Errorf("%w: content id is required", domain.ErrInvalidArgument)
	}
	if !contentType.Valid() {
		return nil, fmt.Errorf("%w: content type must be %q or %q",
			domain.ErrInvalidArgument, domain.ContentTypeMovie, domain.ContentTypeSeries)
	}

	exists, err := s.catalog.Exists(ctx, contentID, contentType)
	if err != nil {
		s.logger.Error("catalog existence check failed",
			zap.String("content_id", contentID),
			zap.Error(err),
		)

		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s %s: %w", contentType, contentID, domain.ErrNotFound)
	}

	entry := domain.NewListEntry(userID, contentID, contentType)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	// Invalidate before acknowledging: a caller that sees the success
	// response must never read a pre-mutation page afterwards.
	s.invalidateUser(ctx, userID)

	s.logger.Debug("entry added",
		zap.String("user_id", userID),
		zap.String("content_id", contentID),
		zap.String("content_type", string(contentType)),
	)

	return entry, nil
}

// Remove deletes the entry for (userID, contentID). Removing an entry that
// is not on the list is ErrNotFound, not an idempotent success.
func (s *ListService) Remove(ctx context.Context, userID, contentID string) error {
	if err := s.repo.Delete(ctx, userID, contentID); err != nil {
		return err
	}

	s.invalidateUser(ctx, userID)

	s.logger.Debug("entry removed",
		zap.String("user_id", userID),
		zap.String("content_id", contentID),
	)

	return nil
}

// List returns one page of the user's list, most recently added first,
// each entry joined with catalog metadata.
//
// The cache path returns the stored page verbatim; the store path pages the
// repository, fetches metadata per entry (tolerating orphans), caches the
// assembled result best-effort and returns it. A cache failure is never a
// request failure.
func (s *ListService) List(ctx context.Context, userID string, params domain.PageParams) (*domain.PagedList, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(userID, params)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	entries, total, err := s.repo.Page(ctx, userID, params.Offset(), params.Limit)
	if err != nil {
		s.logger.Error("list page failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		return nil, err
	}

	items := make([]domain.ListItem, len(entries))
	for i, entry := range entries {
		content, err := s.catalog.Fetch(ctx, entry.ContentID, entry.ContentType)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Orphaned reference: the catalog record was deleted
				// after the entry was added. Keep the entry, null the
				// content.
				s.logger.Warn("orphaned list entry",
					zap.String("user_id", userID),
					zap.String("content_id", entry.ContentID),
				)
				content = nil
			} else {
				return nil, err
			}
		}
		items[i] = domain.ListItem{ListEntry: *entry, Content: content}
	}

	result := domain.NewPagedList(items, total, params)
	s.cacheSet(ctx, key, result)

	return result, nil
}

// IsInList reports whether the content is on the user's list.
// A cheap point lookup; intentionally uncached.
func (s *ListService) IsInList(ctx context.Context, userID, contentID string) (bool, error) {
	return s.repo.Exists(ctx, userID, contentID)
}

// Count returns the number of entries on the user's list. Uncached.
func (s *ListService) Count(ctx context.Context, userID string) (int64, error) {
	return s.repo.Count(ctx, userID)
}

// cacheKey builds the deterministic per-page cache key.
func cacheKey(userID string, params domain.PageParams) string {
	return fmt.Sprintf("mylist:%s:%d:%d", userID, params.Page, params.Limit)
}

// userCachePrefix covers every cached page for the user, whatever the page
// or limit. A mutation shifts ordering and totals for all pages, so
// invalidation always targets the whole prefix.
func userCachePrefix(userID string) string {
	return "mylist:" + userID + ":"
}

// cacheGet returns the cached page for key, or nil on miss, disabled cache,
// or any cache failure.
func (s *ListService) cacheGet(ctx context.Context, key string) *domain.PagedList {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}

	var result domain.PagedList
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("cached page is undecodable, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil
	}

	return &result
}

// cacheSet stores the assembled page best-effort.
func (s *ListService) cacheSet(ctx context.Context, key string, result *domain.PagedList) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("encoding page for cache failed", zap.Error(err))

		return
	}

	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed, serving uncached",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// invalidateUser removes all cached pages for the user. Failures are
// logged and swallowed: the durable write already happened and the cache
// entries expire by TTL regardless.
func (s *ListService) invalidateUser(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.DeletePrefix(ctx, userCachePrefix(userID)); err != nil {
		s.logger.Warn("cache invalidation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
