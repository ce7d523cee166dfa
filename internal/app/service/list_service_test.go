package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mylist-service/internal/domain"
)

// fakeRepo is an in-memory domain.ListRepository. Entries are kept in
// insertion order; Page returns them newest-first like the real store.
type fakeRepo struct {
	mu        sync.Mutex
	entries   []*domain.ListEntry
	nextID    int
	pageCalls int
	failWith  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (r *fakeRepo) Create(_ context.Context, entry *domain.ListEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	for _, e := range r.entries {
		if e.UserID == entry.UserID && e.ContentID == entry.ContentID {
			return fmt.Errorf("duplicate: %w", domain.ErrAlreadyExists)
		}
	}
	r.nextID++
	entry.ID = fmt.Sprintf("%08d", r.nextID)
	entry.AddedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.nextID) * time.Second)
	r.entries = append(r.entries, entry)

	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID, contentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.UserID == userID && e.ContentID == contentID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("missing: %w", domain.ErrNotFound)
}

func (r *fakeRepo) Exists(_ context.Context, userID, contentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == userID && e.ContentID == contentID {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeRepo) Count(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (r *fakeRepo) Page(_ context.Context, userID string, offset, limit int) ([]*domain.ListEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pageCalls++
	if r.failWith != nil {
		return nil, 0, r.failWith
	}

	var mine []*domain.ListEntry
	for i := len(r.entries) - 1; i >= 0; i-- { // newest first
		if r.entries[i].UserID == userID {
			mine = append(mine, r.entries[i])
		}
	}

	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}

	return mine[offset:end], total, nil
}

func (r *fakeRepo) Entries(_ context.Context, offset, limit int) ([]*domain.ListEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset >= len(r.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}

	return r.entries[offset:end], nil
}

// fakeCatalog is an in-memory domain.Catalog keyed by "kind/id".
type fakeCatalog struct {
	mu       sync.Mutex
	known    map[string]*domain.ContentSummary
	failWith error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{known: make(map[string]*domain.ContentSummary)}
}

func (c *fakeCatalog) add(id string, kind domain.ContentType, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.known[string(kind)+"/"+id] = &domain.ContentSummary{ID: id, Kind: kind, Title: title}
}

func (c *fakeCatalog) remove(id string, kind domain.ContentType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.known, string(kind)+"/"+id)
}

func (c *fakeCatalog) Exists(_ context.Context, contentID string, kind domain.ContentType) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failWith != nil {
		return false, c.failWith
	}
	_, ok := c.known[string(kind)+"/"+contentID]

	return ok, nil
}

func (c *fakeCatalog) Fetch(_ context.Context, contentID string, kind domain.ContentType) (*domain.ContentSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failWith != nil {
		return nil, c.failWith
	}
	summary, ok := c.known[string(kind)+"/"+contentID]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", kind, contentID, domain.ErrNotFound)
	}

	return summary, nil
}

// fakeCache is an in-memory domain.Cache that records every operation so
// tests can assert on invalidation behavior and ordering.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ops    []string
	getErr error
	setErr error
	delErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = append(c.ops, "get:"+key)
	if c.getErr != nil {
		return nil, c.getErr
	}

	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = append(c.ops, "set:"+key)
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value

	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = append(c.ops, "delprefix:"+prefix)
	if c.delErr != nil {
		return c.delErr
	}
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}

	return nil
}

func (c *fakeCache) opLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.ops...)
}

type fixture struct {
	svc     *ListService
	repo    *fakeRepo
	catalog *fakeCatalog
	cache   *fakeCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	repo := newFakeRepo()
	catalog := newFakeCatalog()
	cache := newFakeCache()
	svc := NewListService(repo, catalog, cache, 300*time.Second, zap.NewNop())

	return fixture{svc: svc, repo: repo, catalog: catalog, cache: cache}
}

func TestAdd_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      string
		contentID   string
		contentType domain.ContentType
	}{
		{"empty user", "", "movie-1", domain.ContentTypeMovie},
		{"empty content", "user-1", "", domain.ContentTypeMovie},
		{"empty type", "user-1", "movie-1", ""},
		{"unknown type", "user-1", "movie-1", "podcast"},
		{"legacy tvshow", "user-1", "show-1", "tvshow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, tt.userID, tt.contentID, tt.contentType)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	// Validation happens before any I/O
	assert.Empty(t, f.cache.opLog())
	count, _ := f.repo.Count(ctx, "user-1")
	assert.Zero(t, count)
}

func TestAdd_ContentNotInCatalog(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(context.Background(), "user-1", "movie-404", domain.ContentTypeMovie)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, _ := f.repo.Count(context.Background(), "user-1")
	assert.Zero(t, count, "nothing should be persisted")
}

func TestAdd_KindMismatch(t *testing.T) {
	f := newFixture(t)
	// Exists is keyed by (id, kind): a movie id declared as series is absent
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")

	_, err := f.svc.Add(context.Background(), "user-1", "movie-1", domain.ContentTypeSeries)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdd_CatalogUnavailable(t *testing.T) {
	f := newFixture(t)
	f.catalog.failWith = fmt.Errorf("catalog lookup: %w", domain.ErrUnavailable)

	_, err := f.svc.Add(context.Background(), "user-1", "movie-1", domain.ContentTypeMovie)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound, "an outage must not read as missing content")

	count, _ := f.repo.Count(context.Background(), "user-1")
	assert.Zero(t, count)
}

func TestAdd_Success(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")

	entry, err := f.svc.Add(context.Background(), "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "movie-1", entry.ContentID)
	assert.Equal(t, domain.ContentTypeMovie, entry.ContentType)
	assert.False(t, entry.AddedAt.IsZero())

	// The user's whole cached page set was invalidated before Add returned
	assert.Contains(t, f.cache.opLog(), "delprefix:mylist:user-1:")
}

func TestAdd_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// A different user can still add the same content
	_, err = f.svc.Add(ctx, "user-2", "movie-1", domain.ContentTypeMovie)
	assert.NoError(t, err)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, "user-1", "movie-1"))

	inList, err := f.svc.IsInList(ctx, "user-1", "movie-1")
	require.NoError(t, err)
	assert.False(t, inList)

	// Removing again is NotFound, not an idempotent success
	err = f.svc.Remove(ctx, "user-1", "movie-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_NotFound_NoInvalidation(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Remove(context.Background(), "user-1", "movie-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.cache.opLog(), "a failed mutation must not touch the cache")
}

func TestList_ValidationBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, params := range []domain.PageParams{
		{Page: 0, Limit: 20},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
	} {
		_, err := f.svc.List(ctx, "user-1", params)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "params %+v", params)
	}

	// Boundary values inside the range are accepted
	result, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestList_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	f.catalog.add("series-1", domain.ContentTypeSeries, "A Series")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "user-1", "series-1", domain.ContentTypeSeries)
	require.NoError(t, err)

	result, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	// Most recently added first
	assert.Equal(t, "series-1", result.Items[0].ContentID)
	assert.Equal(t, domain.ContentTypeSeries, result.Items[0].ContentType)
	require.NotNil(t, result.Items[0].Content)
	assert.Equal(t, "A Series", result.Items[0].Content.Title)

	assert.Equal(t, "movie-1", result.Items[1].ContentID)
	require.NotNil(t, result.Items[1].Content)
	assert.Equal(t, "A Movie", result.Items[1].Content.Title)

	// Remove and list again: the entry is gone
	require.NoError(t, f.svc.Remove(ctx, "user-1", "movie-1"))

	result, err = f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "series-1", result.Items[0].ContentID)
}

func TestList_PaginationMath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("movie-%02d", i)
		f.catalog.add(id, domain.ContentTypeMovie, "Movie "+id)
		_, err := f.svc.Add(ctx, "user-1", id, domain.ContentTypeMovie)
		require.NoError(t, err)
	}

	page1, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 20)
	assert.Equal(t, int64(25), page1.Pagination.TotalItems)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasNextPage)
	assert.False(t, page1.Pagination.HasPrevPage)

	page2, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 5)
	assert.False(t, page2.Pagination.HasNextPage)
	assert.True(t, page2.Pagination.HasPrevPage)
}

func TestList_CacheHitBypassesStore(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	params := domain.PageParams{Page: 1, Limit: 20}

	first, err := f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)
	callsAfterMiss := f.repo.pageCalls

	second, err := f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)

	assert.Equal(t, callsAfterMiss, f.repo.pageCalls, "cache hit must not touch the store")
	assert.Equal(t, first.Pagination, second.Pagination)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "movie-1", second.Items[0].ContentID)
	require.NotNil(t, second.Items[0].Content, "content must survive the cache round trip")
	assert.Equal(t, "A Movie", second.Items[0].Content.Title)
}

func TestList_CacheCoherenceAfterMutation(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "Movie One")
	f.catalog.add("movie-2", domain.ContentTypeMovie, "Movie Two")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	params := domain.PageParams{Page: 1, Limit: 20}

	// Populate the cache
	stale, err := f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)
	require.Len(t, stale.Items, 1)

	// Mutation acknowledged means invalidation already ran
	_, err = f.svc.Add(ctx, "user-1", "movie-2", domain.ContentTypeMovie)
	require.NoError(t, err)

	fresh, err := f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)
	require.Len(t, fresh.Items, 2, "a read after an acknowledged add must see the new entry")
	assert.Equal(t, "movie-2", fresh.Items[0].ContentID)

	// Same for remove
	require.NoError(t, f.svc.Remove(ctx, "user-1", "movie-1"))

	fresh, err = f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, "movie-2", fresh.Items[0].ContentID)
}

func TestList_InvalidationBeforeAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()
	params := domain.PageParams{Page: 1, Limit: 20}

	// Cache a page, then mutate
	_, err := f.svc.List(ctx, "user-1", params)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	// Add returned, so the op log must already contain the invalidation
	ops := f.cache.opLog()
	require.Contains(t, ops, "delprefix:mylist:user-1:")

	// And the invalidation wiped the previously cached page
	_, exists := f.cache.data["mylist:user-1:1:20"]
	assert.False(t, exists)
}

func TestList_OrphanTolerance(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "Movie One")
	f.catalog.add("movie-2", domain.ContentTypeMovie, "Movie Two")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "user-1", "movie-2", domain.ContentTypeMovie)
	require.NoError(t, err)

	// movie-1 disappears from the catalog after being added
	f.catalog.remove("movie-1", domain.ContentTypeMovie)

	result, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err, "an orphan must not fail the whole request")
	require.Len(t, result.Items, 2)

	assert.Equal(t, "movie-2", result.Items[0].ContentID)
	assert.NotNil(t, result.Items[0].Content)

	assert.Equal(t, "movie-1", result.Items[1].ContentID)
	assert.Nil(t, result.Items[1].Content, "orphaned entry keeps its place with null content")
}

func TestList_CatalogUnavailableFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	f.catalog.failWith = fmt.Errorf("catalog lookup: %w", domain.ErrUnavailable)

	_, err = f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	assert.ErrorIs(t, err, domain.ErrUnavailable,
		"a transient catalog failure must not be silently treated as orphaned")
}

func TestList_CacheFailuresDegradeToStore(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	f.cache.getErr = errors.New("redis: connection refused")
	f.cache.setErr = errors.New("redis: connection refused")

	result, err := f.svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err, "cache failure must never fail the read")
	require.Len(t, result.Items, 1)
	assert.Equal(t, "movie-1", result.Items[0].ContentID)
}

func TestMutations_SurviveCacheInvalidationFailure(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	f.cache.delErr = errors.New("redis: connection refused")

	entry, err := f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err, "invalidation failure must not fail the mutation")
	assert.NotEmpty(t, entry.ID)

	require.NoError(t, f.svc.Remove(ctx, "user-1", "movie-1"))
}

func TestList_NilCacheDisablesCaching(t *testing.T) {
	repo := newFakeRepo()
	catalog := newFakeCatalog()
	catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	svc := NewListService(repo, catalog, nil, 300*time.Second, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := svc.List(ctx, "user-1", domain.PageParams{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	}

	assert.Equal(t, 2, repo.pageCalls, "every read goes to the store when caching is off")
}

func TestIsInListAndCount(t *testing.T) {
	f := newFixture(t)
	f.catalog.add("movie-1", domain.ContentTypeMovie, "A Movie")
	ctx := context.Background()

	inList, err := f.svc.IsInList(ctx, "user-1", "movie-1")
	require.NoError(t, err)
	assert.False(t, inList)

	count, err := f.svc.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.svc.Add(ctx, "user-1", "movie-1", domain.ContentTypeMovie)
	require.NoError(t, err)

	inList, err = f.svc.IsInList(ctx, "user-1", "movie-1")
	require.NoError(t, err)
	assert.True(t, inList)

	count, err = f.svc.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
