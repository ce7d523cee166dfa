package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mylist-service/internal/domain"
)

// AuditService walks the list store and checks every referenced content
// against the catalog. Orphaned references are reported, not repaired:
// the read path already tolerates them, and deleting on the catalog's
// behalf would turn a catalog outage into data loss.
type AuditService struct {
	repo      domain.ListRepository
	catalog   domain.Catalog
	batchSize int
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.ListRepository, catalog domain.Catalog, batchSize int, logger *zap.Logger) *AuditService {
	return &AuditService{
		repo:      repo,
		catalog:   catalog,
		batchSize: batchSize,
		logger:    logger,
	}
}

// AuditResult holds the result of one audit sweep.
type AuditResult struct {
	Scanned  int
	Orphans  int
	Failures int
	Duration time.Duration
}

// Audit sweeps the whole store in batches. Lookup failures are counted and
// skipped so one flaky catalog call does not abort the sweep.
func (s *AuditService) Audit(ctx context.Context) (AuditResult, error) {
	start := time.Now()
	result := AuditResult{}

	for offset := 0; ; offset += s.batchSize {
		entries, err := s.repo.Entries(ctx, offset, s.batchSize)
		if err != nil {
			result.Duration = time.Since(start)

			return result, err
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				result.Duration = time.Since(start)

				return result, err
			}

			result.Scanned++

			exists, err := s.catalog.Exists(ctx, entry.ContentID, entry.ContentType)
			if err != nil {
				result.Failures++
				s.logger.Debug("audit lookup failed",
					zap.String("content_id", entry.ContentID),
					zap.Error(err),
				)

				continue
			}
			if !exists {
				result.Orphans++
				s.logger.Warn("orphaned list entry found",
					zap.String("user_id", entry.UserID),
					zap.String("content_id", entry.ContentID),
					zap.String("content_type", string(entry.ContentType)),
				)
			}
		}

		if len(entries) < s.batchSize {
			break
		}
	}

	result.Duration = time.Since(start)

	s.logger.Info("orphan audit completed",
		zap.Int("scanned", result.Scanned),
		zap.Int("orphans", result.Orphans),
		zap.Int("lookup_failures", result.Failures),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}
