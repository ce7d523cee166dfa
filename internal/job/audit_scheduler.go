// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mylist-service/internal/app/service"
	"mylist-service/pkg/locker"
)

// AuditScheduler runs the periodic orphan audit with distributed locking
// so only one instance sweeps the store at a time.
type AuditScheduler struct {
	auditService *service.AuditService
	interval     time.Duration
	timeout      time.Duration
	logger       *zap.Logger
	locker       locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// AuditConfig holds audit scheduler configuration.
type AuditConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewAuditScheduler creates a new AuditScheduler.
func NewAuditScheduler(
	auditSvc *service.AuditService,
	cfg AuditConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *AuditScheduler {
	return &AuditScheduler{
		auditService: auditSvc,
		interval:     cfg.Interval,
		timeout:      cfg.Timeout,
		logger:       logger,
		locker:       locker,
	}
}

// Start begins the background audit job.
func (s *AuditScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting audit scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *AuditScheduler) Stop() {
	s.logger.Info("stopping audit scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("audit scheduler stopped")
}

// run is the main loop of the scheduler.
func (s *AuditScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	// Run immediately if configured
	if runOnStartup {
		s.executeAudit()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeAudit()
		}
	}
}

// executeAudit performs one audit sweep with distributed locking and timeout.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: Lock held for full interval to prevent duplicate sweeps
//   - Failure: Lock released immediately to allow retry by another instance
func (s *AuditScheduler) executeAudit() {
	const lockKey = "audit:scheduler:lock"

	// Try to acquire lock with interval-based TTL (cooldown model)
	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is running the audit, skipping execution")

		return
	}

	// Lock acquired - run the sweep with timeout
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	result, err := s.auditService.Audit(ctx)
	if err != nil {
		// Release lock immediately on error (allow immediate retry)
		if relErr := s.locker.Release(s.ctx, lockKey); relErr != nil {
			s.logger.Error("failed to release lock after audit error", zap.Error(relErr))
		}
		s.logger.Warn("audit aborted, lock released for retry",
			zap.Int("scanned", result.Scanned),
			zap.Error(err),
		)

		return
	}

	// Lock will expire naturally after interval (cooldown period)
	s.logger.Info("audit completed, lock held for cooldown",
		zap.Int("scanned", result.Scanned),
		zap.Int("orphans", result.Orphans),
		zap.Int("lookup_failures", result.Failures),
		zap.Duration("cooldown", s.interval),
	)
}
