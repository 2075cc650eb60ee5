// Package scheduler drives the periodic refresh: on a fixed interval it
// retries DART lookups for every profile still carrying placeholder data,
// then re-runs the financial-statement synchronizer (and optionally the
// disclosure synchronizer) for every active partner corp code. A distributed
// lock keeps concurrent fern instances from refreshing in parallel.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/syncer"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ErrSchedulerAlreadyRunning is returned when starting a running scheduler
var ErrSchedulerAlreadyRunning = errors.New("scheduler already running")

const (
	// DefaultInterval is the default time between refresh cycles
	DefaultInterval = 6 * time.Hour

	// DefaultLockTTL is the default TTL for the refresh-cycle lock
	DefaultLockTTL = 30 * time.Minute

	// DefaultBatchSize is the number of corp codes fetched per page
	DefaultBatchSize = 500

	// refreshLockKey is the lock key shared by all fern instances
	refreshLockKey = "refresh-cycle"
)

// CorpCodeLister pages through the corp codes the refresh covers
type CorpCodeLister interface {
	ListActiveCorpCodes(ctx context.Context, limit, offset int) ([]string, error)
}

// ProfileLister pages through company-profile corp codes. placeholderOnly
// restricts the listing to profiles still awaiting real DART data.
type ProfileLister interface {
	ListCorpCodes(ctx context.Context, placeholderOnly bool, limit, offset int) ([]string, error)
}

// Config holds scheduler configuration
type Config struct {
	// Interval is how often a refresh cycle runs
	Interval time.Duration

	// LockTTL is how long the refresh-cycle lock is held at most
	LockTTL time.Duration

	// BatchSize is the corp-code page size
	BatchSize int

	// RefreshDisclosures also re-runs the disclosure synchronizer per company
	RefreshDisclosures bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Interval:  DefaultInterval,
		LockTTL:   DefaultLockTTL,
		BatchSize: DefaultBatchSize,
	}
}

// Scheduler runs periodic refresh cycles
type Scheduler struct {
	lister      CorpCodeLister
	profileList ProfileLister
	profiles    *syncer.ProfileSyncer
	disclosures *syncer.DisclosureSyncer
	financials  *syncer.FinancialSyncer
	locker      *redis.Locker
	config      Config
	logger      ectologger.Logger

	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.RWMutex
}

// NewScheduler creates a new refresh scheduler
func NewScheduler(
	lister CorpCodeLister,
	profileList ProfileLister,
	profiles *syncer.ProfileSyncer,
	disclosures *syncer.DisclosureSyncer,
	financials *syncer.FinancialSyncer,
	locker *redis.Locker,
	config Config,
	logger ectologger.Logger,
) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultLockTTL
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	return &Scheduler{
		lister:      lister,
		profileList: profileList,
		profiles:    profiles,
		disclosures: disclosures,
		financials:  financials,
		locker:      locker,
		config:      config,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerAlreadyRunning
	}
	s.running = true
	// Fresh channels per run so the scheduler can be restarted after Stop.
	s.stopCh = make(chan struct{})
	s.stoppedC = make(chan struct{})
	stopCh, stoppedC := s.stopCh, s.stoppedC
	s.mu.Unlock()

	s.logger.WithContext(ctx).Infof("Starting refresh scheduler: interval=%s batch_size=%d",
		s.config.Interval, s.config.BatchSize)

	go s.pollLoop(ctx, stopCh, stoppedC)
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, stoppedC := s.stopCh, s.stoppedC
	s.mu.Unlock()

	close(stopCh)

	select {
	case <-stoppedC:
		s.logger.WithContext(ctx).Info("Refresh scheduler stopped")
	case <-ctx.Done():
		s.logger.WithContext(ctx).Warn("Refresh scheduler shutdown timed out")
		return ctx.Err()
	}
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) pollLoop(ctx context.Context, stopCh <-chan struct{}, stoppedC chan<- struct{}) {
	defer close(stoppedC)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, stopCh)
		}
	}
}

// runCycle runs one refresh cycle under the distributed lock
func (s *Scheduler) runCycle(ctx context.Context, stopCh <-chan struct{}) {
	ctx, span := tracing.StartSpan(ctx, "scheduler.Scheduler.runCycle")
	defer span.End()

	err := s.locker.WithLock(ctx, refreshLockKey, s.config.LockTTL, func() error {
		return s.refreshAll(ctx, stopCh)
	})
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			s.logger.WithContext(ctx).Info("Refresh cycle already running elsewhere, skipping")
			metrics.RefreshCyclesTotal.WithLabelValues("skipped").Inc()
			return
		}
		s.logger.WithContext(ctx).WithError(err).Error("Refresh cycle failed")
		metrics.RefreshCyclesTotal.WithLabelValues("error").Inc()
		return
	}

	metrics.RefreshCyclesTotal.WithLabelValues("success").Inc()
}

func (s *Scheduler) refreshAll(ctx context.Context, stopCh <-chan struct{}) error {
	start := time.Now()

	placeholders, err := s.refreshPlaceholders(ctx, stopCh)
	if err != nil {
		return err
	}

	total := 0
	for offset := 0; ; offset += s.config.BatchSize {
		select {
		case <-stopCh:
			s.logger.WithContext(ctx).Info("Refresh cycle interrupted by shutdown")
			return nil
		default:
		}

		codes, err := s.lister.ListActiveCorpCodes(ctx, s.config.BatchSize, offset)
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			break
		}

		for _, corpCode := range codes {
			s.refreshCompany(ctx, corpCode)
			total++
			metrics.RefreshCompaniesTotal.Inc()
		}

		if len(codes) < s.config.BatchSize {
			break
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"companies":    total,
		"placeholders": placeholders,
		"duration":     time.Since(start).String(),
	}).Info("Refresh cycle complete")
	return nil
}

// refreshPlaceholders retries the DART lookup for every profile still carrying
// placeholder data, including companies no longer tied to an active partner.
func (s *Scheduler) refreshPlaceholders(ctx context.Context, stopCh <-chan struct{}) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "scheduler.Scheduler.refreshPlaceholders")
	defer span.End()

	// Collect the full listing before refreshing: promoted profiles drop out
	// of the placeholder set, which would shift offset-based pages mid-sweep.
	var codes []string
	for offset := 0; ; offset += s.config.BatchSize {
		page, err := s.profileList.ListCorpCodes(ctx, true, s.config.BatchSize, offset)
		if err != nil {
			return 0, err
		}
		codes = append(codes, page...)
		if len(page) < s.config.BatchSize {
			break
		}
	}

	total := 0
	for _, corpCode := range codes {
		select {
		case <-stopCh:
			s.logger.WithContext(ctx).Info("Placeholder sweep interrupted by shutdown")
			return total, nil
		default:
		}

		if _, err := s.profiles.Refresh(ctx, corpCode); err != nil {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"corp_code": corpCode,
			}).Warn("Placeholder profile retry failed")
		}
		total++
	}
	return total, nil
}

// refreshCompany refreshes one corp code, best-effort per step
func (s *Scheduler) refreshCompany(ctx context.Context, corpCode string) {
	ctx, span := tracing.StartSpan(ctx, "scheduler.Scheduler.refreshCompany")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{"corp_code": corpCode})

	if s.config.RefreshDisclosures {
		if result := s.disclosures.Sync(ctx, corpCode); result.Err != nil {
			log.WithError(result.Err).Warn("Disclosure refresh failed")
		}
	}

	if result := s.financials.SyncRecent(ctx, corpCode); result.Err != nil {
		log.WithError(result.Err).Warn("Financial statement refresh incomplete")
	}
}
