package tracking

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/ais"
	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

// Scheduler drives the background loops: the position poll over tracked
// vessels, the staleness sweep, and the history retention cleanup. One
// scheduler owns all three; Stop waits for in-flight cycles to drain.
type Scheduler struct {
	cfg        config.TrackingConfig
	vessels    domainVessel.Repository
	positions  domainVessel.PositionRepository
	aggregator *ais.Aggregator
	store      *Store
	publisher  *Publisher
	metrics    *MetricsTracker
	log        *zap.Logger

	// polling guards against overlapping poll cycles when a cycle outlives
	// the tick interval. The late tick is dropped, not queued.
	polling atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(
	cfg config.TrackingConfig,
	vessels domainVessel.Repository,
	positions domainVessel.PositionRepository,
	aggregator *ais.Aggregator,
	store *Store,
	publisher *Publisher,
	metrics *MetricsTracker,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		vessels:    vessels,
		positions:  positions,
		aggregator: aggregator,
		store:      store,
		publisher:  publisher,
		metrics:    metrics,
		log:        log,
	}
}

// Start launches the background loops. Call Stop to shut them down.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(3)
	go s.runLoop(ctx, s.cfg.PollInterval, "position poll", s.PollOnce)
	go s.runLoop(ctx, s.cfg.StalenessThreshold, "staleness sweep", s.CheckStaleOnce)
	go s.runLoop(ctx, s.cfg.CleanupInterval, "history cleanup", s.CleanupOnce)

	s.log.Info("tracking scheduler started",
		zap.Duration("poll_interval", s.cfg.PollInterval),
		zap.Duration("cleanup_interval", s.cfg.CleanupInterval),
		zap.Int("worker_count", s.cfg.WorkerCount),
	)
}

// Stop cancels the loops and waits for them to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("tracking scheduler stopped")
}

func (s *Scheduler) runLoop(ctx context.Context, interval time.Duration, name string, fn func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Debug("loop running", zap.String("loop", name), zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// PollOnce runs a single poll cycle: every tracked vessel is resolved
// through the provider chain and its answer applied. Cycles never overlap;
// a tick arriving while one is still running is counted as skipped.
func (s *Scheduler) PollOnce(ctx context.Context) {
	if !s.polling.CompareAndSwap(false, true) {
		s.metrics.Update(func(m *PollMetrics) { m.CyclesSkipped++ })
		s.log.Warn("previous poll cycle still running, skipping tick")
		return
	}
	defer s.polling.Store(false)

	started := time.Now()

	vessels, err := s.vessels.ListTracked(ctx)
	if err != nil {
		s.log.Error("failed to list tracked vessels", zap.Error(err))
		return
	}

	workers := s.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	var updated, failed, appended atomic.Int64
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, v := range vessels {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(v *domainVessel.Vessel) {
			defer wg.Done()
			defer func() { <-sem }()

			np := s.aggregator.ResolvePosition(ctx, v.MMSI)
			if _, err := s.store.ApplyPosition(ctx, v, np); err != nil {
				failed.Add(1)
				s.log.Error("failed to apply polled position",
					zap.String("mmsi", v.MMSI),
					zap.Error(err),
				)
				return
			}
			updated.Add(1)
			appended.Add(1)
		}(v)
	}
	wg.Wait()

	duration := time.Since(started)
	s.metrics.Update(func(m *PollMetrics) {
		m.CyclesCompleted++
		m.VesselsUpdated += updated.Load()
		m.VesselsFailed += failed.Load()
		m.PositionsAppended += appended.Load()
		m.LastCycleAt = started
		m.LastCycleDuration = duration
	})

	s.log.Info("poll cycle completed",
		zap.Int("vessels", len(vessels)),
		zap.Int64("updated", updated.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("duration", duration),
	)
}

// CheckStaleOnce flags tracked vessels whose last update is older than the
// staleness threshold and publishes an alert for each.
func (s *Scheduler) CheckStaleOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.StalenessThreshold)

	stale, err := s.vessels.ListStale(ctx, cutoff)
	if err != nil {
		s.log.Error("staleness sweep failed", zap.Error(err))
		return
	}

	for _, v := range stale {
		s.publisher.PublishStaleAlert(v)
		s.log.Warn("vessel position is stale",
			zap.String("mmsi", v.MMSI),
			zap.String("vessel", v.Name),
			zap.Timep("last_update", v.LastPositionUpdate),
		)
	}

	s.metrics.Update(func(m *PollMetrics) { m.StaleVessels = int64(len(stale)) })
}

// CleanupOnce purges history rows past the retention window.
func (s *Scheduler) CleanupOnce(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	purged, err := s.positions.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("history cleanup failed", zap.Error(err))
		return
	}

	s.metrics.Update(func(m *PollMetrics) { m.PositionsPurged += purged })

	s.log.Info("history cleanup completed",
		zap.Int64("purged", purged),
		zap.Time("cutoff", cutoff),
	)
}
