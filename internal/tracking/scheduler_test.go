package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vessel-tracker/internal/ais"
	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
	"vessel-tracker/internal/infrastructure/database/postgres"
)

func newTestScheduler(t *testing.T) (*Scheduler, domainVessel.Repository, domainVessel.PositionRepository) {
	t.Helper()

	db := newTestDB(t)
	vessels := postgres.NewVesselRepository(db)
	positions := postgres.NewPositionRepository(db)

	log := zap.NewNop()
	store := NewStore(vessels, positions, nil, true, log)
	agg := ais.NewAggregator(nil, nil, nil, 0, log)

	cfg := config.TrackingConfig{
		PollInterval:       time.Minute,
		CleanupInterval:    24 * time.Hour,
		StalenessThreshold: 24 * time.Hour,
		RetentionDays:      90,
		WorkerCount:        4,
		RequireNewer:       true,
	}

	sched := NewScheduler(cfg, vessels, positions, agg, store, nil, NewMetricsTracker(), log)
	return sched, vessels, positions
}

func TestPollOnce_UpdatesTrackedVessels(t *testing.T) {
	sched, vessels, _ := newTestScheduler(t)
	ctx := context.Background()

	createTestVessel(t, vessels, "111111111", true)
	createTestVessel(t, vessels, "222222222", true)
	createTestVessel(t, vessels, "333333333", false) // untracked, must be ignored

	sched.PollOnce(ctx)

	m := sched.metrics.Snapshot()
	assert.Equal(t, int64(1), m.CyclesCompleted)
	assert.Equal(t, int64(2), m.VesselsUpdated)
	assert.Equal(t, int64(0), m.VesselsFailed)
	assert.Equal(t, int64(2), m.PositionsAppended)
	assert.False(t, m.LastCycleAt.IsZero())

	// with no providers configured every tracked vessel falls back to the
	// deterministic mock source and still gets a fix
	for _, mmsi := range []string{"111111111", "222222222"} {
		v, err := vessels.GetByMMSI(ctx, mmsi)
		require.NoError(t, err)
		assert.True(t, v.HasFix())
		assert.Equal(t, "mock", v.DataSource)
	}

	untracked, err := vessels.GetByMMSI(ctx, "333333333")
	require.NoError(t, err)
	assert.False(t, untracked.HasFix())
}

func TestPollOnce_SkipsWhileCycleInFlight(t *testing.T) {
	sched, vessels, _ := newTestScheduler(t)

	createTestVessel(t, vessels, "111111111", true)

	sched.polling.Store(true)
	sched.PollOnce(context.Background())

	m := sched.metrics.Snapshot()
	assert.Equal(t, int64(1), m.CyclesSkipped)
	assert.Equal(t, int64(0), m.CyclesCompleted)
}

func TestCheckStaleOnce_CountsStaleVessels(t *testing.T) {
	sched, vessels, _ := newTestScheduler(t)
	ctx := context.Background()

	fresh := createTestVessel(t, vessels, "111111111", true)
	createTestVessel(t, vessels, "222222222", true) // never updated, counts as stale

	now := time.Now().UTC()
	_, err := sched.store.ApplyPosition(ctx, fresh, testRecord(fresh.MMSI, now))
	require.NoError(t, err)

	sched.CheckStaleOnce(ctx)

	m := sched.metrics.Snapshot()
	assert.Equal(t, int64(1), m.StaleVessels)
}

func TestCleanupOnce_PurgesOnlyExpiredHistory(t *testing.T) {
	sched, vessels, positions := newTestScheduler(t)
	ctx := context.Background()

	v := createTestVessel(t, vessels, "111111111", true)

	appendAt := func(ts time.Time) {
		p := &domainVessel.Position{
			ID:         uuid.New(),
			VesselID:   v.ID,
			Latitude:   59.0,
			Longitude:  10.0,
			Timestamp:  ts,
			ReceivedAt: ts,
			DataSource: "aishub",
		}
		require.NoError(t, positions.Append(ctx, p))
	}

	now := time.Now().UTC()
	appendAt(now.AddDate(0, 0, -120))
	appendAt(now.AddDate(0, 0, -91))
	appendAt(now.AddDate(0, 0, -10))
	appendAt(now)

	sched.CleanupOnce(ctx)

	count, err := positions.CountForVessel(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	m := sched.metrics.Snapshot()
	assert.Equal(t, int64(2), m.PositionsPurged)
}

func TestSchedulerStartStop(t *testing.T) {
	sched, _, _ := newTestScheduler(t)

	sched.Start()
	sched.Stop()
}
