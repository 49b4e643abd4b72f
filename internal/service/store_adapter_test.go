package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/alexanderramin/tempo/internal/timer"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func newTimerStore(t *testing.T) (*service.TimerStore, service.WorkItemService, service.WorkLogService) {
	t.Helper()
	database := testutil.NewTestDB(t)
	itemRepo := repository.NewSQLiteWorkItemRepo(database)
	logRepo := repository.NewSQLiteWorkLogRepo(database)
	items := service.NewWorkItemService(itemRepo)
	logs := service.NewWorkLogService(logRepo, itemRepo)
	return service.NewTimerStore(items, logs, testutil.NewTestUoW(database)), items, logs
}

func TestTimerStoreLogAndCompleteIsAtomic(t *testing.T) {
	store, items, logs := newTimerStore(t)
	ctx := context.Background()

	w := testutil.NewTestItem("deep work")
	require.NoError(t, items.Create(ctx, w))

	now := time.Now().UTC()
	entry := &domain.WorkLogEntry{
		ItemID:    w.ID,
		StartedAt: now.Add(-31 * time.Minute),
		EndedAt:   now,
		Minutes:   25,
		Note:      "session one",
	}
	require.NoError(t, store.LogAndComplete(ctx, entry, w.ID))

	got, err := items.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemCompleted, got.Status)

	byItem, err := logs.ListByItem(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, 25, byItem[0].Minutes)
}

func TestTimerStoreLogAndCompleteRollsBackTogether(t *testing.T) {
	store, items, logs := newTimerStore(t)
	ctx := context.Background()

	w := testutil.NewTestItem("deep work")
	require.NoError(t, items.Create(ctx, w))

	// A log against a missing item violates the foreign key, so the
	// whole transaction must roll back.
	entry := &domain.WorkLogEntry{ItemID: "no-such-item", Minutes: 10}
	require.Error(t, store.LogAndComplete(ctx, entry, "no-such-item"))

	byItem, err := logs.ListByItem(ctx, "no-such-item")
	require.NoError(t, err)
	assert.Empty(t, byItem)
}

// Full session flow through the engine against real storage.
func TestEngineSessionAgainstSQLite(t *testing.T) {
	store, items, logs := newTimerStore(t)
	ctx := context.Background()

	w := testutil.NewTestItem("quarterly summary", testutil.WithPlannedMinutes(30))
	require.NoError(t, items.Create(ctx, w))

	clock := &manualClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	engine, err := timer.NewEngine(w, store, timer.Config{
		BreakMinutes: 5,
		Clock:        clock,
	})
	require.NoError(t, err)

	require.NoError(t, engine.Start())
	for i := 0; i < 180; i++ {
		clock.now = clock.now.Add(time.Second)
		engine.Tick()
	}
	engine.Stop()

	succ, err := engine.ContinueWith(ctx, "good progress", &timer.NextSteps{
		Note:      "tackle the appendix",
		StartDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Original is completed with its minutes logged.
	orig, err := items.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemCompleted, orig.Status)

	byItem, err := logs.ListByItem(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, 3, byItem[0].Minutes)
	assert.Equal(t, "good progress", byItem[0].Note)

	// Successor persisted, linked, open, with next steps carried over.
	got, err := items.GetByID(ctx, succ.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, w.ID, *got.ParentID)
	assert.Equal(t, "quarterly summary", got.Title)
	assert.Equal(t, "tackle the appendix", got.Notes)
	assert.Equal(t, domain.ItemOpen, got.Status)
}
