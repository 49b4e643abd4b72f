package timer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/dateutil"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeStore struct {
	items map[string]*domain.WorkItem
	logs  []*domain.WorkLogEntry

	updateErr     error
	completeErr   error
	createLogErr  error
	createItemErr error

	completeCalls int
	updateCalls   int
}

func newFakeStore(items ...*domain.WorkItem) *fakeStore {
	s := &fakeStore{items: map[string]*domain.WorkItem{}}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *fakeStore) GetItem(_ context.Context, id string) (*domain.WorkItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, errors.New("no such item")
	}
	return it, nil
}

func (s *fakeStore) UpdateItem(_ context.Context, item *domain.WorkItem) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	s.items[item.ID] = item
	return nil
}

func (s *fakeStore) CompleteItem(_ context.Context, id string) (bool, error) {
	s.completeCalls++
	if s.completeErr != nil {
		return false, s.completeErr
	}
	it, ok := s.items[id]
	if !ok {
		return false, errors.New("no such item")
	}
	if it.Status == domain.ItemCompleted {
		return false, nil
	}
	it.Status = domain.ItemCompleted
	return true, nil
}

func (s *fakeStore) CreateWorkLog(_ context.Context, entry *domain.WorkLogEntry) (string, error) {
	if s.createLogErr != nil {
		return "", s.createLogErr
	}
	entry.ID = "log-1"
	s.logs = append(s.logs, entry)
	return entry.ID, nil
}

func (s *fakeStore) CreateItem(_ context.Context, item *domain.WorkItem) error {
	if s.createItemErr != nil {
		return s.createItemErr
	}
	if item.ID == "" {
		item.ID = "item-new"
	}
	s.items[item.ID] = item
	return nil
}

func (s *fakeStore) DuplicateItem(_ context.Context, id string) (string, error) {
	it, ok := s.items[id]
	if !ok {
		return "", errors.New("no such item")
	}
	dup := *it
	dup.ID = id + "-copy"
	s.items[dup.ID] = &dup
	return dup.ID, nil
}

type txFakeStore struct {
	*fakeStore
	txCalls int
	txErr   error
}

func (s *txFakeStore) LogAndComplete(ctx context.Context, entry *domain.WorkLogEntry, itemID string) error {
	s.txCalls++
	if s.txErr != nil {
		return s.txErr
	}
	if _, err := s.fakeStore.CreateWorkLog(ctx, entry); err != nil {
		return err
	}
	_, err := s.fakeStore.CompleteItem(ctx, itemID)
	return err
}

func testItem() *domain.WorkItem {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	return &domain.WorkItem{
		ID:             "item-1",
		Who:            "me",
		Title:          "write report",
		Importance:     domain.ImportanceWeights["High"],
		Urgency:        domain.UrgencyWeights["Medium"],
		Size:           domain.SizeWeights["M"],
		Value:          domain.ValueWeights["L"],
		PlannedMinutes: 30,
		Status:         domain.ItemOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newTestEngine(t *testing.T, item *domain.WorkItem, store timer.ItemStore, clock *fakeClock) *timer.Engine {
	t.Helper()
	e, err := timer.NewEngine(item, store, timer.Config{
		BreakMinutes:  5,
		WeekendPolicy: dateutil.WeekendPolicy{},
		Clock:         clock,
	})
	require.NoError(t, err)
	return e
}

// runFor ticks the engine once per simulated second.
func runFor(e *timer.Engine, clock *fakeClock, seconds int) {
	for i := 0; i < seconds; i++ {
		clock.Advance(time.Second)
		e.Tick()
	}
}

func TestEngineFinishLogsAndCompletes(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 150)
	e.Stop()

	entry, err := e.Finish(context.Background(), "drafted intro")
	require.NoError(t, err)

	require.Len(t, store.logs, 1)
	assert.Equal(t, "item-1", entry.ItemID)
	assert.Equal(t, 2, entry.Minutes)
	assert.Equal(t, "drafted intro", entry.Note)
	assert.Equal(t, domain.ItemCompleted, store.items["item-1"].Status)
}

func TestEngineFinishRequiresStoppedSession(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	_, err := e.Finish(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, store.logs)
}

func TestEngineFinishRetrySkipsCompletedSteps(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	store.completeErr = errors.New("database locked")
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 120)
	e.Stop()

	_, err := e.Finish(context.Background(), "first try")
	require.Error(t, err)
	require.Len(t, store.logs, 1)

	// The retry must not write a second log entry.
	store.completeErr = nil
	entry, err := e.Finish(context.Background(), "first try")
	require.NoError(t, err)
	require.Len(t, store.logs, 1)
	assert.Equal(t, "first try", entry.Note)
	assert.Equal(t, domain.ItemCompleted, store.items["item-1"].Status)
}

func TestEngineFinishIsIdempotent(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	first, err := e.Finish(context.Background(), "done")
	require.NoError(t, err)
	second, err := e.Finish(context.Background(), "done")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, store.logs, 1)
	assert.Equal(t, 1, store.completeCalls)
}

func TestEngineFinishPrefersAtomicStore(t *testing.T) {
	item := testItem()
	store := &txFakeStore{fakeStore: newFakeStore(item)}
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	_, err := e.Finish(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.txCalls)
	assert.Equal(t, domain.ItemCompleted, store.items["item-1"].Status)
}

func TestContinueLinksSuccessorToOriginal(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	start := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	succ, err := e.ContinueWith(context.Background(), "keep going", &timer.NextSteps{
		Note:      "finish section two",
		StartDate: start,
		DueDate:   start,
	})
	require.NoError(t, err)

	require.NotNil(t, succ.ParentID)
	assert.Equal(t, "item-1", *succ.ParentID)
	assert.Equal(t, item.Title, succ.Title)
	assert.Equal(t, "finish section two", succ.Notes)
	assert.Equal(t, domain.ItemOpen, succ.Status)
	assert.Equal(t, domain.ItemCompleted, store.items["item-1"].Status)
}

func TestContinueSuccessorBecomesSiblingUnderExistingParent(t *testing.T) {
	item := testItem()
	parent := "P1"
	item.ParentID = &parent
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	succ, err := e.ContinueWith(context.Background(), "", nil)
	require.NoError(t, err)
	require.NotNil(t, succ.ParentID)
	assert.Equal(t, "P1", *succ.ParentID)
}

func TestContinueSkippedPromptFallsBackToNextWorkableDay(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	// Friday; weekends excluded, so the next workable day is Monday.
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e, err := timer.NewEngine(item, store, timer.Config{
		BreakMinutes: 5,
		Clock:        clock,
		WeekendPolicy: dateutil.WeekendPolicy{
			IncludeSaturday: false,
			IncludeSunday:   false,
		},
	})
	require.NoError(t, err)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	succ, err := e.ContinueWith(context.Background(), "", nil)
	require.NoError(t, err)

	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, succ.StartDate)
	require.NotNil(t, succ.DueDate)
	assert.Equal(t, monday, *succ.StartDate)
	assert.Equal(t, monday, *succ.DueDate)
	assert.Empty(t, succ.Notes)
}

func TestContinueRejectsDueBeforeStart(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 60)
	e.Stop()

	_, err := e.ContinueWith(context.Background(), "note", &timer.NextSteps{
		StartDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, timer.ErrDueBeforeStart)

	// The original is already completed; only the successor is pending.
	assert.Equal(t, domain.ItemCompleted, store.items["item-1"].Status)
	assert.Len(t, store.logs, 1)

	// A corrected capture succeeds without duplicating the work log.
	start := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	succ, err := e.CreateSuccessor(context.Background(), &timer.NextSteps{
		StartDate: start,
		DueDate:   start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	assert.NotNil(t, succ)
	assert.Len(t, store.logs, 1)
}

func TestAbandonPersistsNotesWithoutLogging(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.Start())
	runFor(e, clock, 30)

	require.NoError(t, e.Abandon(context.Background(), "half-formed thoughts"))
	assert.Equal(t, timer.StateStopped, e.State())
	assert.Equal(t, "half-formed thoughts", store.items["item-1"].Notes)
	assert.Empty(t, store.logs)
	assert.Equal(t, domain.ItemOpen, store.items["item-1"].Status)
}

func TestSetTimeBlockSyncsPlannedMinutes(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e := newTestEngine(t, item, store, clock)

	require.NoError(t, e.SetTimeBlock(context.Background(), 45, 10))
	assert.Equal(t, 45, item.PlannedMinutes)
	assert.Equal(t, 1, store.updateCalls)

	require.NoError(t, e.Start())
	require.Error(t, e.SetTimeBlock(context.Background(), 60, 5))
}

type panickyNotifier struct{}

func (panickyNotifier) BreakStarted() { panic("alert backend gone") }
func (panickyNotifier) BreakEnded()   {}

func TestTickFaultDoesNotKillSession(t *testing.T) {
	item := testItem()
	item.PlannedMinutes = 6
	store := newFakeStore(item)
	clock := &fakeClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e, err := timer.NewEngine(item, store, timer.Config{
		BreakMinutes: 5,
		Clock:        clock,
		Notifier:     panickyNotifier{},
	})
	require.NoError(t, err)

	require.NoError(t, e.Start())
	require.NotPanics(t, func() { runFor(e, clock, 60) })

	// The transition survived even though the alert blew up.
	assert.Equal(t, timer.StateOnBreak, e.State())
}

// faultyClock blows up on a chosen reading, then recovers.
type faultyClock struct {
	now     time.Time
	failAt  int
	reading int
}

func (c *faultyClock) Now() time.Time {
	c.reading++
	if c.reading == c.failAt {
		panic("clock source gone")
	}
	return c.now
}

func TestTickFaultReleasesLock(t *testing.T) {
	item := testItem()
	store := newFakeStore(item)
	clock := &faultyClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	e, err := timer.NewEngine(item, store, timer.Config{
		BreakMinutes: 5,
		Clock:        clock,
	})
	require.NoError(t, err)
	require.NoError(t, e.Start())

	clock.failAt = clock.reading + 1
	require.NotPanics(t, func() { e.Tick() })

	// A held mutex here would deadlock every later call.
	done := make(chan timer.State, 1)
	go func() { done <- e.State() }()
	select {
	case st := <-done:
		assert.Equal(t, timer.StateRunning, st)
	case <-time.After(time.Second):
		t.Fatal("engine locked up after a tick fault")
	}

	clock.now = clock.now.Add(time.Second)
	assert.Equal(t, timer.EventNone, e.Tick())
	assert.Equal(t, 1, e.Snapshot().WorkSecondsElapsed)
}
