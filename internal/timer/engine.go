package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/dateutil"
	"github.com/alexanderramin/tempo/internal/domain"
)

// ErrDueBeforeStart is returned by the Continue workflow when the captured
// due date precedes the start date. Callers re-prompt without discarding
// the typed note.
var ErrDueBeforeStart = errors.New("due date is before start date")

// NextSteps is the capture from the Continue workflow's final prompt. A nil
// capture means the user skipped it; the engine then falls back to the next
// workable day for both dates with no note.
type NextSteps struct {
	Note      string
	StartDate time.Time
	DueDate   time.Time
}

// Config carries the engine's collaborators and durations. Zero-value
// fields get sensible defaults: the item's planned minutes for the block,
// the system clock, a noop notifier, and a discarding logger.
type Config struct {
	TimeBlockMinutes int
	BreakMinutes     int
	WeekendPolicy    dateutil.WeekendPolicy
	Clock            Clock
	Notifier         Notifier
	Logger           *slog.Logger
}

// Engine runs one timer session against a work item and orchestrates the
// two completion workflows. All persistence goes through the ItemStore
// port; the engine itself only owns the ephemeral session.
type Engine struct {
	mu       sync.Mutex
	session  *Session
	item     *domain.WorkItem
	store    ItemStore
	notifier Notifier
	clock    Clock
	logger   *slog.Logger
	policy   dateutil.WeekendPolicy

	// Completion bookkeeping. Each persistence step records its own
	// success so a retry after a collaborator failure re-runs only the
	// failed step, never duplicating a work log.
	logEntry  *domain.WorkLogEntry
	completed bool
	successor *domain.WorkItem
}

// NewEngine creates an engine for the given item. The caller guarantees at
// most one open session per item.
func NewEngine(item *domain.WorkItem, store ItemStore, cfg Config) (*Engine, error) {
	if item == nil {
		return nil, errors.New("work item is required")
	}
	block := cfg.TimeBlockMinutes
	if block == 0 {
		block = item.PlannedMinutes
	}
	session, err := NewSession(block, cfg.BreakMinutes)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		session:  session,
		item:     item,
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		policy:   cfg.WeekendPolicy,
	}, nil
}

// SetTimeBlock changes the session durations before Start and pushes the
// new planned minutes onto the item through the store.
func (e *Engine) SetTimeBlock(ctx context.Context, timeBlockMinutes, breakMinutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.SetTimeBlock(timeBlockMinutes, breakMinutes); err != nil {
		return err
	}
	if e.item.PlannedMinutes != timeBlockMinutes {
		e.item.PlannedMinutes = timeBlockMinutes
		e.item.UpdatedAt = e.clock.Now().UTC()
		if err := e.store.UpdateItem(ctx, e.item); err != nil {
			return fmt.Errorf("updating planned minutes: %w", err)
		}
	}
	return nil
}

// Start begins the countdown.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Start(e.clock.Now())
}

// Pause suspends the countdown; the tick driver must cancel its timer.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Pause(e.clock.Now())
}

// Resume continues after a pause; the tick driver re-arms its timer.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Resume(e.clock.Now())
}

// Stop terminates the session. Idempotent and safe from close handlers.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Stop()
}

// Tick advances the session by one scheduled second and fires break alerts.
// A fault inside a tick is logged and swallowed; a single bad second must
// never take the session down.
func (e *Engine) Tick() (ev TickEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick fault swallowed", "panic", r, "item_id", e.item.ID)
			ev = EventNone
		}
	}()

	func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		ev = e.session.Tick(e.clock.Now())
	}()

	switch ev {
	case EventBreakStarted:
		e.notifier.BreakStarted()
	case EventStopped:
		e.notifier.BreakEnded()
	}
	return ev
}

// Active reports whether the tick driver should keep its timer armed.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Active()
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State()
}

// Snapshot returns a read-only view for a once-per-second UI refresh.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot()
}

// Item returns the work item this session runs against. The reference is
// shared with the note surfaces for the session's lifetime.
func (e *Engine) Item() *domain.WorkItem {
	return e.item
}

// SaveNotes writes edited notes onto the item and persists them. This is
// both the note surfaces' save path and step one of either completion
// workflow, so typed notes survive any later failure.
func (e *Engine) SaveNotes(ctx context.Context, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.item.Notes = notes
	e.item.UpdatedAt = e.clock.Now().UTC()
	if err := e.store.UpdateItem(ctx, e.item); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	return nil
}

// Abandon is the bare window-close path: stop the timer and persist note
// edits, without logging work or completing the item.
func (e *Engine) Abandon(ctx context.Context, notes string) error {
	e.Stop()
	return e.SaveNotes(ctx, notes)
}

// Finish commits the session's work: it creates the work log entry and
// marks the item completed, in that order. Valid only once the session is
// Stopped. Retrying after a partial failure re-runs only the missing step.
func (e *Engine) Finish(ctx context.Context, note string) (*domain.WorkLogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishLocked(ctx, note)
}

func (e *Engine) finishLocked(ctx context.Context, note string) (*domain.WorkLogEntry, error) {
	if e.session.State() != StateStopped {
		return nil, fmt.Errorf("cannot finish in state %s", e.session.State())
	}
	now := e.clock.Now().UTC()

	if e.logEntry == nil {
		entry := &domain.WorkLogEntry{
			ItemID:    e.item.ID,
			StartedAt: e.session.StartedAt().UTC(),
			EndedAt:   now,
			Minutes:   e.session.WorkMinutesElapsed(),
			Note:      note,
		}

		if tx, ok := e.store.(TxItemStore); ok {
			if err := tx.LogAndComplete(ctx, entry, e.item.ID); err != nil {
				return nil, fmt.Errorf("committing session: %w", err)
			}
			e.logEntry = entry
			e.completed = true
			_ = e.item.MarkCompleted(now)
			return entry, nil
		}

		if _, err := e.store.CreateWorkLog(ctx, entry); err != nil {
			return nil, fmt.Errorf("creating work log: %w", err)
		}
		e.logEntry = entry
	}

	if !e.completed {
		if _, err := e.store.CompleteItem(ctx, e.item.ID); err != nil {
			return nil, fmt.Errorf("completing item: %w", err)
		}
		e.completed = true
		_ = e.item.MarkCompleted(now)
	}
	return e.logEntry, nil
}

// CreateSuccessor builds and persists the continuation item once the
// original has been logged and completed. A nil capture means the prompt
// was skipped; an unset start date falls back to the next workable day and
// an unset due date to the start date.
func (e *Engine) CreateSuccessor(ctx context.Context, capture *NextSteps) (*domain.WorkItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createSuccessorLocked(ctx, capture)
}

func (e *Engine) createSuccessorLocked(ctx context.Context, capture *NextSteps) (*domain.WorkItem, error) {
	if !e.completed {
		return nil, errors.New("original item must be logged and completed first")
	}
	if e.successor != nil {
		return e.successor, nil
	}

	now := e.clock.Now().UTC()
	if capture == nil {
		capture = &NextSteps{}
	}
	if capture.StartDate.IsZero() {
		capture.StartDate = dateutil.NextBusinessDay(dateOnly(now), e.policy)
	}
	if capture.DueDate.IsZero() {
		capture.DueDate = capture.StartDate
	}
	if capture.DueDate.Before(capture.StartDate) {
		return nil, ErrDueBeforeStart
	}

	succ := e.item.NewSuccessor(now)
	succ.Notes = capture.Note
	start, due := capture.StartDate, capture.DueDate
	succ.StartDate = &start
	succ.DueDate = &due

	if err := e.store.CreateItem(ctx, succ); err != nil {
		return nil, fmt.Errorf("creating successor item: %w", err)
	}
	e.successor = succ
	return succ, nil
}

// ContinueWith composes the full Continue workflow: commit the original's
// work log and completion, then persist the successor carrying the next
// steps forward.
func (e *Engine) ContinueWith(ctx context.Context, note string, capture *NextSteps) (*domain.WorkItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.finishLocked(ctx, note); err != nil {
		return nil, err
	}
	return e.createSuccessorLocked(ctx, capture)
}

// WorkLog returns the committed work log entry, or nil before Finish.
func (e *Engine) WorkLog() *domain.WorkLogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logEntry
}

// dateOnly truncates an instant to its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
