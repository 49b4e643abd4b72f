package timer

import (
	"fmt"
	"time"
)

// State is the session state machine state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateOnBreak
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateOnBreak:
		return "on_break"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// TickEvent reports a state transition that happened inside a tick.
type TickEvent int

const (
	EventNone TickEvent = iota
	EventBreakStarted
	EventStopped
)

// maxTickDelta caps the measured time between ticks. A delta above this
// means the process was suspended (laptop sleep); counting it fully would
// corrupt the work accounting.
const maxTickDelta = 2 * time.Second

// Session is one run of the countdown timer against a single work item.
// It owns the five-state machine and the elapsed-time accounting; it is
// ephemeral and never persisted.
type Session struct {
	state State

	timeBlockMinutes int
	breakMinutes     int

	workSecondsRemaining  int
	breakSecondsRemaining int
	workSecondsElapsed    int
	totalSecondsElapsed   int

	startedAt  time.Time
	lastTickAt time.Time
	pausedAt   time.Time
}

// NewSession creates an idle session. The work countdown is the time block
// minus the break, so the block covers both phases.
func NewSession(timeBlockMinutes, breakMinutes int) (*Session, error) {
	if timeBlockMinutes <= breakMinutes {
		return nil, fmt.Errorf("time block (%dm) must be longer than break (%dm)", timeBlockMinutes, breakMinutes)
	}
	s := &Session{
		state:            StateIdle,
		timeBlockMinutes: timeBlockMinutes,
		breakMinutes:     breakMinutes,
	}
	s.resetCountdowns()
	return s, nil
}

func (s *Session) resetCountdowns() {
	s.workSecondsRemaining = (s.timeBlockMinutes - s.breakMinutes) * 60
	s.breakSecondsRemaining = s.breakMinutes * 60
}

// SetTimeBlock changes the configured durations. Valid only while Idle.
func (s *Session) SetTimeBlock(timeBlockMinutes, breakMinutes int) error {
	if s.state != StateIdle {
		return fmt.Errorf("cannot change time block in state %s", s.state)
	}
	if timeBlockMinutes <= breakMinutes {
		return fmt.Errorf("time block (%dm) must be longer than break (%dm)", timeBlockMinutes, breakMinutes)
	}
	s.timeBlockMinutes = timeBlockMinutes
	s.breakMinutes = breakMinutes
	s.resetCountdowns()
	return nil
}

// Start begins the countdown. Valid only from Idle.
func (s *Session) Start(now time.Time) error {
	if s.state != StateIdle {
		return fmt.Errorf("cannot start in state %s", s.state)
	}
	s.state = StateRunning
	s.startedAt = now
	s.lastTickAt = now
	return nil
}

// Pause suspends the countdown. Valid from Running or OnBreak. Counters do
// not advance while paused; the caller cancels the scheduled tick.
func (s *Session) Pause(now time.Time) error {
	if s.state != StateRunning && s.state != StateOnBreak {
		return fmt.Errorf("cannot pause in state %s", s.state)
	}
	s.state = StatePaused
	s.pausedAt = now
	return nil
}

// Resume continues after a pause, back to Running while work remains and to
// OnBreak otherwise. The next tick delta is measured from the resume
// instant, not from the original pause.
func (s *Session) Resume(now time.Time) error {
	if s.state != StatePaused {
		return fmt.Errorf("cannot resume in state %s", s.state)
	}
	if s.workSecondsRemaining > 0 {
		s.state = StateRunning
	} else {
		s.state = StateOnBreak
	}
	s.lastTickAt = now
	return nil
}

// Stop terminates the session from any state. Idempotent: stopping a
// stopped session is a no-op, so a window-close handler may call it twice.
func (s *Session) Stop() {
	s.state = StateStopped
}

// Tick advances the accounting by one scheduled second. Outside Running and
// OnBreak it does nothing. The measured delta since the previous tick is
// clamped to maxTickDelta so a system sleep cannot inflate logged work.
func (s *Session) Tick(now time.Time) TickEvent {
	if s.state != StateRunning && s.state != StateOnBreak {
		return EventNone
	}

	delta := now.Sub(s.lastTickAt)
	if delta > maxTickDelta {
		delta = maxTickDelta
	}
	if delta < 0 {
		delta = 0
	}

	s.totalSecondsElapsed = int(now.Sub(s.startedAt).Seconds())
	if s.state == StateRunning {
		s.workSecondsElapsed += int(delta.Seconds())
	}
	s.lastTickAt = now

	switch s.state {
	case StateRunning:
		s.workSecondsRemaining--
		if s.workSecondsRemaining <= 0 {
			s.workSecondsRemaining = 0
			s.state = StateOnBreak
			return EventBreakStarted
		}
	case StateOnBreak:
		s.breakSecondsRemaining--
		if s.breakSecondsRemaining <= 0 {
			s.breakSecondsRemaining = 0
			s.Stop()
			return EventStopped
		}
	}
	return EventNone
}

// Active reports whether the tick loop should be armed.
func (s *Session) Active() bool {
	return s.state == StateRunning || s.state == StateOnBreak
}

func (s *Session) State() State { return s.state }

func (s *Session) TimeBlockMinutes() int { return s.timeBlockMinutes }

func (s *Session) BreakMinutes() int { return s.breakMinutes }

func (s *Session) WorkSecondsRemaining() int { return s.workSecondsRemaining }

func (s *Session) BreakSecondsRemaining() int { return s.breakSecondsRemaining }

func (s *Session) WorkSecondsElapsed() int { return s.workSecondsElapsed }

func (s *Session) TotalSecondsElapsed() int { return s.totalSecondsElapsed }

// WorkMinutesElapsed is the whole work minutes, truncated, never rounded.
// This is the value written into a work log entry.
func (s *Session) WorkMinutesElapsed() int { return s.workSecondsElapsed / 60 }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Snapshot is a read-only view of the session for once-per-second UI refresh.
type Snapshot struct {
	State                 State
	WorkSecondsRemaining  int
	BreakSecondsRemaining int
	WorkSecondsElapsed    int
	TotalSecondsElapsed   int
	TimeBlockMinutes      int
	BreakMinutes          int
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:                 s.state,
		WorkSecondsRemaining:  s.workSecondsRemaining,
		BreakSecondsRemaining: s.breakSecondsRemaining,
		WorkSecondsElapsed:    s.workSecondsElapsed,
		TotalSecondsElapsed:   s.totalSecondsElapsed,
		TimeBlockMinutes:      s.timeBlockMinutes,
		BreakMinutes:          s.breakMinutes,
	}
}

// FormatClock renders seconds as MM:SS with no upper bound on minutes;
// 125 minutes renders as "125:00", never hour-rolled.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
