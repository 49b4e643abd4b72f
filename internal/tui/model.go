// Package tui is the interactive timer surface. One model drives a single
// session: the countdown header, an editable notes pane, an optional detail
// pane showing the same notes, and the two completion workflows rendered as
// forms.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/notes"
	"github.com/alexanderramin/tempo/internal/timer"
)

type mode int

const (
	modeTimer mode = iota
	modeFinishForm
	modeNextStepsForm
	modeSuccessorForm
	modeBlockForm
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type finishDoneMsg struct{ err error }

type continueDoneMsg struct {
	successor *domain.WorkItem
	err       error
}

type notesSavedMsg struct{ err error }

type keyMap struct {
	StartPause key.Binding
	Stop       key.Binding
	Finish     key.Binding
	Continue   key.Binding
	Detail     key.Binding
	Save       key.Binding
	Block      key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		StartPause: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "start/pause")),
		Stop:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop")),
		Finish:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "finish")),
		Continue:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "continue")),
		Detail:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "detail")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save notes")),
		Block:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "time block")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "close")),
	}
}

// Model is the bubbletea model for one timer session.
type Model struct {
	engine *timer.Engine
	store  timer.ItemStore
	sync   *notes.Synchronizer
	keys   keyMap

	notesPane    *notesPane
	notesHandle  notes.Handle
	detailPane   *notesPane
	detailHandle notes.Handle
	detailFocus  bool

	mode mode
	form *huh.Form

	// Form values survive a failed submit so nothing typed is lost.
	finishNote   string
	nextNote     string
	nextStart    string
	nextDue      string
	continueFlow bool

	// Successor refinement after a continue, pre-loaded from the created
	// follow-up item.
	successor   *domain.WorkItem
	editTitle   string
	editPlanned string
	editStart   string
	editDue     string

	// Block adjustment, valid only while Idle.
	editBlock string
	editBreak string

	warnSeconds int
	status      string
	closing     bool
	done        bool
	summary     string
	width       int
}

// NewModel builds the timer surface for an engine whose item is loaded.
func NewModel(engine *timer.Engine, store timer.ItemStore, settings config.Settings) *Model {
	pane := newNotesPane(engine.Item().Notes, 8)
	pane.area.Focus()

	m := &Model{
		engine:      engine,
		store:       store,
		keys:        defaultKeyMap(),
		notesPane:   pane,
		warnSeconds: settings.TimerWarningMinutes * 60,
	}
	m.sync = notes.NewSynchronizer(engine.SaveNotes, nil)
	m.notesHandle = m.sync.Attach(pane)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), textarea.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.notesPane.area.SetWidth(msg.Width - 4)
		if m.detailPane != nil {
			m.detailPane.area.SetWidth(msg.Width - 4)
		}
		return m, nil

	case tickMsg:
		// The tick chain goes quiet while a completion prompt is up;
		// whoever returns to the timer re-arms it.
		if m.mode != modeTimer {
			return m, nil
		}
		ev := m.engine.Tick()
		if ev == timer.EventStopped {
			m.status = "Time block finished."
		}
		return m, tickCmd()

	case finishDoneMsg:
		return m.onFinishDone(msg.err)

	case continueDoneMsg:
		return m.onContinueDone(msg)

	case notesSavedMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render(msg.err.Error())
		} else {
			m.status = formatter.Dim("Notes saved.")
		}
		return m, nil
	}

	switch m.mode {
	case modeFinishForm, modeNextStepsForm, modeSuccessorForm, modeBlockForm:
		return m.updateForm(msg)
	default:
		return m.updateTimer(msg)
	}
}

func (m *Model) updateTimer(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocusedPane(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.engine.Stop()
		if err := m.engine.Abandon(context.Background(), m.focusedText()); err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
			return m, nil
		}
		m.done = true
		m.summary = formatter.Dim("Session closed without logging.")
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.StartPause):
		m.toggleRunning()
		return m, nil

	case key.Matches(keyMsg, m.keys.Stop):
		m.engine.Stop()
		m.status = "Stopped. Finish, continue, or close."
		return m, nil

	case key.Matches(keyMsg, m.keys.Save):
		return m, m.saveNotesCmd()

	case key.Matches(keyMsg, m.keys.Detail):
		m.toggleDetail()
		return m, nil

	case key.Matches(keyMsg, m.keys.Block):
		if m.engine.State() != timer.StateIdle {
			m.status = formatter.Dim("Time block can only change before starting.")
			return m, nil
		}
		return m.openBlockForm()

	case key.Matches(keyMsg, m.keys.Finish):
		m.engine.Stop()
		m.continueFlow = false
		return m.openFinishForm()

	case key.Matches(keyMsg, m.keys.Continue):
		m.engine.Stop()
		m.continueFlow = true
		return m.openFinishForm()
	}

	return m.updateFocusedPane(msg)
}

func (m *Model) toggleRunning() {
	switch m.engine.State() {
	case timer.StateIdle:
		if err := m.engine.Start(); err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
		} else {
			m.status = ""
		}
	case timer.StateRunning, timer.StateOnBreak:
		_ = m.engine.Pause()
		m.status = formatter.Dim("Paused.")
	case timer.StatePaused:
		_ = m.engine.Resume()
		m.status = ""
	}
}

func (m *Model) toggleDetail() {
	if m.detailPane != nil && m.detailPane.open {
		// Closing releases the pane's sync registration.
		m.detailPane.open = false
		m.sync.Detach(m.detailHandle)
		m.detailPane = nil
		m.detailFocus = false
		m.notesPane.area.Focus()
		return
	}
	m.detailPane = newNotesPane(m.engine.Item().Notes, 6)
	if m.width > 0 {
		m.detailPane.area.SetWidth(m.width - 4)
	}
	m.detailHandle = m.sync.Attach(m.detailPane)
	m.detailFocus = true
	m.notesPane.area.Blur()
	m.detailPane.area.Focus()
}

func (m *Model) focusedText() string {
	if m.detailFocus && m.detailPane != nil {
		return m.detailPane.area.Value()
	}
	return m.notesPane.area.Value()
}

func (m *Model) focusedHandle() notes.Handle {
	if m.detailFocus && m.detailPane != nil {
		return m.detailHandle
	}
	return m.notesHandle
}

func (m *Model) saveNotesCmd() tea.Cmd {
	text := m.focusedText()
	handle := m.focusedHandle()
	return func() tea.Msg {
		return notesSavedMsg{err: m.sync.Save(context.Background(), handle, text)}
	}
}

func (m *Model) updateFocusedPane(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.detailFocus && m.detailPane != nil {
		m.detailPane.area, cmd = m.detailPane.area.Update(msg)
	} else {
		m.notesPane.area, cmd = m.notesPane.area.Update(msg)
	}
	return m, cmd
}

func (m *Model) openFinishForm() (tea.Model, tea.Cmd) {
	m.mode = modeFinishForm
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What got done?").
				Placeholder("completion note").
				Value(&m.finishNote),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
	return m, m.form.Init()
}

func (m *Model) openNextStepsForm() (tea.Model, tea.Cmd) {
	m.mode = modeNextStepsForm
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Next steps (blank to skip)").
				Value(&m.nextNote),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD, blank for next workable day)").
				Placeholder("2025-06-30").
				Value(&m.nextStart).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD, blank for start date)").
				Placeholder("2025-06-30").
				Value(&m.nextDue).
				Validate(validateOptionalDate),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
	return m, m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			// Escape backs out of the workflow; everything typed stays
			// in the model for the next attempt. Once the successor
			// exists the session is already complete, so backing out of
			// its editor just closes.
			if m.mode == modeSuccessorForm {
				m.done = true
				return m, tea.Quit
			}
			m.mode = modeTimer
			m.form = nil
			m.status = formatter.Dim("Cancelled.")
			return m, tickCmd()

		case tea.KeyCtrlC:
			// Closing mid-prompt is not a cancel: the completion still
			// runs with whatever was typed so far, and a dismissed
			// next-steps prompt falls back to the default capture.
			m.closing = true
			switch m.mode {
			case modeFinishForm:
				// Completion must not be lost even if the note save
				// fails here.
				_ = m.sync.Save(context.Background(), m.focusedHandle(), m.focusedText())
				note := m.finishNote
				if m.continueFlow {
					return m, func() tea.Msg {
						successor, err := m.engine.ContinueWith(context.Background(), note, nil)
						return continueDoneMsg{successor: successor, err: err}
					}
				}
				return m, func() tea.Msg {
					_, err := m.engine.Finish(context.Background(), note)
					return finishDoneMsg{err: err}
				}
			case modeNextStepsForm:
				note := m.finishNote
				return m, func() tea.Msg {
					successor, err := m.engine.ContinueWith(context.Background(), note, nil)
					return continueDoneMsg{successor: successor, err: err}
				}
			case modeBlockForm:
				m.engine.Stop()
				if err := m.engine.Abandon(context.Background(), m.focusedText()); err != nil {
					m.status = formatter.StyleRed.Render(err.Error())
					return m, nil
				}
				m.done = true
				m.summary = formatter.Dim("Session closed without logging.")
				return m, tea.Quit
			default:
				m.done = true
				return m, tea.Quit
			}
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.mode {
	case modeFinishForm:
		// Notes are persisted before anything else so edits survive a
		// failure in the later steps.
		if err := m.sync.Save(context.Background(), m.focusedHandle(), m.focusedText()); err != nil {
			m.mode = modeTimer
			m.form = nil
			m.status = formatter.StyleRed.Render(err.Error())
			return m, tickCmd()
		}
		if m.continueFlow {
			return m.openNextStepsForm()
		}
		note := m.finishNote
		return m, func() tea.Msg {
			_, err := m.engine.Finish(context.Background(), note)
			return finishDoneMsg{err: err}
		}

	case modeNextStepsForm:
		capture, err := m.buildCapture()
		if err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
			return m.openNextStepsForm()
		}
		note := m.finishNote
		return m, func() tea.Msg {
			successor, err := m.engine.ContinueWith(context.Background(), note, capture)
			return continueDoneMsg{successor: successor, err: err}
		}

	case modeBlockForm:
		return m.submitBlock()

	default:
		return m.submitSuccessor()
	}
}

func (m *Model) openBlockForm() (tea.Model, tea.Cmd) {
	m.mode = modeBlockForm
	snap := m.engine.Snapshot()
	m.editBlock = strconv.Itoa(snap.TimeBlockMinutes)
	m.editBreak = strconv.Itoa(snap.BreakMinutes)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time block (minutes)").
				Value(&m.editBlock).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Break (minutes)").
				Value(&m.editBreak).
				Validate(validateMinutes),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
	return m, m.form.Init()
}

func (m *Model) submitBlock() (tea.Model, tea.Cmd) {
	block, _ := strconv.Atoi(strings.TrimSpace(m.editBlock))
	brk, _ := strconv.Atoi(strings.TrimSpace(m.editBreak))
	m.mode = modeTimer
	m.form = nil
	if err := m.engine.SetTimeBlock(context.Background(), block, brk); err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m, tickCmd()
	}
	m.status = formatter.Dim(fmt.Sprintf("Block set to %dm with a %dm break.", block, brk))
	return m, tickCmd()
}

// buildCapture turns the form strings into the engine's capture. All three
// fields blank means the prompt was skipped.
func (m *Model) buildCapture() (*timer.NextSteps, error) {
	if m.nextNote == "" && m.nextStart == "" && m.nextDue == "" {
		return nil, nil
	}
	capture := &timer.NextSteps{Note: m.nextNote}
	if m.nextStart != "" {
		d, err := time.Parse("2006-01-02", m.nextStart)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q", m.nextStart)
		}
		capture.StartDate = d
	}
	if m.nextDue != "" {
		d, err := time.Parse("2006-01-02", m.nextDue)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q", m.nextDue)
		}
		capture.DueDate = d
	}
	return capture, nil
}

func (m *Model) onFinishDone(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		// The engine remembers which steps committed; resubmitting
		// re-runs only what failed.
		m.closing = false
		m.status = formatter.StyleRed.Render(err.Error())
		return m.openFinishForm()
	}
	entry := m.engine.WorkLog()
	m.done = true
	m.summary = fmt.Sprintf("Completed %q with %s logged.",
		m.engine.Item().Title, formatter.FormatMinutes(entry.Minutes))
	return m, tea.Quit
}

func (m *Model) onContinueDone(msg continueDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.closing = false
		if errors.Is(msg.err, timer.ErrDueBeforeStart) {
			m.status = formatter.StyleRed.Render("Due date is before start date.")
			return m.openNextStepsForm()
		}
		m.status = formatter.StyleRed.Render(msg.err.Error())
		return m.openNextStepsForm()
	}
	entry := m.engine.WorkLog()
	m.successor = msg.successor
	m.summary = fmt.Sprintf("Completed %q with %s logged; follow-up %s starts %s.",
		m.engine.Item().Title,
		formatter.FormatMinutes(entry.Minutes),
		formatter.TruncID(msg.successor.ID),
		msg.successor.StartDate.Format("2006-01-02"))
	if m.closing {
		// No refinement editor on the way out; the follow-up is already
		// persisted with its fallback dates.
		m.done = true
		return m, tea.Quit
	}
	return m.openSuccessorForm()
}

// openSuccessorForm hands the freshly created follow-up item to the user for
// refinement before the surface closes.
func (m *Model) openSuccessorForm() (tea.Model, tea.Cmd) {
	m.mode = modeSuccessorForm
	m.editTitle = m.successor.Title
	m.editPlanned = strconv.Itoa(m.successor.PlannedMinutes)
	if m.successor.StartDate != nil {
		m.editStart = m.successor.StartDate.Format("2006-01-02")
	}
	if m.successor.DueDate != nil {
		m.editDue = m.successor.DueDate.Format("2006-01-02")
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Follow-up title").
				Value(&m.editTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Planned minutes").
				Value(&m.editPlanned).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&m.editStart).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD)").
				Value(&m.editDue).
				Validate(validateOptionalDate),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
	return m, m.form.Init()
}

func (m *Model) submitSuccessor() (tea.Model, tea.Cmd) {
	succ := m.successor
	succ.Title = strings.TrimSpace(m.editTitle)
	if minutes, err := strconv.Atoi(strings.TrimSpace(m.editPlanned)); err == nil {
		succ.PlannedMinutes = minutes
	}
	if m.editStart != "" {
		d, _ := time.Parse("2006-01-02", m.editStart)
		succ.StartDate = &d
	}
	if m.editDue != "" {
		d, _ := time.Parse("2006-01-02", m.editDue)
		succ.DueDate = &d
	}
	if succ.StartDate != nil && succ.DueDate != nil && succ.DueDate.Before(*succ.StartDate) {
		m.status = formatter.StyleRed.Render("Due date is before start date.")
		return m.openSuccessorForm()
	}

	succ.UpdatedAt = time.Now().UTC()
	if err := m.store.UpdateItem(context.Background(), succ); err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m.openSuccessorForm()
	}
	m.summary = fmt.Sprintf("Completed %q; follow-up %s %q starts %s.",
		m.engine.Item().Title,
		formatter.TruncID(succ.ID),
		succ.Title,
		succ.StartDate.Format("2006-01-02"))
	m.done = true
	return m, tea.Quit
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("whole minutes")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (m *Model) View() string {
	if m.done {
		return m.summary + "\n"
	}

	var b strings.Builder
	item := m.engine.Item()
	snap := m.engine.Snapshot()

	b.WriteString(formatter.Bold(item.Title))
	b.WriteString("  ")
	b.WriteString(formatter.StatusPill(item.Status))
	b.WriteString("\n\n")

	b.WriteString(m.renderClock(snap))
	b.WriteString("\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("worked %s  total %s  block %dm",
		timer.FormatClock(snap.WorkSecondsElapsed),
		timer.FormatClock(snap.TotalSecondsElapsed),
		snap.TimeBlockMinutes)))
	b.WriteString("\n\n")

	if m.mode != modeTimer && m.form != nil {
		b.WriteString(m.form.View())
	} else {
		b.WriteString(formatter.Header("Notes"))
		b.WriteString("\n")
		b.WriteString(m.notesPane.area.View())
		if m.detailPane != nil {
			b.WriteString("\n")
			b.WriteString(m.renderDetail())
		}
		b.WriteString("\n")
		b.WriteString(m.helpLine())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderClock(snap timer.Snapshot) string {
	var text string
	var style lipgloss.Style

	switch snap.State {
	case timer.StateOnBreak:
		text = "break " + timer.FormatClock(snap.BreakSecondsRemaining)
		style = styleClockBreak
	case timer.StateStopped:
		text = "done " + timer.FormatClock(0)
		style = styleClockIdle
	case timer.StateIdle:
		text = timer.FormatClock(snap.WorkSecondsRemaining)
		style = styleClockIdle
	default:
		text = timer.FormatClock(snap.WorkSecondsRemaining)
		style = styleClockWork
		if snap.WorkSecondsRemaining <= m.warnSeconds {
			style = styleClockWarn
		}
		if snap.State == timer.StatePaused {
			text += "  (paused)"
		}
	}
	return style.Render(text)
}

func (m *Model) renderDetail() string {
	item := m.engine.Item()
	var b strings.Builder
	b.WriteString(formatter.Header("Detail"))
	b.WriteString("\n")
	b.WriteString(formatter.Dim("priority  ") + formatter.PriorityStyled(item.PriorityScore))
	b.WriteString("\n")
	if item.DueDate != nil {
		b.WriteString(formatter.Dim("due       ") + item.DueDate.Format("2006-01-02"))
		b.WriteString("\n")
	}
	b.WriteString(m.detailPane.area.View())
	return b.String()
}

func (m *Model) helpLine() string {
	bindings := []key.Binding{
		m.keys.StartPause, m.keys.Stop, m.keys.Finish, m.keys.Continue,
		m.keys.Detail, m.keys.Save, m.keys.Block, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, formatter.Dim(h.Key+" "+h.Desc))
	}
	return strings.Join(parts, formatter.Dim("  ·  "))
}
