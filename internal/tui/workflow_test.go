package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/teatest"
	"github.com/alexanderramin/tempo/internal/timer"
)

// Drives the full finish workflow through the rendered forms.
func TestFinishWorkflowThroughForms(t *testing.T) {
	m, clock, store := newTestModel(t)

	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	d.SendKey(keyPress("ctrl+p"))
	for i := 0; i < 90; i++ {
		clock.now = clock.now.Add(time.Second)
		d.Send(tickMsg(clock.now))
	}

	d.SendKey(keyPress("ctrl+f"))
	assert.Contains(t, d.View(), "What got done?")

	d.Type("sent the draft")
	d.PressEnter()

	assert.True(t, d.Quitting)
	require.Len(t, store.logs, 1)
	assert.Equal(t, 1, store.logs[0].Minutes)
	assert.Equal(t, "sent the draft", store.logs[0].Note)
	assert.Equal(t, domain.ItemCompleted, store.item.Status)
}

func TestContinueWorkflowSkippedNextSteps(t *testing.T) {
	m, clock, store := newTestModel(t)

	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	d.SendKey(keyPress("ctrl+p"))
	for i := 0; i < 60; i++ {
		clock.now = clock.now.Add(time.Second)
		d.Send(tickMsg(clock.now))
	}

	// Continue: completion note form, then next-steps form left blank.
	d.SendKey(keyPress("ctrl+g"))
	d.Type("first pass done")
	d.PressEnter()
	assert.Contains(t, d.View(), "Next steps")

	d.PressEnter() // note
	d.PressEnter() // start date
	d.PressEnter() // due date

	require.Len(t, store.logs, 1)
	assert.Equal(t, domain.ItemCompleted, store.item.Status)
	require.NotNil(t, store.created)
	assert.Equal(t, timer.StateStopped, m.engine.State())
	// Skip fallback: the follow-up starts the next workable day.
	require.NotNil(t, store.created.StartDate)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), *store.created.StartDate)

	// The created follow-up comes back for refinement before the surface
	// closes; submitting it as-is persists the pre-loaded values.
	assert.Contains(t, d.View(), "Follow-up title")
	d.PressEnter() // title
	d.PressEnter() // planned minutes
	d.PressEnter() // start date
	d.PressEnter() // due date

	assert.True(t, d.Quitting)
	require.NotNil(t, store.updated)
	assert.Equal(t, store.created.ID, store.updated.ID)
}

// Closing the window at the completion-note prompt is not a cancel: the
// session still finishes with whatever note was typed.
func TestFinishPromptClosedStillCompletes(t *testing.T) {
	m, clock, store := newTestModel(t)

	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	d.SendKey(keyPress("ctrl+p"))
	for i := 0; i < 120; i++ {
		clock.now = clock.now.Add(time.Second)
		d.Send(tickMsg(clock.now))
	}

	d.SendKey(keyPress("ctrl+f"))
	d.Type("half done")
	d.SendKey(keyPress("ctrl+c"))

	assert.True(t, d.Quitting)
	require.Len(t, store.logs, 1)
	assert.Equal(t, "half done", store.logs[0].Note)
	assert.Equal(t, 2, store.logs[0].Minutes)
	assert.Equal(t, domain.ItemCompleted, store.item.Status)
}

func TestContinueSuccessorEditorEscCloses(t *testing.T) {
	m, clock, store := newTestModel(t)

	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	d.SendKey(keyPress("ctrl+p"))
	clock.now = clock.now.Add(time.Second)
	d.Send(tickMsg(clock.now))

	d.SendKey(keyPress("ctrl+g"))
	d.PressEnter() // blank completion note
	d.PressEnter() // blank next-steps note
	d.PressEnter() // blank start date
	d.PressEnter() // blank due date

	assert.Contains(t, d.View(), "Follow-up title")
	d.PressEsc()

	assert.True(t, d.Quitting)
	require.NotNil(t, store.created)
	assert.Nil(t, store.updated)
	assert.Equal(t, domain.ItemCompleted, store.item.Status)
}
