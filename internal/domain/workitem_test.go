package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestCalculatePriorityScore(t *testing.T) {
	cases := []struct {
		name                             string
		importance, urgency, size, value int
		want                             int
	}{
		{"all factors set", 20, 10, 4, 8, 6400},
		{"minimal factors", 1, 1, 2, 2, 4},
		{"zero importance zeroes score", 0, 10, 4, 8, 0},
		{"zero size zeroes score", 20, 10, 0, 8, 0},
		{"all zero", 0, 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &WorkItem{Importance: tc.importance, Urgency: tc.urgency, Size: tc.size, Value: tc.value}
			assert.Equal(t, tc.want, w.CalculatePriorityScore())
		})
	}
}

func TestUpdatePriorityScore(t *testing.T) {
	w := &WorkItem{Importance: 5, Urgency: 5, Size: 2, Value: 2}
	w.UpdatePriorityScore()
	assert.Equal(t, 100, w.PriorityScore)
}

func TestMarkCompleted_FromOpen(t *testing.T) {
	w := &WorkItem{ID: "A1", Status: ItemOpen}
	require.NoError(t, w.MarkCompleted(testNow))
	assert.Equal(t, ItemCompleted, w.Status)
	require.NotNil(t, w.CompletedAt)
	assert.Equal(t, testNow, *w.CompletedAt)
	assert.Equal(t, testNow, w.UpdatedAt)
}

func TestMarkCompleted_AlreadyCompleted(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	w := &WorkItem{ID: "A1", Status: ItemCompleted, CompletedAt: &earlier}
	require.NoError(t, w.MarkCompleted(testNow))
	assert.Equal(t, earlier, *w.CompletedAt, "should not overwrite existing CompletedAt")
}

func TestMarkCompleted_Canceled(t *testing.T) {
	w := &WorkItem{ID: "A1", Status: ItemCanceled}
	err := w.MarkCompleted(testNow)
	require.Error(t, err)
	assert.Equal(t, ItemCanceled, w.Status, "status should not change")
}

func TestReopen_KeepsCompletedAt(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	w := &WorkItem{ID: "A1", Status: ItemCompleted, CompletedAt: &earlier}
	require.NoError(t, w.Reopen(testNow))
	assert.Equal(t, ItemOpen, w.Status)
	require.NotNil(t, w.CompletedAt)
	assert.Equal(t, earlier, *w.CompletedAt)
}

func TestSuccessorParentID_NoParent(t *testing.T) {
	w := &WorkItem{ID: "A1"}
	assert.Equal(t, "A1", w.SuccessorParentID())
}

func TestSuccessorParentID_HasParent(t *testing.T) {
	p := "P1"
	w := &WorkItem{ID: "A1", ParentID: &p}
	assert.Equal(t, "P1", w.SuccessorParentID(), "successor should be a sibling, not a grandchild")
}

func TestNewSuccessor_CopiesFields(t *testing.T) {
	contact := "C1"
	start := testNow.AddDate(0, 0, -3)
	w := &WorkItem{
		ID:             "A1",
		Who:            "me",
		Title:          "Quarterly report",
		Notes:          "draft is half done",
		ContactID:      &contact,
		StartDate:      &start,
		DueDate:        &testNow,
		Importance:     10,
		Urgency:        5,
		Size:           4,
		Value:          8,
		Group:          "work",
		Category:       "reports",
		PlannedMinutes: 50,
		Status:         ItemOpen,
	}

	s := w.NewSuccessor(testNow)

	require.NotNil(t, s.ParentID)
	assert.Equal(t, "A1", *s.ParentID)
	assert.Equal(t, "me", s.Who)
	assert.Equal(t, "Quarterly report", s.Title)
	assert.Equal(t, &contact, s.ContactID)
	assert.Equal(t, 10, s.Importance)
	assert.Equal(t, 5, s.Urgency)
	assert.Equal(t, 4, s.Size)
	assert.Equal(t, 8, s.Value)
	assert.Equal(t, 1600, s.PriorityScore)
	assert.Equal(t, "work", s.Group)
	assert.Equal(t, "reports", s.Category)
	assert.Equal(t, 50, s.PlannedMinutes)
	assert.Equal(t, ItemOpen, s.Status)

	// Dates and notes are left for the next-steps capture.
	assert.Nil(t, s.StartDate)
	assert.Nil(t, s.DueDate)
	assert.Empty(t, s.Notes)
	assert.Empty(t, s.ID, "ID is assigned by the store")
}

func TestNewSuccessor_SiblingOfParentedItem(t *testing.T) {
	p := "P1"
	w := &WorkItem{ID: "A1", ParentID: &p, Status: ItemOpen}
	s := w.NewSuccessor(testNow)
	require.NotNil(t, s.ParentID)
	assert.Equal(t, "P1", *s.ParentID)
}
