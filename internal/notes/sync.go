// Package notes keeps multiple live views of a work item's notes in
// agreement. A timer surface and a detail surface can show the same notes
// at once; a save from either one persists the text and pushes it into
// every other live surface.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Surface is one live view of the notes. Refresh replaces the displayed
// text wholesale; Alive reports whether the view still exists. A surface
// that returns false is dropped on the next save.
type Surface interface {
	Refresh(notes string)
	Alive() bool
}

// Handle identifies an attached surface so its own saves do not echo back
// into it.
type Handle int

// SaveFunc persists the notes. The synchronizer never talks to storage
// itself.
type SaveFunc func(ctx context.Context, notes string) error

// Synchronizer fans a saved notes text out to every other live surface.
type Synchronizer struct {
	mu       sync.Mutex
	surfaces map[Handle]Surface
	nextID   Handle
	saving   bool
	save     SaveFunc
	logger   *slog.Logger
}

func NewSynchronizer(save SaveFunc, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		surfaces: map[Handle]Surface{},
		save:     save,
		logger:   logger,
	}
}

// Attach registers a surface and returns its handle.
func (s *Synchronizer) Attach(surface Surface) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.surfaces[s.nextID] = surface
	return s.nextID
}

// Detach removes a surface. Detaching an unknown handle is a no-op, so a
// close handler can run more than once.
func (s *Synchronizer) Detach(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surfaces, h)
}

// Attached returns the number of live surfaces.
func (s *Synchronizer) Attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.surfaces)
}

// Save persists the notes on behalf of the surface identified by from,
// then refreshes every other live surface. Dead surfaces found along the
// way are dropped. A refresh that triggers a nested save is ignored; the
// outer save already carries the current text.
func (s *Synchronizer) Save(ctx context.Context, from Handle, text string) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return nil
	}
	s.saving = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	if err := s.save(ctx, text); err != nil {
		return fmt.Errorf("persisting notes: %w", err)
	}
	s.refreshOthers(from, text)
	return nil
}

func (s *Synchronizer) refreshOthers(from Handle, text string) {
	s.mu.Lock()
	targets := make(map[Handle]Surface, len(s.surfaces))
	for h, surface := range s.surfaces {
		if h != from {
			targets[h] = surface
		}
	}
	s.mu.Unlock()

	for h, surface := range targets {
		if !surface.Alive() {
			s.Detach(h)
			continue
		}
		surface.Refresh(text)
	}
}
