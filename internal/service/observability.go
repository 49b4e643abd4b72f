package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// UseCaseEvent is one completed service operation. Every tempo use case acts
// on a single work item, so the item ID rides along as its own field instead
// of being buried in the attribute bag.
type UseCaseEvent struct {
	Name      string
	ItemID    string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives use-case events. Services take observers as a
// variadic construction argument; the zero case is a noop.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver drops every event.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver emits use-case events as slog text lines on w.
// Enabled from main when TEMPO_LOG is set.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, ev UseCaseEvent) {
	attrs := make([]any, 0, 8+len(ev.Fields)*2)
	attrs = append(attrs,
		"use_case", ev.Name,
		"item_id", ev.ItemID,
		"duration_ms", ev.Duration.Milliseconds(),
	)
	for k, v := range ev.Fields {
		attrs = append(attrs, k, v)
	}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err.Error())
		o.logger.ErrorContext(ctx, "use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
