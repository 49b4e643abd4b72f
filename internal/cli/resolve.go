package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

// resolveItem finds an open item by ID prefix or exact title match. An
// ambiguous prefix is an error rather than a guess.
func resolveItem(ctx context.Context, app *App, ref string) (*domain.WorkItem, error) {
	if w, err := app.Items.GetByID(ctx, ref); err == nil {
		return w, nil
	}

	open, err := app.Items.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*domain.WorkItem
	for _, w := range open {
		if strings.HasPrefix(w.ID, ref) || strings.EqualFold(w.Title, ref) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no open item matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d items; use a longer ID prefix", ref, len(matches))
	}
}
