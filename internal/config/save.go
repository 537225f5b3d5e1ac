package config

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
)

// SaveTagLayouts keeps the configured tag layouts in step with layout changes made at runtime.
// lookup resolves a tag on the goroutine that owns it.
func SaveTagLayouts(ctx context.Context, store *Store, events <-chan wm.Event, lookup func(ctx context.Context, id tag.ID) (tag.Tag, error)) error {
	for {
		var event wm.Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event = <-events:
		}

		if event.Kind != "tag" || event.Action != "changed" {
			continue
		}

		t, err := lookup(ctx, event.Tag)
		if err != nil {
			if errors.Is(err, wm.ErrTagNotFound) {
				continue
			}
			return err
		}

		if err := store.SaveTagLayout(t.Name, t.Layout); err != nil {
			slog.Error("Failed to save tag layout", "package", "config", "tag", t.Name, "error", err)
		}
	}
}
