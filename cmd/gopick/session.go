package main

import (
	"context"
	"fmt"

	"github.com/philipparndt/gopick/internal/app"
)

// openApp builds the session and, when file is set, swaps it in before returning.
// The view is fitted to whichever mesh ends up active.
func openApp(ctx context.Context, file string) (*app.App, error) {
	a, err := app.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := a.OpenAndWait(ctx, file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		a.Session.SetView(app.StaticView(cfg, a.Controller.Mesh()))
	}
	return a, nil
}

func meshName(a *app.App) string {
	m := a.Controller.Mesh()
	if m.Source != "" {
		return m.Source
	}
	return m.Name
}
