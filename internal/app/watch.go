package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gopick/pkg/openscad"
	"github.com/philipparndt/gopick/pkg/watcher"
	"go.uber.org/zap"
)

type watchState struct {
	watcher *watcher.FileWatcher
	path    string
}

// WatchFiles returns the files whose change should reload path.
// OpenSCAD sources include every used or included file.
func (a *App) WatchFiles(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	renderer := openscad.NewRenderer(filepath.Dir(abs))
	deps, err := renderer.ResolveDependencies(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	return deps, nil
}

// Watch reloads path whenever it or one of its dependencies changes.
// onReload runs on the watcher goroutine after each reload was requested.
// Watching a new path replaces the previous watch.
func (a *App) Watch(ctx context.Context, path string, onReload func()) error {
	if !a.Config.Watch.Enabled {
		return nil
	}

	files, err := a.WatchFiles(path)
	if err != nil {
		return err
	}

	if a.watch == nil {
		fw, err := watcher.NewFileWatcher(a.Config.Watch.Debounce)
		if err != nil {
			return err
		}
		fw.SetOnError(func(err error) {
			a.log.Warn("File watcher error", zap.Error(err))
		})

		watchCtx, cancel := context.WithCancel(ctx)
		a.cancels = append(a.cancels, cancel)
		fw.Start(watchCtx)
		a.watch = &watchState{watcher: fw}
	} else if err := a.watch.watcher.RemoveAll(); err != nil {
		return err
	}

	a.watch.path = path
	err = a.watch.watcher.Watch(files, func(changed string) {
		a.log.Info("File changed", zap.String("file", changed))
		a.Open(ctx, path)
		if onReload != nil {
			onReload()
		}
	})
	if err != nil {
		return err
	}

	a.log.Debug("Watching files", zap.Strings("files", files))
	return nil
}

// Watching returns the path currently watched, or "" when none
func (a *App) Watching() string {
	if a.watch == nil {
		return ""
	}
	return a.watch.path
}
