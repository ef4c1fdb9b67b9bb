// Package taskboard wires the backing store, preset storage, and per-view
// controllers into the application object commands and the TUI consume.
package taskboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/preset"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/core/workload"
	"github.com/colonyops/taskboard/internal/data/watch"
)

// App is the central entry point for all taskboard operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	Store   board.Store
	Presets *preset.Store
	Watcher *watch.BoardWatcher

	mu          sync.Mutex
	controllers map[view.Key]*view.Controller
}

// NewApp constructs an App from explicit dependencies. Watcher may be nil.
func NewApp(cfg *config.Config, store board.Store, presets *preset.Store, watcher *watch.BoardWatcher) *App {
	return &App{
		Config:      cfg,
		Store:       store,
		Presets:     presets,
		Watcher:     watcher,
		controllers: make(map[view.Key]*view.Controller),
	}
}

// Controller returns the initialized controller for a view, creating it on
// first use.
func (a *App) Controller(ctx context.Context, key view.Key) (*view.Controller, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ctrl, ok := a.controllers[key]; ok {
		return ctrl, nil
	}

	ctrl := view.NewController(view.Options{
		Key:     key,
		Store:   a.Store,
		Presets: a.Presets,
		Workload: workload.Options{
			InProgressKeywords: a.Config.Workload.InProgressKeywords,
			HighlightThreshold: a.Config.Workload.HighlightThreshold,
		},
	})
	if err := ctrl.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s view: %w", key, err)
	}
	a.controllers[key] = ctrl
	return ctrl, nil
}

// WatchBoard forwards board-file change events to every initialized
// controller as realtime pushes until the context ends. Controllers created
// after an event initialize from the already-reloaded store, so nothing is
// stale. No-op without a watcher.
func (a *App) WatchBoard(ctx context.Context, onPush func()) {
	if a.Watcher == nil {
		return
	}
	events := a.Watcher.Watch(ctx)
	go func() {
		for range events {
			snap, err := a.Store.ReloadFromFile(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("reload after board file change")
				continue
			}
			a.mu.Lock()
			ctrls := make([]*view.Controller, 0, len(a.controllers))
			for _, ctrl := range a.controllers {
				ctrls = append(ctrls, ctrl)
			}
			a.mu.Unlock()
			for _, ctrl := range ctrls {
				ctrl.ApplyPush(snap)
			}
			if onPush != nil {
				onPush()
			}
		}
	}()
}

// Close releases held resources.
func (a *App) Close() {
	if a.Watcher != nil {
		if err := a.Watcher.Close(); err != nil {
			log.Debug().Err(err).Msg("close board watcher")
		}
	}
}
