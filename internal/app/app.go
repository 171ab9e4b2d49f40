package app

import (
	"context"
	"fmt"

	"github.com/nhle/packlist/internal/logger"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/planner"
	"github.com/nhle/packlist/internal/store"
	appsync "github.com/nhle/packlist/internal/sync"
)

// App bundles the wired planner with the infrastructure it persists through.
type App struct {
	Config  *model.AppConfig
	Planner *planner.Planner
	Store   store.Store
	Saver   *appsync.Saver
	Log     *logger.Logger
}

// New opens the configured store, loads persisted state into a planner, and
// starts the background saver.
func New(ctx context.Context, cfg *model.AppConfig) (*App, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	s, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	saver := appsync.New(s, log.With("component", "saver"))
	p := planner.New(planner.Options{
		Logger:    log.With("component", "planner"),
		Persister: saver,
		Reminder: model.ReminderConfig{
			Enabled:   cfg.Reminder.Enabled,
			LeadHours: cfg.Reminder.LeadHours,
		},
	})
	if err := p.Load(ctx, s); err != nil {
		s.Close()
		return nil, fmt.Errorf("loading state: %w", err)
	}
	saver.Start()

	return &App{
		Config:  cfg,
		Planner: p,
		Store:   s,
		Saver:   saver,
		Log:     log,
	}, nil
}

// Close flushes pending snapshots and releases the store.
func (a *App) Close() error {
	a.Saver.Stop()
	defer a.Log.Sync()

	var failed []string
	for _, st := range a.Saver.Statuses() {
		if st.State == appsync.SaveError {
			failed = append(failed, string(st.Document))
		}
	}
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	if len(failed) > 0 {
		return fmt.Errorf("saving documents %v failed, see log", failed)
	}
	return nil
}
