package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/checklist"
	"github.com/amonks/shiftbook/internal/config"
	"github.com/amonks/shiftbook/internal/kv"
	"github.com/amonks/shiftbook/internal/logging"
	"github.com/amonks/shiftbook/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Command annotations read by setupApp.
const (
	// annotationNoStore marks commands that never touch the store.
	annotationNoStore = "sb/no-store"
	// annotationNoRollover marks commands that must see the store as is.
	annotationNoRollover = "sb/no-rollover"
)

// app is the state shared by the commands of one invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	orderLoc *time.Location
	backend  kv.Store
	store    kv.Store
	book     *checklist.Book
	settings *settings.Settings
	stateDir string
}

var current *app

func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationNoStore] != "" {
		return nil
	}

	a, err := openApp(cmd)
	if err != nil {
		return usageError(err)
	}
	current = a

	if cmd.Annotations[annotationNoRollover] != "" {
		return nil
	}
	if _, err := a.book.Rollover(); err != nil {
		// The checklist stays usable; the next command retries.
		a.logger.Error("rollover failed", zap.Error(err))
	}
	return nil
}

func teardownApp(cmd *cobra.Command, args []string) error {
	return closeApp()
}

// closeApp releases the store of the current invocation. It is safe to call
// more than once.
func closeApp() error {
	if current == nil {
		return nil
	}
	a := current
	current = nil
	_ = a.logger.Sync()
	return a.backend.Close()
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.Options{Path: globalConfig})
	if err != nil {
		return nil, err
	}
	if globalStore != "" {
		cfg.Store.Backend = strings.ToLower(strings.TrimSpace(globalStore))
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	clock, err := cfg.Clock()
	if err != nil {
		return nil, err
	}
	orderLoc, err := cfg.OrderLocation()
	if err != nil {
		return nil, err
	}
	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}

	backend, err := kv.Open(cfg.Store.Backend, stateDir)
	if err != nil {
		return nil, err
	}
	store := kv.Namespace(backend, cfg.Store.Namespace)

	logger.Debug("opened store",
		zap.String("backend", cfg.Store.Backend),
		zap.String("dir", stateDir),
		zap.String("namespace", cfg.Store.Namespace),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		orderLoc: orderLoc,
		backend:  backend,
		store:    store,
		book: checklist.New(store, checklist.Options{
			Policy: policy,
			Now:    clock,
			Logger: logger,
		}),
		settings: settings.New(store, cfg.DefaultRecipients(), logger),
		stateDir: stateDir,
	}, nil
}

// viewedDay resolves --day against the current business day.
func (a *app) viewedDay() (businessday.Key, error) {
	today := a.book.BusinessDay()
	switch strings.ToLower(strings.TrimSpace(globalDay)) {
	case "", "today", "heute":
		return today, nil
	case "yesterday", "gestern":
		return today.AddDays(-1), nil
	case "tomorrow", "morgen":
		return today.AddDays(1), nil
	}
	key, err := businessday.ParseKey(strings.TrimSpace(globalDay))
	if err != nil {
		return "", exitError{code: exitUsage, err: fmt.Errorf("--day: %w", err)}
	}
	return key, nil
}

// requireAdmin fails unless admin mode is on.
func (a *app) requireAdmin() error {
	on, err := a.settings.Admin()
	if err != nil {
		return err
	}
	if !on {
		return errAdminRequired
	}
	return nil
}
