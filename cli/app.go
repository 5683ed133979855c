// ABOUTME: Wiring shared by every measurebook command
// ABOUTME: Opens the snapshot store, export history, and workbook session, and closes them in order
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/harperreed/measurebook/compress"
	"github.com/harperreed/measurebook/config"
	"github.com/harperreed/measurebook/db"
	"github.com/harperreed/measurebook/photos"
	"github.com/harperreed/measurebook/storage"
	"github.com/harperreed/measurebook/workbook"
)

// App bundles what every command needs.
type App struct {
	Config  *config.Config
	Session *workbook.Session
	History *sql.DB
	Logger  *zap.Logger

	Out     io.Writer
	Confirm photos.Confirmer

	store *storage.BadgerStore
}

// Open restores the session from the data dir. Close must be called to flush
// pending edits.
func Open(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	history, err := db.OpenDatabase(cfg.HistoryPath())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open export history: %w", err)
	}

	app := newApp(cfg, logger, store)
	app.store = store
	app.History = history

	if _, err := app.Session.Restore(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, logger *zap.Logger, store storage.Store) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	session := workbook.New(store, workbook.Options{
		Compressor: compress.New(cfg.MaxPhotoWidth, cfg.JPEGQuality),
		Debounce:   cfg.DebounceDelay,
		SavedTTL:   cfg.SavedIndicatorTTL,
		Logger:     logger,
		OnSaveError: func(err error) {
			logger.Error("autosave failed", zap.Error(err))
		},
	})
	return &App{
		Config:  cfg,
		Session: session,
		Logger:  logger,
		Out:     os.Stdout,
		Confirm: NewTerminalConfirmer(os.Stdin, os.Stdout),
	}
}

// ExportDir is where exports land when no directory is given.
func (a *App) ExportDir() string {
	return filepath.Join(a.Config.DataDir, "exports")
}

// Close flushes the session, then closes history and the store.
func (a *App) Close() error {
	var errs []error
	if err := a.Session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to save workbook: %w", err))
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
