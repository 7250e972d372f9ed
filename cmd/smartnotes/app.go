package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/assistant"
	"github.com/mklimuk/smart-notes/pkg/config"
	"github.com/mklimuk/smart-notes/pkg/db"
	"github.com/mklimuk/smart-notes/pkg/locale"
	"github.com/mklimuk/smart-notes/pkg/note"
	"github.com/mklimuk/smart-notes/pkg/sync"
	"github.com/mklimuk/smart-notes/pkg/vault"
)

// app is the wired object graph behind every command.
type app struct {
	assistant *assistant.Assistant
	exporter  *vault.Exporter
	git       *sync.GitManager
	closers   []func() error
	logger    *slog.Logger
}

// newApp opens storage and, when withAI is set, the model gateway.
func newApp(ctx context.Context, g *globals, withAI bool, opts ...assistant.Option) (*app, error) {
	cfg := g.cfg
	validate := cfg.ValidateStorage
	if withAI {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, err
	}

	a := &app{logger: g.logger}
	kv, closeKV, err := openKV(ctx, g.fs, cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeKV)

	store, err := note.Open(ctx, kv, note.WithKey(cfg.Storage.Key), note.WithLogger(g.logger))
	if err != nil {
		a.Close()
		return nil, err
	}

	var gw ai.Gateway = ai.Disabled{}
	if withAI {
		gw, err = ai.New(ctx, cfg.AI.Provider, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		a.closers = append(a.closers, gw.Close)
	}

	base := []assistant.Option{
		assistant.WithLocale(locale.For(cfg.Locale)),
		assistant.WithLogger(g.logger),
	}
	a.assistant = assistant.New(store, gw, append(base, opts...)...)
	a.closers = append(a.closers, func() error { a.assistant.Close(); return nil })

	if cfg.Export.Dir != "" {
		var templates *vault.TemplateEngine
		if cfg.Export.TemplateDir != "" {
			templates = vault.NewTemplateEngine(g.fs, cfg.Export.TemplateDir)
		}
		a.exporter = vault.NewExporter(g.fs, cfg.Export.Dir, templates, g.logger)
		if cfg.Export.GitSync {
			a.git = sync.NewGitManager(cfg.Export.Dir, g.logger)
		}
	}
	return a, nil
}

// Close releases everything in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// openKV builds the configured storage backend.
func openKV(ctx context.Context, fs afero.Fs, st config.Storage) (db.KV, func() error, error) {
	switch st.Backend {
	case "sqlite":
		database, err := db.NewDB(st.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		if err := database.InitSchema(); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to init schema: %w", err)
		}
		return db.NewRepository(database), database.Close, nil
	case "file":
		return db.NewFileKV(fs, st.Dir), func() error { return nil }, nil
	case "redis":
		kv, err := db.NewRedisKV(ctx, st.Redis.Addr, st.Redis.Password, st.Redis.DB, st.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend: %s", st.Backend)
}

var errExportDisabled = errors.New("export directory is not configured")

// export writes the notes and commits them when git sync is on.
func (a *app) export() (vault.Result, error) {
	if a.exporter == nil {
		return vault.Result{}, errExportDisabled
	}
	notes := a.assistant.Notes()
	res, err := a.exporter.Export(notes)
	if err != nil {
		return res, err
	}
	if a.git != nil {
		if err := a.git.Sync(fmt.Sprintf("Export %d notes", len(notes))); err != nil {
			return res, fmt.Errorf("git sync failed: %w", err)
		}
	}
	return res, nil
}
