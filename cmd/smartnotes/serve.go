package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/api"
	"github.com/mklimuk/smart-notes/pkg/integration/discord"
	"github.com/mklimuk/smart-notes/pkg/integration/telegram"
)

func newServeCommand(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the configured chat bots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				g.cfg.HTTP.Addr = addr
			}
			return runServe(cmd.Context(), g)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	return cmd
}

func runServe(ctx context.Context, g *globals) error {
	a, err := newApp(ctx, g, true)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := g.logger

	if token := g.cfg.Discord.Token; token != "" {
		bot, err := discord.NewBot(token, a.assistant, logger)
		if err != nil {
			logger.Error("failed to create Discord bot", "error", err)
		} else if err := bot.Start(); err != nil {
			logger.Error("failed to start Discord bot", "error", err)
		} else {
			defer bot.Stop()
		}
	}

	if token := g.cfg.Telegram.Token; token != "" {
		bot, err := telegram.NewBot(token, a.assistant, logger)
		if err != nil {
			logger.Error("failed to create Telegram bot", "error", err)
		} else if err := bot.Start(); err != nil {
			logger.Error("failed to start Telegram bot", "error", err)
		} else {
			defer bot.Stop()
		}
	}

	h := &api.Handler{Assistant: a.assistant, Exporter: a.exporter, Git: a.git, Logger: logger}
	var secret []byte
	if g.cfg.HTTP.JWTSecret != "" {
		secret = []byte(g.cfg.HTTP.JWTSecret)
	} else {
		logger.Warn("HTTP API is running without authentication")
	}
	srv := &http.Server{
		Addr:              g.cfg.HTTP.Addr,
		Handler:           api.NewRouter(h, secret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
