package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/api"
)

func newExportCommand(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every note to the export directory as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				g.cfg.Export.Dir = dir
			}
			a, err := newApp(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.export()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s, removed %d stale files\n", len(res.Written), g.cfg.Export.Dir, len(res.Removed))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Export directory (overrides export.dir)")
	return cmd
}

func newTokenCommand(g *globals) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.cfg.HTTP.JWTSecret == "" {
				return errors.New("http.jwt_secret or SMARTNOTES_JWT_SECRET must be set")
			}
			token, err := api.IssueToken([]byte(g.cfg.HTTP.JWTSecret), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	return cmd
}
