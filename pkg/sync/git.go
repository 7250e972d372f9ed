package sync

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitManager versions the export directory.
type GitManager struct {
	RepoPath   string
	SSHKeyPath string
	logger     *slog.Logger
	now        func() time.Time
}

// NewGitManager creates a new GitManager. The default SSH key is
// ~/.ssh/id_rsa.
func NewGitManager(repoPath string, logger *slog.Logger) *GitManager {
	if logger == nil {
		logger = slog.Default()
	}
	home, _ := os.UserHomeDir()
	return &GitManager{
		RepoPath:   repoPath,
		SSHKeyPath: filepath.Join(home, ".ssh", "id_rsa"),
		logger:     logger,
		now:        time.Now,
	}
}

// Sync stages every change, commits it and pushes when the repository has a
// remote. The repository is created on first use. A clean worktree is not an
// error.
func (g *GitManager) Sync(message string) error {
	r, err := git.PlainOpen(g.RepoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		g.logger.Info("initializing export repository", "path", g.RepoPath)
		r, err = git.PlainInit(g.RepoPath, false)
	}
	if err != nil {
		return fmt.Errorf("failed to open repo: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if status.IsClean() {
		g.logger.Debug("export unchanged, nothing to commit", "path", g.RepoPath)
		return nil
	}

	now := g.now()
	if message == "" {
		message = fmt.Sprintf("Auto-sync: %s", now.Format(time.RFC3339))
	}
	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Smart Notes",
			Email: "notes@smart-notes.local",
			When:  now,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	g.logger.Info("export committed", "hash", hash.String(), "message", message)

	remotes, err := r.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if len(remotes) == 0 {
		return nil
	}
	return g.push(r)
}

func (g *GitManager) push(r *git.Repository) error {
	opts := &git.PushOptions{}
	publicKeys, err := ssh.NewPublicKeysFromFile("git", g.SSHKeyPath, "")
	if err != nil {
		g.logger.Warn("could not load SSH key, pushing without explicit auth", "path", g.SSHKeyPath, "error", err)
	} else {
		opts.Auth = publicKeys
	}

	err = r.Push(opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	g.logger.Info("export pushed")
	return nil
}
