package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/smart-notes/pkg/ai"
	"github.com/mklimuk/smart-notes/pkg/db"
	"github.com/mklimuk/smart-notes/pkg/locale"
	"github.com/mklimuk/smart-notes/pkg/note"
)

// fakeGateway scripts model answers and records what was asked.
type fakeGateway struct {
	mu           sync.Mutex
	text         func(prompt string) (string, error)
	json         func(prompt string) (string, error)
	replies      []string
	chatErr      error
	// hold, when set, runs before each chat message is answered.
	hold         func(message string)
	textPrompts  []string
	jsonPrompts  []string
	instructions []string
	messages     []string
}

var _ ai.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.textPrompts = append(g.textPrompts, prompt)
	fn := g.text
	g.mu.Unlock()
	if fn == nil {
		return "", errors.New("unexpected text generation")
	}
	return fn(prompt)
}

func (g *fakeGateway) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.jsonPrompts = append(g.jsonPrompts, prompt)
	fn := g.json
	g.mu.Unlock()
	if fn == nil {
		return "", errors.New("unexpected structured generation")
	}
	return fn(prompt)
}

func (g *fakeGateway) StartChat(instruction string) ai.ChatSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.instructions = append(g.instructions, instruction)
	return &fakeChat{g: g}
}

func (g *fakeGateway) Close() error { return nil }

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.textPrompts) + len(g.jsonPrompts) + len(g.messages)
}

func (g *fakeGateway) lastTextPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.textPrompts) == 0 {
		return ""
	}
	return g.textPrompts[len(g.textPrompts)-1]
}

type fakeChat struct {
	g *fakeGateway
}

func (c *fakeChat) SendMessage(ctx context.Context, message string) (string, error) {
	c.g.mu.Lock()
	hold := c.g.hold
	c.g.mu.Unlock()
	if hold != nil {
		hold(message)
	}

	c.g.mu.Lock()
	defer c.g.mu.Unlock()
	c.g.messages = append(c.g.messages, message)
	if c.g.chatErr != nil {
		return "", c.g.chatErr
	}
	if len(c.g.replies) == 0 {
		return "ok", nil
	}
	r := c.g.replies[0]
	c.g.replies = c.g.replies[1:]
	return r, nil
}

func reply(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func newTestAssistant(t *testing.T, gw *fakeGateway, opts ...Option) (*Assistant, db.KV) {
	t.Helper()
	kv := db.NewFileKV(afero.NewMemMapFs(), "/data")
	store, err := note.Open(context.Background(), kv)
	require.NoError(t, err)
	base := []Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	return New(store, gw, append(base, opts...)...), kv
}

func english() Option {
	return WithLocale(locale.For("en"))
}

// addSelected adds a note with the given title and content and selects it.
func addSelected(t *testing.T, a *Assistant, title, content string) note.Note {
	t.Helper()
	n, err := a.AddNote(context.Background(), note.Note{Title: title, Content: content})
	require.NoError(t, err)
	return n
}
