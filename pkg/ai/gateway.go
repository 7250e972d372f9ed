package ai

import (
	"context"
	"errors"
	"sync"
)

// Generator defines the interface for text generation
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// StructuredGenerator asks the model for a JSON-shaped answer. No schema is
// enforced; callers validate what comes back.
type StructuredGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ChatSession is one multi-turn conversation. Context is kept across calls
// for the lifetime of the session.
type ChatSession interface {
	SendMessage(ctx context.Context, message string) (string, error)
}

// Chatter opens chat sessions framed by a system instruction.
type Chatter interface {
	StartChat(instruction string) ChatSession
}

// Gateway is everything the assistant needs from a model provider.
type Gateway interface {
	Generator
	StructuredGenerator
	Chatter
	Close() error
}

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

type turn struct {
	role    string
	content string
}

type sendFunc func(ctx context.Context, instruction string, history []turn) (string, error)

// historyChat keeps the transcript client-side for providers whose APIs are
// stateless.
type historyChat struct {
	mu          sync.Mutex
	instruction string
	history     []turn
	send        sendFunc
}

func newHistoryChat(instruction string, send sendFunc) *historyChat {
	return &historyChat{instruction: instruction, send: send}
}

// SendMessage appends the message, calls the provider with the whole
// history and records the reply. A failed call leaves the history as it was.
func (c *historyChat) SendMessage(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := append(c.history[:len(c.history):len(c.history)], turn{role: roleUser, content: message})
	reply, err := c.send(ctx, c.instruction, history)
	if err != nil {
		return "", err
	}
	c.history = append(history, turn{role: roleAssistant, content: reply})
	return reply, nil
}

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("no AI provider configured")

// Disabled is a Gateway for commands that never talk to a model.
type Disabled struct{}

var _ Gateway = Disabled{}

func (Disabled) GenerateText(context.Context, string) (string, error) { return "", ErrDisabled }
func (Disabled) GenerateJSON(context.Context, string) (string, error) { return "", ErrDisabled }
func (Disabled) StartChat(string) ChatSession                         { return disabledChat{} }
func (Disabled) Close() error                                         { return nil }

type disabledChat struct{}

func (disabledChat) SendMessage(context.Context, string) (string, error) { return "", ErrDisabled }
