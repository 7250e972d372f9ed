package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mklimuk/smart-notes/pkg/assistant"
	"github.com/mklimuk/smart-notes/pkg/integration"
)

// maxMessage is the Telegram message size limit in characters.
const maxMessage = 4096

// Bot wraps the Telegram bot API and dependencies
type Bot struct {
	API      *tgbotapi.BotAPI
	Commands *integration.Commands
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewBot creates a new Telegram bot
func NewBot(token string, a *assistant.Assistant, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}
	return newBot(api, a, logger), nil
}

func newBot(api *tgbotapi.BotAPI, a *assistant.Assistant, logger *slog.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		API:      api,
		Commands: &integration.Commands{Assistant: a, Prefix: "/", Logger: logger},
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins polling for updates in a goroutine
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.API.GetUpdatesChan(u)

	go func() {
		defer close(b.done)
		for {
			select {
			case <-b.stopCh:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					b.handleMessage(update.Message)
				}
			}
		}
	}()

	b.logger.Info("telegram bot started", "user", b.API.Self.UserName)
	return nil
}

// Stop stops polling for updates and waits for the message in flight. It
// is safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		b.cancel()
		close(b.stopCh)
		b.API.StopReceivingUpdates()
	})
	<-b.done
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.Text == "" {
		return
	}
	b.logger.Debug("telegram message", "chat", msg.Chat.ID)
	reply := b.Commands.Handle(b.ctx, msg.Text)
	for _, chunk := range SplitMessage(reply, maxMessage) {
		if _, err := b.API.Send(tgbotapi.NewMessage(msg.Chat.ID, chunk)); err != nil {
			b.logger.Error("failed to send Telegram reply", "chat", msg.Chat.ID, "error", err)
			return
		}
	}
}

// SplitMessage cuts text into pieces of at most limit characters,
// preferring to break after a newline.
func SplitMessage(text string, limit int) []string {
	r := []rune(text)
	if len(r) == 0 {
		return nil
	}
	var chunks []string
	for len(r) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if r[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(r[:cut]))
		r = r[cut:]
	}
	return append(chunks, string(r))
}
