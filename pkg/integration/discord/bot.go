package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/mklimuk/smart-notes/pkg/assistant"
	"github.com/mklimuk/smart-notes/pkg/integration"
)

// maxMessage is the Discord message size limit in characters.
const maxMessage = 2000

// Bot wraps the Discord session and dependencies
type Bot struct {
	Session  *discordgo.Session
	Commands *integration.Commands
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBot creates a new Discord bot
func NewBot(token string, a *assistant.Assistant, logger *slog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	ctx, cancel := context.WithCancel(context.Background())
	bot := &Bot{
		Session:  dg,
		Commands: &integration.Commands{Assistant: a, Prefix: "!", Logger: logger},
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	dg.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start opens the websocket connection
func (b *Bot) Start() error {
	if err := b.Session.Open(); err != nil {
		return err
	}
	b.logger.Info("discord bot started")
	return nil
}

// Stop closes the websocket connection
func (b *Bot) Stop() error {
	b.cancel()
	return b.Session.Close()
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore messages from self
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Content == "" {
		return
	}

	reply := b.Commands.Handle(b.ctx, m.Content)
	if _, err := s.ChannelMessageSend(m.ChannelID, integration.Truncate(reply, maxMessage)); err != nil {
		b.logger.Error("failed to send Discord reply", "channel", m.ChannelID, "error", err)
	}
}
