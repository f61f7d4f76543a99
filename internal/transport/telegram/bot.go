package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/cmdgate/internal/config"
	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/pkg/log"
	"github.com/sandevgo/cmdgate/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot        *tele.Bot
	cfg        *config.TelegramConfig
	dispatcher core.Dispatcher
	retrier    *retry.Retrier
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	dispatcher core.Dispatcher,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		cfg:        cfg,
		dispatcher: dispatcher,
		retrier:    retry.NewDefaultRetrier(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

// Start blocks until Shutdown stops the poller.
func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int("admins", len(b.cfg.AdminIDs)).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	if c.Sender() == nil {
		return nil
	}

	userID := c.Sender().ID
	sender := NewChatSender(b.bot, c.Chat(), userID, b.cfg.IsAdmin(userID), b.retrier)

	var username string
	if b.bot.Me != nil {
		username = b.bot.Me.Username
	}
	b.dispatcher.Handle(ctx, sender, stripMention(c.Text(), username))
	return nil
}

// stripMention removes the bot name group chats append to commands,
// as in "/kick@gatebot bob".
func stripMention(text, username string) string {
	if username == "" {
		return text
	}
	head, rest, found := strings.Cut(strings.TrimSpace(text), " ")
	if at := strings.LastIndexByte(head, '@'); at > 0 && strings.EqualFold(head[at+1:], username) {
		head = head[:at]
	}
	if !found {
		return head
	}
	return head + " " + rest
}
