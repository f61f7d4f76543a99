package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/pkg/conv"
	"github.com/sandevgo/cmdgate/pkg/log"
	"github.com/sandevgo/cmdgate/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const (
	SenderKind        = "telegram"
	maxTelegramMsgLen = 4000 // Safety margin below 4096
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// ChatSender is a Telegram user talking to the bot from one chat. Admins
// hold every permission, everyone else none.
type ChatSender struct {
	api     messenger
	chat    tele.Recipient
	userID  int64
	admin   bool
	retrier *retry.Retrier
}

var _ core.Sender = (*ChatSender)(nil)

func NewChatSender(api messenger, chat tele.Recipient, userID int64, admin bool, retrier *retry.Retrier) *ChatSender {
	return &ChatSender{
		api:     api,
		chat:    chat,
		userID:  userID,
		admin:   admin,
		retrier: retrier,
	}
}

func (s *ChatSender) ID() string {
	return fmt.Sprintf("telegram-%d", s.userID)
}

func (s *ChatSender) Kind() string {
	return SenderKind
}

func (s *ChatSender) HasPermission(string) bool {
	return s.admin
}

// SendMessage converts Markdown to Telegram HTML and sends it in chunks if needed.
func (s *ChatSender) SendMessage(ctx context.Context, md string) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		err := s.retrier.Do(ctx, func(context.Context) error {
			_, err := s.api.Send(s.chat, chunk, tele.ModeHTML)
			return classify(err)
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// classify marks client errors as permanent. Flood control and transport
// failures are retried.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return err
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
		return retry.Permanent(err)
	}
	return err
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
