package telegram

import (
	"context"
	"fmt"
	"time"

	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram caps messages at 4096 characters.
const maxMessageLen = 4096

// api is the slice of the bot client the dispatcher uses.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot delivers run summaries to a Telegram chat.
type Bot struct {
	api          api
	chatID       int64
	log          *MessageLog
	retryBackoff time.Duration
	metrics      *metrics.Metrics
	logger       *applogger.Logger
}

// New builds a dispatcher over the Bot API.
func New(token string, chatID int64, log *MessageLog, retryBackoff time.Duration, m *metrics.Metrics, l *applogger.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{
		api:          client,
		chatID:       chatID,
		log:          log,
		retryBackoff: retryBackoff,
		metrics:      m,
		logger:       l,
	}, nil
}

// Send delivers text to the chat, chunked at the message length cap, and
// returns the id of the last sent chunk. With replacePrevious set, up to the
// last two recorded prior messages are deleted first.
func (b *Bot) Send(ctx context.Context, text string, replacePrevious bool) (int, error) {
	if replacePrevious {
		b.deletePrevious()
	}

	lastID := 0
	for _, chunk := range chunkText(text, maxMessageLen) {
		id, err := b.sendChunk(ctx, chunk)
		if err != nil {
			if b.metrics != nil {
				b.metrics.MessagesSent.WithLabelValues("telegram", "error").Inc()
			}
			return lastID, err
		}
		if b.metrics != nil {
			b.metrics.MessagesSent.WithLabelValues("telegram", "ok").Inc()
		}
		if b.log != nil {
			if err := b.log.Append(id); err != nil {
				b.logger.Warn("message log append failed", applogger.Error(err))
			}
		}
		lastID = id
	}

	return lastID, nil
}

// sendChunk sends one message, retrying once after a fixed backoff.
func (b *Bot) sendChunk(ctx context.Context, text string) (int, error) {
	msg := tgbotapi.NewMessage(b.chatID, text)

	sent, err := b.api.Send(msg)
	if err == nil {
		return sent.MessageID, nil
	}

	b.logger.Warn("telegram send failed, retrying",
		applogger.Error(err),
		applogger.Duration("backoff_ms", b.retryBackoff),
	)

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(b.retryBackoff):
	}

	sent, err = b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("telegram send: %w", err)
	}
	return sent.MessageID, nil
}

func (b *Bot) deletePrevious() {
	if b.log == nil {
		return
	}
	for _, id := range b.log.PopLast(2) {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(b.chatID, id)); err != nil {
			b.logger.Warn("telegram delete failed",
				applogger.Int("message_id", id),
				applogger.Error(err),
			)
		}
	}
}

// chunkText splits text into rune-safe pieces no longer than limit,
// preferring to break at line boundaries.
func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}

		cut := limit
		for i := limit - 1; i > 0; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}

		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}
