package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
)

// BotMessenger implements messenger.Messenger over the Telegram Bot API
type BotMessenger struct {
	api    *tgbotapi.BotAPI
	logger coreport.Logger
}

// NewBotMessenger creates a new Telegram-backed messenger
func NewBotMessenger(api *tgbotapi.BotAPI, logger coreport.Logger) *BotMessenger {
	return &BotMessenger{
		api:    api,
		logger: logger,
	}
}

// toMarkup converts the transport-neutral keyboard to Telegram inline markup
func toMarkup(keyboard messenger.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
			}
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// SendText sends a Markdown-formatted text message
func (m *BotMessenger) SendText(ctx context.Context, chatID int64, text string, keyboard messenger.Keyboard) (messenger.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup := toMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := m.api.Send(msg)
	if err != nil {
		m.logger.Warn("Failed to send message", map[string]any{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		return messenger.MessageRef{}, err
	}

	return messenger.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// SendPhoto sends a PNG image with a caption
func (m *BotMessenger) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, keyboard messenger.Keyboard) (messenger.MessageRef, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "qris.png", Bytes: photo})
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup := toMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := m.api.Send(msg)
	if err != nil {
		m.logger.Warn("Failed to send photo", map[string]any{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		return messenger.MessageRef{}, err
	}

	return messenger.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// EditText replaces the text of an existing message
func (m *BotMessenger) EditText(ctx context.Context, ref messenger.MessageRef, text string, keyboard messenger.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if markup := toMarkup(keyboard); markup != nil {
		edit.ReplyMarkup = markup
	}

	if _, err := m.api.Send(edit); err != nil {
		// Telegram rejects edits that change nothing; not worth surfacing
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

// DeleteMessage removes a message, swallowing "already gone" failures
func (m *BotMessenger) DeleteMessage(ctx context.Context, ref messenger.MessageRef) error {
	if _, err := m.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		if strings.Contains(err.Error(), "message to delete not found") ||
			strings.Contains(err.Error(), "message can't be deleted") {
			return nil
		}
		return err
	}
	return nil
}
