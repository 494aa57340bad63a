// Package telegram adapts the clinic state machine to the Telegram Bot API:
// outbound sends/edits, operator notification and inbound update dispatch.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bhealthy/clinicbot/internal/clinic"
)

// Client implements clinic.Outbound on top of the Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

func (c *Client) SendMessage(_ context.Context, chatID int64, text string, options []clinic.Option) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(options) > 0 {
		msg.ReplyMarkup = keyboardFor(options)
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) EditMessage(_ context.Context, chatID int64, messageID int, text string, options []clinic.Option) error {
	var err error
	if len(options) > 0 {
		_, err = c.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboardFor(options)))
	} else {
		_, err = c.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	}
	return err
}

// keyboardFor renders options one button per row, in order.
func keyboardFor(options []clinic.Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
