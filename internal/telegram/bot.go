package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bhealthy/clinicbot/internal/clinic"
)

// Bot receives updates (long poll or webhook) and routes them into the
// service as domain events. Each update is handled on its own goroutine;
// same-user ordering is the service's concern, not the transport's.
type Bot struct {
	api *tgbotapi.BotAPI
	svc clinic.Service
	log *zap.Logger
}

func NewBot(api *tgbotapi.BotAPI, svc clinic.Service, log *zap.Logger) *Bot {
	return &Bot{api: api, svc: svc, log: log}
}

// Run polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Answer first so the client stops showing the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Debug("callback answer failed", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}

	sel := &clinic.Selection{
		UserID:    cb.From.ID,
		ChatID:    cb.Message.Chat.ID,
		MessageID: cb.Message.MessageID,
		Username:  cb.From.UserName,
		Token:     cb.Data,
	}
	if err := b.svc.HandleSelection(ctx, sel); err != nil {
		b.log.Error("selection handling failed",
			zap.Int64("user_id", sel.UserID),
			zap.String("token", sel.Token),
			zap.Error(err))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	in := &clinic.Inbound{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.UserName,
		Text:     msg.Text,
	}

	var err error
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		err = b.svc.HandleStart(ctx, in)
	case msg.IsCommand() && msg.Command() == "admin":
		err = b.svc.HandleOperatorCommand(ctx, in)
	case msg.IsCommand():
		return
	default:
		err = b.svc.HandleText(ctx, in)
	}
	if err != nil {
		b.log.Error("message handling failed", zap.Int64("user_id", in.UserID), zap.Error(err))
	}
}
