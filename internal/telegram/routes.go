package telegram

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, b *Bot) {
	r.Post("/telegram/webhook", b.HandleWebhook)
}
