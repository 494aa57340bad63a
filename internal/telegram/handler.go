package telegram

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleWebhook is the ingress for webhook mode: one Telegram update per
// request. Telegram does not wait for processing, so the update is dispatched
// on its own goroutine and the request is ACKed immediately.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Not r.Context(): that dies when this handler returns.
	go b.handleUpdate(context.Background(), update)

	w.WriteHeader(http.StatusOK)
}
