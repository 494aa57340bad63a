package telegram

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier forwards text to the operator chat. Delivery is fire-and-forget:
// the send runs on its own goroutine with bounded backoff, and a message that
// still cannot be delivered is dropped. An operatorID of zero disables it.
type Notifier struct {
	api        *tgbotapi.BotAPI
	operatorID int64
	log        *zap.Logger
}

func NewNotifier(api *tgbotapi.BotAPI, operatorID int64, log *zap.Logger) *Notifier {
	return &Notifier{api: api, operatorID: operatorID, log: log}
}

func (n *Notifier) NotifyOperator(text string) {
	if n.operatorID == 0 {
		return
	}
	go func() {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = 500 * time.Millisecond
		policy.MaxElapsedTime = 30 * time.Second

		err := backoff.Retry(func() error {
			_, err := n.api.Send(tgbotapi.NewMessage(n.operatorID, text))
			return err
		}, backoff.WithMaxRetries(policy, 3))
		if err != nil {
			n.log.Debug("operator notification dropped", zap.Error(err))
		}
	}()
}
