package clinic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type service struct {
	store      Store
	out        Outbound
	notifier   Notifier
	locks      *userLocks
	log        *zap.Logger
	operatorID int64
}

// NewService wires the state machine to its adapters. An operatorID of zero
// disables the operator console: zero matches no Telegram user.
func NewService(store Store, out Outbound, notifier Notifier, operatorID int64, log *zap.Logger) Service {
	return &service{
		store:      store,
		out:        out,
		notifier:   notifier,
		locks:      newUserLocks(),
		log:        log,
		operatorID: operatorID,
	}
}

// HandleStart resets the user to idle and shows the welcome screen. The
// session row is upserted here, which is how users are created lazily.
func (s *service) HandleStart(ctx context.Context, in *Inbound) error {
	s.locks.lock(in.UserID)
	defer s.locks.unlock(in.UserID)

	if err := s.store.SaveState(ctx, in.UserID, in.Username, nil); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	s.send(ctx, in.ChatID, welcomeText, welcomeOptions())
	return nil
}

// HandleSelection resolves a button tap. Selection events never depend on
// free text; most of them only repaint the tapped message in place.
func (s *service) HandleSelection(ctx context.Context, sel *Selection) error {
	s.locks.lock(sel.UserID)
	defer s.locks.unlock(sel.UserID)

	if err := s.store.Touch(ctx, sel.UserID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	switch {
	case sel.Token == TokenShowMenu || sel.Token == TokenBackMenu:
		s.edit(ctx, sel, mainMenuText, mainMenuOptions())

	case sel.Token == TokenShowWelcome:
		s.edit(ctx, sel, welcomeText, welcomeOptions())

	case sel.Token == TokenBook:
		s.edit(ctx, sel, bookingDaysText, bookingDayOptions())

	case strings.HasPrefix(sel.Token, tokenDayPrefix):
		day := strings.TrimPrefix(sel.Token, tokenDayPrefix)
		s.edit(ctx, sel, fmt.Sprintf(bookingSlotsFormat, day), bookingSlotOptions(day))

	case strings.HasPrefix(sel.Token, tokenTimePrefix):
		parts := strings.SplitN(sel.Token, "_", 3)
		if len(parts) != 3 {
			s.log.Debug("malformed slot token", zap.String("token", sel.Token))
			return nil
		}
		day, slot := parts[1], parts[2]
		s.edit(ctx, sel, namePromptText, nil)
		if err := s.store.SaveState(ctx, sel.UserID, sel.Username, WaitingName(day, slot)); err != nil {
			return fmt.Errorf("save state: %w", err)
		}

	case sel.Token == TokenAsk:
		return s.enterCategory(ctx, sel, CategoryInquiry)
	case sel.Token == TokenEditDiet:
		return s.enterCategory(ctx, sel, CategoryDietEdit)
	case sel.Token == TokenAnalysis:
		return s.enterCategory(ctx, sel, CategoryAnalysis)
	case sel.Token == TokenMedicalDiet:
		return s.enterCategory(ctx, sel, CategoryMedicalDiet)
	case sel.Token == TokenDailyFollowup:
		return s.enterCategory(ctx, sel, CategoryDailyFollowup)

	case sel.Token == TokenContact:
		s.edit(ctx, sel, contactText, nil)

	case sel.Token == TokenFAQ:
		s.edit(ctx, sel, faqMenuText, faqMenuOptions())

	case strings.HasPrefix(sel.Token, tokenFAQPrefix):
		id := strings.TrimPrefix(sel.Token, tokenFAQPrefix)
		answer, ok := faqAnswers[id]
		if !ok {
			answer = faqNotFoundText
		}
		s.edit(ctx, sel, answer, []Option{{Label: "🔙 Back to questions", Token: TokenFAQ}})

	case sel.Token == TokenAdminBookings || sel.Token == TokenAdminMessages || sel.Token == TokenAdminUsers:
		return s.handleConsole(ctx, sel)

	default:
		s.log.Debug("unknown selection token", zap.String("token", sel.Token))
	}
	return nil
}

func (s *service) enterCategory(ctx context.Context, sel *Selection, c Category) error {
	s.edit(ctx, sel, categoryPrompts[c], nil)
	if err := s.store.SaveState(ctx, sel.UserID, sel.Username, WaitingCategory(c)); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// HandleText resolves a free-text message purely against the persisted state.
// The text is always logged and forwarded to the operator before the state
// branch runs; category flows then log a second, resolved entry.
func (s *service) HandleText(ctx context.Context, in *Inbound) error {
	s.locks.lock(in.UserID)
	defer s.locks.unlock(in.UserID)

	st, err := s.store.GetState(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("get state: %w", err)
	}

	if err := s.store.SaveMessage(ctx, &LogEntry{
		UserID:   in.UserID,
		Username: in.Username,
		Text:     in.Text,
		Category: st.Category(),
		Origin:   OriginGeneric,
	}); err != nil {
		return fmt.Errorf("log message: %w", err)
	}

	s.notifier.NotifyOperator(fmt.Sprintf("📩 New message from @%s (ID: %d):\n%s", in.Username, in.UserID, in.Text))

	if st == nil {
		return nil
	}

	switch st.Kind {
	case KindWaitingName:
		if err := s.store.SaveState(ctx, in.UserID, in.Username, WaitingPhone(st.Day, st.Slot, in.Text)); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		s.send(ctx, in.ChatID, phonePromptText, nil)
		return nil

	case KindWaitingPhone:
		b := &Booking{
			UserID: in.UserID,
			Name:   st.Name,
			Phone:  in.Text,
			Day:    st.Day,
			Slot:   st.Slot,
		}
		if err := s.store.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		if err := s.store.ClearState(ctx, in.UserID); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		s.send(ctx, in.ChatID, fmt.Sprintf(bookingConfirmedFormat, st.Day, st.Slot), nil)
		s.send(ctx, in.ChatID, mainMenuText, mainMenuOptions())
		s.notifier.NotifyOperator(fmt.Sprintf("📅 New booking:\n👤 %s\n📞 %s\n📆 %s - %s", st.Name, in.Text, st.Day, st.Slot))
		return nil

	default:
		return s.finishCategory(ctx, in, st.Category())
	}
}

func (s *service) finishCategory(ctx context.Context, in *Inbound, c Category) error {
	if err := s.store.ClearState(ctx, in.UserID); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	if err := s.store.SaveMessage(ctx, &LogEntry{
		UserID:   in.UserID,
		Username: in.Username,
		Text:     in.Text,
		Category: c,
		Origin:   OriginResolved,
	}); err != nil {
		return fmt.Errorf("log message: %w", err)
	}
	s.send(ctx, in.ChatID, categoryAcks[c], nil)
	s.send(ctx, in.ChatID, mainMenuText, mainMenuOptions())
	s.notifier.NotifyOperator(fmt.Sprintf("%s from @%s (ID: %d):\n%s", categoryNotices[c], in.Username, in.UserID, in.Text))
	return nil
}

// send and edit swallow transport errors: a failed send surfaces to the user
// only as an absent reply, and the next event retries from persisted state.
func (s *service) send(ctx context.Context, chatID int64, text string, options []Option) {
	if _, err := s.out.SendMessage(ctx, chatID, text, options); err != nil {
		s.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (s *service) edit(ctx context.Context, sel *Selection, text string, options []Option) {
	if err := s.out.EditMessage(ctx, sel.ChatID, sel.MessageID, text, options); err != nil {
		s.log.Warn("edit failed", zap.Int64("chat_id", sel.ChatID), zap.Int("message_id", sel.MessageID), zap.Error(err))
	}
}
