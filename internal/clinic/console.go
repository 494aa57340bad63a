package clinic

import (
	"context"
	"fmt"
	"strings"
)

// The operator console is read-only: three summaries over the store, no
// state-machine interaction. Every entry point re-checks the caller identity.

const consoleText = "🧑‍💻 Operator console:"

func (s *service) isOperator(userID int64) bool {
	return s.operatorID != 0 && userID == s.operatorID
}

// HandleOperatorCommand opens the console panel. Non-operators get nothing,
// not even an error: the command is invisible to them.
func (s *service) HandleOperatorCommand(ctx context.Context, in *Inbound) error {
	if !s.isOperator(in.UserID) {
		return nil
	}
	s.send(ctx, in.ChatID, consoleText, []Option{
		{Label: "📋 Recent bookings", Token: TokenAdminBookings},
		{Label: "📩 Recent messages", Token: TokenAdminMessages},
		{Label: "👥 User count", Token: TokenAdminUsers},
	})
	return nil
}

func (s *service) handleConsole(ctx context.Context, sel *Selection) error {
	if !s.isOperator(sel.UserID) {
		return nil
	}

	switch sel.Token {
	case TokenAdminBookings:
		bookings, err := s.store.RecentBookings(ctx, 10)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		if len(bookings) == 0 {
			s.edit(ctx, sel, "No bookings yet.", nil)
			return nil
		}
		lines := make([]string, 0, len(bookings))
		for _, b := range bookings {
			lines = append(lines, fmt.Sprintf("%s - %s %s (%s)", b.Name, b.Day, b.Slot, b.Phone))
		}
		s.edit(ctx, sel, "📅 Last 10 bookings:\n\n"+strings.Join(lines, "\n"), nil)

	case TokenAdminMessages:
		messages, err := s.store.RecentMessages(ctx, 15)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		if len(messages) == 0 {
			s.edit(ctx, sel, "No messages yet.", nil)
			return nil
		}
		var sb strings.Builder
		sb.WriteString("📩 Last 15 messages:\n\n")
		for _, m := range messages {
			name := m.Username
			if name == "" {
				name = "unknown"
			}
			sb.WriteString(fmt.Sprintf("👤 @%s\n", name))
			sb.WriteString(fmt.Sprintf("📝 %s\n", CategoryNames[m.Category]))
			sb.WriteString(fmt.Sprintf("💬 %s\n", truncate(m.Text, 50)))
			sb.WriteString(fmt.Sprintf("⏰ %s\n\n", m.CreatedAt.Format("2006-01-02 15:04")))
		}
		s.edit(ctx, sel, sb.String(), nil)

	case TokenAdminUsers:
		count, err := s.store.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		s.edit(ctx, sel, fmt.Sprintf("👥 Registered users: %d", count), nil)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
