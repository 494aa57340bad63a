package clinic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const operatorID = int64(424242)

func TestConsoleCommandGatedToOperator(t *testing.T) {
	svc, _, out, _ := newTestService(operatorID)
	ctx := context.Background()

	require.NoError(t, svc.HandleOperatorCommand(ctx, &Inbound{UserID: 1, ChatID: 1}))
	require.Empty(t, out.sent)

	require.NoError(t, svc.HandleOperatorCommand(ctx, &Inbound{UserID: operatorID, ChatID: operatorID}))
	require.Len(t, out.sent, 1)
	require.Equal(t, consoleText, out.lastSent().Text)
	require.Len(t, out.lastSent().Options, 3)
}

// With no configured operator, the console is unreachable for everyone —
// including a caller whose id is the disabled sentinel itself.
func TestConsoleUnreachableWithoutOperator(t *testing.T) {
	svc, _, out, _ := newTestService(0)
	ctx := context.Background()

	for _, id := range []int64{0, 1, operatorID} {
		require.NoError(t, svc.HandleOperatorCommand(ctx, &Inbound{UserID: id, ChatID: id}))
		require.NoError(t, svc.HandleSelection(ctx, &Selection{UserID: id, ChatID: id, MessageID: 1, Token: TokenAdminBookings}))
	}
	require.Empty(t, out.sent)
	require.Empty(t, out.edits)
}

func TestConsoleBookingsSummary(t *testing.T) {
	svc, store, out, _ := newTestService(operatorID)
	ctx := context.Background()

	sel := &Selection{UserID: operatorID, ChatID: operatorID, MessageID: 1, Token: TokenAdminBookings}
	require.NoError(t, svc.HandleSelection(ctx, sel))
	require.Equal(t, "No bookings yet.", out.lastEdit().Text)

	for i := 0; i < 12; i++ {
		require.NoError(t, store.SaveBooking(ctx, &Booking{UserID: 1, Name: "Jane Doe", Phone: "0770", Day: "Monday", Slot: "1 PM"}))
	}
	require.NoError(t, svc.HandleSelection(ctx, sel))
	text := out.lastEdit().Text
	require.Contains(t, text, "Last 10 bookings")
	require.Contains(t, text, "Jane Doe - Monday 1 PM (0770)")
}

func TestConsoleMessagesSummaryTruncates(t *testing.T) {
	svc, store, out, _ := newTestService(operatorID)
	ctx := context.Background()

	long := "this message is deliberately much longer than fifty characters so it gets cut"
	require.NoError(t, store.SaveMessage(ctx, &LogEntry{UserID: 1, Username: "jane", Text: long, Category: CategoryInquiry, Origin: OriginGeneric}))
	require.NoError(t, store.SaveMessage(ctx, &LogEntry{UserID: 2, Text: "short", Category: CategoryGeneral, Origin: OriginGeneric}))

	sel := &Selection{UserID: operatorID, ChatID: operatorID, MessageID: 1, Token: TokenAdminMessages}
	require.NoError(t, svc.HandleSelection(ctx, sel))
	text := out.lastEdit().Text
	require.Contains(t, text, "Last 15 messages")
	require.Contains(t, text, "@jane")
	require.Contains(t, text, "@unknown")
	require.Contains(t, text, "Inquiry")
	require.Contains(t, text, long[:50]+"...")
	require.NotContains(t, text, long)
}

func TestConsoleUserCount(t *testing.T) {
	svc, store, out, _ := newTestService(operatorID)
	ctx := context.Background()

	require.NoError(t, store.SaveState(ctx, 1, "a", nil))
	require.NoError(t, store.SaveState(ctx, 2, "b", nil))

	sel := &Selection{UserID: operatorID, ChatID: operatorID, MessageID: 1, Token: TokenAdminUsers}
	require.NoError(t, svc.HandleSelection(ctx, sel))
	require.Equal(t, "👥 Registered users: 2", out.lastEdit().Text)
}
