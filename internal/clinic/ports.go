package clinic

import (
	"context"
	"time"
)

// Category tags a logged message with the request flow it belongs to.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryInquiry       Category = "inquiry"
	CategoryDietEdit      Category = "diet_edit"
	CategoryAnalysis      Category = "analysis"
	CategoryMedicalDiet   Category = "medical_diet"
	CategoryDailyFollowup Category = "daily_followup"
)

// Origin says whether a log entry was written before or after the state
// machine resolved the message's category. Category flows log twice, once
// per origin; downstream log analytics rely on both rows being present.
type Origin string

const (
	OriginGeneric  Origin = "generic"
	OriginResolved Origin = "resolved"
)

// Session is the per-user record. A nil State means the user is idle and the
// next free-text message carries no special meaning.
type Session struct {
	UserID         int64
	Username       string
	State          *State
	LastActivityAt time.Time
}

// Booking is immutable once written. Day and Slot are display labels, not a
// capacity-limited resource: double-booking is accepted.
type Booking struct {
	ID        int64
	UserID    int64
	Name      string
	Phone     string
	Day       string
	Slot      string
	CreatedAt time.Time
}

// LogEntry is one row of the append-only message log.
type LogEntry struct {
	ID        int64
	UserID    int64
	Username  string
	Text      string
	Category  Category
	Origin    Origin
	CreatedAt time.Time
}

// Selection is a button tap: an opaque token plus the message it came from,
// so the reply can edit that message in place.
type Selection struct {
	UserID    int64
	ChatID    int64
	MessageID int
	Username  string
	Token     string
}

// Inbound is a free-text message.
type Inbound struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
}

// Option is one selectable row attached to an outbound message.
type Option struct {
	Label string
	Token string
}

// Store — persistence; owns sessions, bookings and the message log.
type Store interface {
	SaveState(ctx context.Context, userID int64, username string, st *State) error
	GetState(ctx context.Context, userID int64) (*State, error)
	ClearState(ctx context.Context, userID int64) error
	Touch(ctx context.Context, userID int64) error
	SaveBooking(ctx context.Context, b *Booking) error
	SaveMessage(ctx context.Context, e *LogEntry) error
	RecentBookings(ctx context.Context, limit int) ([]Booking, error)
	RecentMessages(ctx context.Context, limit int) ([]LogEntry, error)
	CountUsers(ctx context.Context) (int64, error)
}

// Outbound — the chat transport.
type Outbound interface {
	SendMessage(ctx context.Context, chatID int64, text string, options []Option) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, options []Option) error
}

// Notifier — best-effort fan-out to the operator. Never blocks the caller;
// delivery failures are the adapter's problem, not the state machine's.
type Notifier interface {
	NotifyOperator(text string)
}

// Service — orchestration.
type Service interface {
	HandleStart(ctx context.Context, in *Inbound) error
	HandleSelection(ctx context.Context, sel *Selection) error
	HandleText(ctx context.Context, in *Inbound) error
	HandleOperatorCommand(ctx context.Context, in *Inbound) error
}
