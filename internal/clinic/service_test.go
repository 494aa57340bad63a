package clinic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory Store for exercising the state machine without a
// database.
type memStore struct {
	mu       sync.Mutex
	states   map[int64]*State
	users    map[int64]bool
	bookings []Booking
	messages []LogEntry
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{states: make(map[int64]*State), users: make(map[int64]bool)}
}

func (m *memStore) SaveState(_ context.Context, userID int64, _ string, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = true
	if st == nil {
		m.states[userID] = nil
		return nil
	}
	cp := *st
	m.states[userID] = &cp
	return nil
}

func (m *memStore) GetState(_ context.Context, userID int64) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[userID]
	if st == nil {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) ClearState(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = nil
	return nil
}

func (m *memStore) Touch(context.Context, int64) error { return nil }

func (m *memStore) SaveBooking(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *b
	cp.ID = m.nextID
	m.bookings = append(m.bookings, cp)
	return nil
}

func (m *memStore) SaveMessage(_ context.Context, e *LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *e
	cp.ID = m.nextID
	m.messages = append(m.messages, cp)
	return nil
}

func (m *memStore) RecentBookings(_ context.Context, limit int) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for i := len(m.bookings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.bookings[i])
	}
	return out, nil
}

func (m *memStore) RecentMessages(_ context.Context, limit int) ([]LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.messages[i])
	}
	return out, nil
}

func (m *memStore) CountUsers(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type outboundMsg struct {
	ChatID    int64
	MessageID int
	Text      string
	Options   []Option
}

type fakeOutbound struct {
	mu     sync.Mutex
	sent   []outboundMsg
	edits  []outboundMsg
	nextID int
	fail   bool
}

func (f *fakeOutbound) SendMessage(_ context.Context, chatID int64, text string, options []Option) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("send failed")
	}
	f.nextID++
	f.sent = append(f.sent, outboundMsg{ChatID: chatID, MessageID: f.nextID, Text: text, Options: options})
	return f.nextID, nil
}

func (f *fakeOutbound) EditMessage(_ context.Context, chatID int64, messageID int, text string, options []Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("edit failed")
	}
	f.edits = append(f.edits, outboundMsg{ChatID: chatID, MessageID: messageID, Text: text, Options: options})
	return nil
}

func (f *fakeOutbound) lastSent() outboundMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeOutbound) lastEdit() outboundMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edits[len(f.edits)-1]
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeNotifier) NotifyOperator(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func newTestService(operatorID int64) (Service, *memStore, *fakeOutbound, *fakeNotifier) {
	store := newMemStore()
	out := &fakeOutbound{}
	notifier := &fakeNotifier{}
	svc := NewService(store, out, notifier, operatorID, zap.NewNop())
	return svc, store, out, notifier
}

func TestStartSendsWelcomeAndLeavesIdle(t *testing.T) {
	svc, store, out, _ := newTestService(0)
	ctx := context.Background()

	err := svc.HandleStart(ctx, &Inbound{UserID: 1, ChatID: 1, Username: "jane"})
	require.NoError(t, err)

	st, err := store.GetState(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, st)

	require.Len(t, out.sent, 1)
	msg := out.lastSent()
	require.Equal(t, welcomeText, msg.Text)
	require.Equal(t, []Option{{Label: "➡️ Start", Token: TokenShowMenu}}, msg.Options)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestBookingFlowIsThreeStrictSteps(t *testing.T) {
	svc, store, out, notifier := newTestService(0)
	ctx := context.Background()

	err := svc.HandleSelection(ctx, &Selection{UserID: 7, ChatID: 7, MessageID: 10, Token: "time_Monday_1 PM"})
	require.NoError(t, err)
	st, err := store.GetState(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, &State{Kind: KindWaitingName, Day: "Monday", Slot: "1 PM"}, st)
	require.Equal(t, namePromptText, out.lastEdit().Text)

	err = svc.HandleText(ctx, &Inbound{UserID: 7, ChatID: 7, Username: "jane", Text: "Jane Doe"})
	require.NoError(t, err)
	st, err = store.GetState(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, &State{Kind: KindWaitingPhone, Day: "Monday", Slot: "1 PM", Name: "Jane Doe"}, st)
	require.Equal(t, phonePromptText, out.lastSent().Text)

	err = svc.HandleText(ctx, &Inbound{UserID: 7, ChatID: 7, Username: "jane", Text: "07701234567"})
	require.NoError(t, err)

	st, err = store.GetState(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, st)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	require.Equal(t, "Jane Doe", b.Name)
	require.Equal(t, "07701234567", b.Phone)
	require.Equal(t, "Monday", b.Day)
	require.Equal(t, "1 PM", b.Slot)

	// Confirmation then menu redisplay.
	require.Equal(t, mainMenuText, out.lastSent().Text)
	require.Contains(t, out.sent[len(out.sent)-2].Text, "Monday")

	// Two generic copies plus the booking notice.
	require.Len(t, notifier.texts, 3)
	require.Contains(t, notifier.texts[2], "New booking")
	require.Contains(t, notifier.texts[2], "Jane Doe")
}

func TestIdleFreeTextNeverBooksOrTransitions(t *testing.T) {
	svc, store, _, notifier := newTestService(0)
	ctx := context.Background()

	err := svc.HandleText(ctx, &Inbound{UserID: 3, ChatID: 3, Username: "sam", Text: "hello?"})
	require.NoError(t, err)

	st, err := store.GetState(ctx, 3)
	require.NoError(t, err)
	require.Nil(t, st)
	require.Empty(t, store.bookings)

	require.Len(t, store.messages, 1)
	require.Equal(t, CategoryGeneral, store.messages[0].Category)
	require.Equal(t, OriginGeneric, store.messages[0].Origin)

	require.Len(t, notifier.texts, 1)
	require.Contains(t, notifier.texts[0], "hello?")
}

func TestFAQLookupIsTotal(t *testing.T) {
	svc, store, out, _ := newTestService(0)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4"} {
		err := svc.HandleSelection(ctx, &Selection{UserID: 5, ChatID: 5, MessageID: 1, Token: "faq_" + id})
		require.NoError(t, err)
		require.Equal(t, faqAnswers[id], out.lastEdit().Text)
	}

	for _, token := range []string{"faq_0", "faq_5", "faq_99", "faq_x"} {
		err := svc.HandleSelection(ctx, &Selection{UserID: 5, ChatID: 5, MessageID: 1, Token: token})
		require.NoError(t, err)
		require.Equal(t, faqNotFoundText, out.lastEdit().Text)
	}

	st, err := store.GetState(ctx, 5)
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestCategoryFlowsAreStructurallyIdentical(t *testing.T) {
	cases := []struct {
		token    string
		category Category
		kind     Kind
	}{
		{TokenAsk, CategoryInquiry, KindWaitingInquiry},
		{TokenEditDiet, CategoryDietEdit, KindWaitingDietEdit},
		{TokenAnalysis, CategoryAnalysis, KindWaitingAnalysis},
		{TokenMedicalDiet, CategoryMedicalDiet, KindWaitingMedicalDiet},
		{TokenDailyFollowup, CategoryDailyFollowup, KindWaitingDailyFollowup},
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			svc, store, out, notifier := newTestService(0)
			ctx := context.Background()

			err := svc.HandleSelection(ctx, &Selection{UserID: 9, ChatID: 9, MessageID: 2, Token: tc.token})
			require.NoError(t, err)
			st, err := store.GetState(ctx, 9)
			require.NoError(t, err)
			require.Equal(t, tc.kind, st.Kind)
			require.Equal(t, categoryPrompts[tc.category], out.lastEdit().Text)

			err = svc.HandleText(ctx, &Inbound{UserID: 9, ChatID: 9, Username: "sam", Text: "details here"})
			require.NoError(t, err)

			require.Len(t, store.messages, 2)
			require.Equal(t, tc.category, store.messages[0].Category)
			require.Equal(t, OriginGeneric, store.messages[0].Origin)
			require.Equal(t, tc.category, store.messages[1].Category)
			require.Equal(t, OriginResolved, store.messages[1].Origin)

			st, err = store.GetState(ctx, 9)
			require.NoError(t, err)
			require.Nil(t, st)

			require.Equal(t, mainMenuText, out.lastSent().Text)
			require.Len(t, notifier.texts, 2)
			require.Contains(t, notifier.texts[1], categoryNotices[tc.category])
		})
	}
}

// Two near-simultaneous texts while waiting for a name must be serialized:
// one becomes the name and the other the phone, never two diverging states.
func TestSameUserEventsAreSerialized(t *testing.T) {
	svc, store, _, _ := newTestService(0)
	ctx := context.Background()

	err := svc.HandleSelection(ctx, &Selection{UserID: 4, ChatID: 4, MessageID: 1, Token: "time_Sunday_3 PM"})
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, text := range []string{"Jane Doe", "07701234567"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			errs <- svc.HandleText(ctx, &Inbound{UserID: 4, ChatID: 4, Text: text})
		}(text)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	require.ElementsMatch(t, []string{"Jane Doe", "07701234567"}, []string{b.Name, b.Phone})

	st, err := store.GetState(ctx, 4)
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestUsersAreIndependent(t *testing.T) {
	svc, store, _, _ := newTestService(0)
	ctx := context.Background()

	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			sel := &Selection{UserID: userID, ChatID: userID, MessageID: 1, Token: fmt.Sprintf("time_Monday_%d PM", userID)}
			errs <- svc.HandleSelection(ctx, sel)
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := 1; i <= 20; i++ {
		st, err := store.GetState(ctx, int64(i))
		require.NoError(t, err)
		require.Equal(t, KindWaitingName, st.Kind)
		require.Equal(t, fmt.Sprintf("%d PM", i), st.Slot)
	}
}

func TestUnknownTokenIsIgnored(t *testing.T) {
	svc, store, out, _ := newTestService(0)
	ctx := context.Background()

	err := svc.HandleSelection(ctx, &Selection{UserID: 2, ChatID: 2, MessageID: 1, Token: "definitely_not_a_token"})
	require.NoError(t, err)
	require.Empty(t, out.edits)
	require.Empty(t, out.sent)

	st, err := store.GetState(ctx, 2)
	require.NoError(t, err)
	require.Nil(t, st)
}

// Transport failures degrade to silence; they never abort the transition.
func TestTransportFailureStillTransitions(t *testing.T) {
	svc, store, out, _ := newTestService(0)
	ctx := context.Background()

	out.fail = true
	err := svc.HandleSelection(ctx, &Selection{UserID: 8, ChatID: 8, MessageID: 1, Token: TokenAsk})
	require.NoError(t, err)

	st, err := store.GetState(ctx, 8)
	require.NoError(t, err)
	require.Equal(t, KindWaitingInquiry, st.Kind)
}
