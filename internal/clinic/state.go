package clinic

// Kind discriminates the conversation state union.
type Kind string

const (
	KindWaitingInquiry       Kind = "waiting_inquiry"
	KindWaitingDietEdit      Kind = "waiting_diet_edit"
	KindWaitingAnalysis      Kind = "waiting_analysis"
	KindWaitingMedicalDiet   Kind = "waiting_medical_diet"
	KindWaitingDailyFollowup Kind = "waiting_daily_followup"
	KindWaitingName          Kind = "waiting_name"
	KindWaitingPhone         Kind = "waiting_phone"
)

// State is the persisted conversation state; nil means idle. Day and Slot are
// set only for the booking kinds, Name only once the name step is done.
type State struct {
	Kind Kind
	Day  string
	Slot string
	Name string
}

var categoryKinds = map[Category]Kind{
	CategoryInquiry:       KindWaitingInquiry,
	CategoryDietEdit:      KindWaitingDietEdit,
	CategoryAnalysis:      KindWaitingAnalysis,
	CategoryMedicalDiet:   KindWaitingMedicalDiet,
	CategoryDailyFollowup: KindWaitingDailyFollowup,
}

// WaitingCategory returns the state expecting one free-text message for the
// given category. Panics on CategoryGeneral, which has no waiting state.
func WaitingCategory(c Category) *State {
	kind, ok := categoryKinds[c]
	if !ok {
		panic("clinic: no waiting state for category " + string(c))
	}
	return &State{Kind: kind}
}

// WaitingName is the state after a slot selection: the next message is the
// visitor's full name.
func WaitingName(day, slot string) *State {
	return &State{Kind: KindWaitingName, Day: day, Slot: slot}
}

// WaitingPhone is the terminal booking step: the next message is the phone
// number and completes the booking.
func WaitingPhone(day, slot, name string) *State {
	return &State{Kind: KindWaitingPhone, Day: day, Slot: slot, Name: name}
}

// Category reports the log category the state implies for an incoming text.
// The booking steps and idle both imply the general category.
func (s *State) Category() Category {
	if s == nil {
		return CategoryGeneral
	}
	switch s.Kind {
	case KindWaitingInquiry:
		return CategoryInquiry
	case KindWaitingDietEdit:
		return CategoryDietEdit
	case KindWaitingAnalysis:
		return CategoryAnalysis
	case KindWaitingMedicalDiet:
		return CategoryMedicalDiet
	case KindWaitingDailyFollowup:
		return CategoryDailyFollowup
	default:
		return CategoryGeneral
	}
}
