package clinic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateCategory(t *testing.T) {
	var idle *State
	require.Equal(t, CategoryGeneral, idle.Category())
	require.Equal(t, CategoryGeneral, WaitingName("Monday", "1 PM").Category())
	require.Equal(t, CategoryGeneral, WaitingPhone("Monday", "1 PM", "Jane").Category())

	for c := range categoryKinds {
		require.Equal(t, c, WaitingCategory(c).Category())
	}
}

func TestWaitingCategoryRejectsGeneral(t *testing.T) {
	require.Panics(t, func() { WaitingCategory(CategoryGeneral) })
}

// The slot token format splits on underscores, so labels must not carry any.
func TestSlotLabelsAreTokenSafe(t *testing.T) {
	for _, d := range BookingDays {
		require.NotContains(t, d, "_")
	}
	for _, s := range BookingSlots {
		require.NotContains(t, s, "_")
	}
}
