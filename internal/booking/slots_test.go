package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableSlots(t *testing.T) {
	tests := []struct {
		name       string
		hoursEntry string
		claimed    []string
		want       []string
	}{
		{
			name:       "closed day yields no slots",
			hoursEntry: "Closed",
			claimed:    nil,
			want:       []string{},
		},
		{
			name:       "closed is case-insensitive",
			hoursEntry: "closed",
			claimed:    []string{"10:00 AM"},
			want:       []string{},
		},
		{
			name:       "missing weekday entry defaults to full template",
			hoursEntry: "",
			claimed:    nil,
			want:       SlotTemplate,
		},
		{
			name:       "unparseable hours default to full template",
			hoursEntry: "by appointment",
			claimed:    nil,
			want:       SlotTemplate,
		},
		{
			name:       "full day with one confirmed booking",
			hoursEntry: "09:00 AM - 06:00 PM",
			claimed:    []string{"10:00 AM"},
			want: []string{
				"09:00 AM", "11:00 AM", "12:00 PM", "01:00 PM", "02:00 PM",
				"03:00 PM", "04:00 PM", "05:00 PM", "06:00 PM",
			},
		},
		{
			name:       "hours trim the template",
			hoursEntry: "10:00 AM - 02:00 PM",
			claimed:    nil,
			want:       []string{"10:00 AM", "11:00 AM", "12:00 PM", "01:00 PM", "02:00 PM"},
		},
		{
			name:       "claimed slots removed in template order",
			hoursEntry: "09:00 AM - 06:00 PM",
			claimed:    []string{"05:00 PM", "09:00 AM", "12:00 PM"},
			want: []string{
				"10:00 AM", "11:00 AM", "01:00 PM", "02:00 PM",
				"03:00 PM", "04:00 PM", "06:00 PM",
			},
		},
		{
			name:       "claimed slot outside template is ignored",
			hoursEntry: "10:00 AM - 11:00 AM",
			claimed:    []string{"07:00 AM"},
			want:       []string{"10:00 AM", "11:00 AM"},
		},
		{
			name:       "fully claimed day",
			hoursEntry: "",
			claimed:    SlotTemplate,
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(tt.hoursEntry, tt.claimed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableSlotsRoundTrip(t *testing.T) {
	// Booking the first reported slot must remove it from the next read.
	free := AvailableSlots("09:00 AM - 06:00 PM", nil)
	require.NotEmpty(t, free)

	first := free[0]
	after := AvailableSlots("09:00 AM - 06:00 PM", []string{first})

	assert.NotContains(t, after, first)
	assert.Equal(t, free[1:], after)
}

func TestSlotTemplateHasTenHourlySlots(t *testing.T) {
	require.Len(t, SlotTemplate, 10)
	assert.Equal(t, "09:00 AM", SlotTemplate[0])
	assert.Equal(t, "06:00 PM", SlotTemplate[len(SlotTemplate)-1])
}

func TestIsTemplateSlot(t *testing.T) {
	assert.True(t, IsTemplateSlot("10:00 AM"))
	assert.False(t, IsTemplateSlot("10:30 AM"))
	assert.False(t, IsTemplateSlot("07:00 AM"))
}
