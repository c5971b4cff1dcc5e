package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"noon fraction", 0.5, "12:00"},
		{"morning fraction", 0.375, "09:00"},
		{"evening fraction", 0.75, "18:00"},
		{"fraction as text", "0.5", "12:00"},
		{"float32 fraction", float32(0.25), "06:00"},
		{"single digit hour", "9:05", "09:05"},
		{"seconds dropped", "09:05:30", "09:05"},
		{"late evening", "23:59", "23:59"},
		{"padded input", "  7:30 ", "07:30"},
		{"lower am", "9:30 am", "09:30"},
		{"upper pm", "9:30 PM", "21:30"},
		{"pm with seconds", "5:45:10 pm", "17:45"},
		{"midnight am", "12:15:20 am", "00:15"},
		{"time value", time.Date(2024, 4, 13, 7, 45, 12, 0, time.UTC), "07:45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTime(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseTime_Unreadable(t *testing.T) {
	for _, in := range []any{nil, "", "   ", "-", 0.0, 1.0, 1.5, -0.2, "12", "24:00", "9:60", "late", true, 3} {
		assert.Nil(t, ParseTime(in), "%v", in)
	}
}

func TestParseTime_EveryMinuteFraction(t *testing.T) {
	for m := 1; m < 1440; m++ {
		got := ParseTime(float64(m) / 1440)
		require.NotNil(t, got, "minute %d", m)

		minutes, ok := minutesOfDay(*got)
		require.True(t, ok)
		assert.Equal(t, m, minutes)
	}
}

func TestParseTime_Idempotent(t *testing.T) {
	for _, in := range []string{"0:00", "9:05", "12:30", "23:59", "6:15:59", "11:00 pm"} {
		first := ParseTime(in)
		require.NotNil(t, first, in)

		second := ParseTime(*first)
		require.NotNil(t, second, in)
		assert.Equal(t, *first, *second)
	}
}
