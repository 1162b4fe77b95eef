package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "hh:mm", raw: "08:30", want: 8*60 + 30},
		{name: "hh:mm:ss drops seconds", raw: "08:30:45", want: 8*60 + 30},
		{name: "midnight", raw: "00:00", want: 0},
		{name: "malformed", raw: "not-a-time", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClock(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:30", formatClock(8*60+30))
	assert.Equal(t, "00:00", formatClock(0))
	assert.Equal(t, "23:59", formatClock(23*60+59))
}

func TestAddMinutes(t *testing.T) {
	got, err := addMinutes("08:30", 45)
	require.NoError(t, err)
	assert.Equal(t, "09:15", got)

	t.Run("wraps past midnight", func(t *testing.T) {
		got, err := addMinutes("23:50", 20)
		require.NoError(t, err)
		assert.Equal(t, "00:10", got)
	})
}

func TestDecodeWeekdays(t *testing.T) {
	t.Run("zero mask defaults to Mon-Fri", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, decodeWeekdays(0))
	})

	t.Run("explicit mask", func(t *testing.T) {
		// bits 0 (Sun) and 6 (Sat) set
		assert.Equal(t, []int{0, 6}, decodeWeekdays(1<<0|1<<6))
	})
}

func TestInBreak(t *testing.T) {
	windows := []breakWindow{
		{Name: "lunch", Days: []int{1, 2, 3, 4, 5}, StartMin: 12 * 60, EndMin: 13 * 60},
	}

	assert.True(t, inBreak(windows, 1, 12*60))
	assert.True(t, inBreak(windows, 1, 12*60+30))
	assert.False(t, inBreak(windows, 1, 13*60), "end of window is half-open, not included")
	assert.False(t, inBreak(windows, 0, 12*60+30), "day not in window")
}

func TestContainsDay(t *testing.T) {
	assert.True(t, containsDay([]int{1, 3, 5}, 3))
	assert.False(t, containsDay([]int{1, 3, 5}, 2))
	assert.False(t, containsDay(nil, 1))
}
