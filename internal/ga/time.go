package ga

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// parseClock converts an "HH:MM" or "HH:MM:SS" string into minutes since
// midnight. Seconds, when present, are dropped rather than rounded.
func parseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("ga: invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("ga: invalid clock hour %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("ga: invalid clock minute %q: %w", raw, err)
	}
	return hour*60 + minute, nil
}

// formatClock renders minutes-since-midnight back to "HH:MM", wrapping at 24h.
func formatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// addMinutes advances a clock string by the given number of minutes with
// 24h wraparound.
func addMinutes(raw string, delta int) (string, error) {
	base, err := parseClock(raw)
	if err != nil {
		return "", err
	}
	return formatClock(base + delta), nil
}

// decodeWeekdays expands a bitmask (bit i => weekday i, 0=Sunday..6=Saturday)
// into a sorted slice of weekday indices. An empty mask defaults to the
// conventional Monday-Friday school week (bits 1-5, mask value 62).
func decodeWeekdays(bitmask int) []int {
	var days []int
	for i := 0; i < 7; i++ {
		if bitmask&(1<<uint(i)) != 0 {
			days = append(days, i)
		}
	}
	if len(days) == 0 {
		return []int{1, 2, 3, 4, 5}
	}
	return days
}

// breakWindow is a named interval during which no period may be scheduled.
type breakWindow struct {
	Name      string
	Days      []int
	StartMin  int
	EndMin    int
}

// inBreak reports whether the clock minute m, on weekday day, falls inside
// any of the supplied break windows. The interval is half-open: a period
// starting exactly at a break's end time is not considered in-break.
func inBreak(windows []breakWindow, day, m int) bool {
	for _, w := range windows {
		if !containsDay(w.Days, day) {
			continue
		}
		if m >= w.StartMin && m < w.EndMin {
			return true
		}
	}
	return false
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
