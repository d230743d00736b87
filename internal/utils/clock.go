package utils

import (
	"fmt"
	"strings"
)

// Schedule times and leg durations are day-relative "HH:MM:SS" values.
// Departure arithmetic wraps at 24:00:00; summed travel durations do
// not wrap and may exceed a day.

const secondsPerDay = 24 * 60 * 60

// ParseClock converts "HH:MM:SS" to seconds.
func ParseClock(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*3600 + m*60 + sec, nil
}

// FormatClock renders seconds as a time of day, wrapping at midnight.
func FormatClock(seconds int) string {
	seconds = ((seconds % secondsPerDay) + secondsPerDay) % secondsPerDay
	return FormatDuration(seconds)
}

// FormatDuration renders seconds as "HH:MM:SS" without wrapping.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// AddClock offsets a time of day by the given durations, wrapping at
// 24:00:00.
func AddClock(base string, durations ...string) (string, error) {
	total, err := ParseClock(base)
	if err != nil {
		return "", err
	}
	for _, d := range durations {
		sec, err := ParseClock(d)
		if err != nil {
			return "", err
		}
		total += sec
	}
	return FormatClock(total), nil
}

// SumDurations adds leg durations without wrapping.
func SumDurations(durations ...string) (string, error) {
	total := 0
	for _, d := range durations {
		sec, err := ParseClock(d)
		if err != nil {
			return "", err
		}
		total += sec
	}
	return FormatDuration(total), nil
}
