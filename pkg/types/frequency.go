package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTypeMismatch is returned when a frequency argument is not an integer.
var ErrTypeMismatch = errors.New("cpufreq: frequency is not an integer")

// Frequency is a CPU frequency in whatever unit the cpufreq driver reports.
// Most drivers use kHz, but the value is never converted or normalized.
type Frequency int64

// String returns the raw kernel value.
func (f Frequency) String() string { return strconv.FormatInt(int64(f), 10) }

// Humanized renders f assuming the common kHz convention (e.g. "2.40 GHz").
// It is for display only.
func (f Frequency) Humanized() string {
	v := float64(f)
	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%.2f GHz", v/1_000_000)
	case f >= 1_000:
		return fmt.Sprintf("%.2f MHz", v/1_000)
	default:
		return fmt.Sprintf("%d kHz", f)
	}
}

// ParseFrequency parses a decimal, non-negative integer frequency.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrTypeMismatch, s)
	}
	return Frequency(v), nil
}

// ParseFrequencies parses a whitespace-separated list such as the content
// of scaling_available_frequencies, preserving order.
func ParseFrequencies(s string) ([]Frequency, error) {
	fields := strings.Fields(s)
	out := make([]Frequency, 0, len(fields))
	for _, field := range fields {
		f, err := ParseFrequency(field)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
