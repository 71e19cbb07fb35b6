package repository

import (
	"sort"
	"time"

	"Assemblief/pkg/apperr"
)

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF1m Timeframe = "1m"
	TF5m Timeframe = "5m"
	TF1h Timeframe = "1h"
	TF1d Timeframe = "1d"
	TF1w Timeframe = "1w"
)

var timeframeDurations = map[Timeframe]time.Duration{
	TF1m: time.Minute,
	TF5m: 5 * time.Minute,
	TF1h: time.Hour,
	TF1d: 24 * time.Hour,
	TF1w: 7 * 24 * time.Hour,
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	_, ok := timeframeDurations[tf]
	return ok
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1h }

// SupportedTimeframes returns the sorted list of supported timeframes.
func SupportedTimeframes() []string {
	out := make([]string, 0, len(timeframeDurations))
	for tf := range timeframeDurations {
		out = append(out, string(tf))
	}
	sort.Strings(out)
	return out
}

// ParseTimeframe validates s. An empty string yields the default.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return DefaultTimeframe(), nil
	}
	tf := Timeframe(s)
	if !IsValidTimeframe(tf) {
		return "", apperr.Validationf("Unsupported timeframe '%s'. Supported: %v", s, SupportedTimeframes())
	}
	return tf, nil
}

// Duration returns the bucket length of tf, or zero when unsupported.
func (tf Timeframe) Duration() time.Duration {
	return timeframeDurations[tf]
}
