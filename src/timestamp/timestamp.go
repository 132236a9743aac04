// Package timestamp converts API timestamps to a fixed display timezone.
package timestamp

import (
	"errors"
	"time"

	// Embedded zone database so conversions do not depend on the host.
	_ "time/tzdata"

	"circle-stats/src/provider"
)

const (
	// DefaultZone is the timezone build start times are reported in.
	DefaultZone = "America/New_York"

	// DisplayLayout is the rendered form, e.g. 2023-03-15 10:30:00.
	DisplayLayout = "2006-01-02 15:04:05"
)

// Normalizer renders ISO-8601 timestamps in a single target location.
type Normalizer struct {
	loc *time.Location
}

// New creates a Normalizer for the named IANA zone.
func New(zone string) (*Normalizer, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &provider.ConfigError{Setting: "timezone", Reason: err.Error()}
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the target location.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize parses a UTC or offset-bearing RFC 3339 timestamp, with or without
// fractional seconds, and formats it in the target zone.
func (n *Normalizer) Normalize(iso string) (string, error) {
	if iso == "" {
		return "", &provider.ParseError{What: "timestamp", Err: errors.New("empty value")}
	}

	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return "", &provider.ParseError{What: "timestamp", Input: iso, Err: err}
	}

	return t.In(n.loc).Format(DisplayLayout), nil
}
