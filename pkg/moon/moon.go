// Package moon estimates the lunar phase for an instant by counting
// elapsed synodic months since a reference new moon. It is a linear
// approximation good enough to tell surfers whether to expect spring or
// neap tides, not an ephemeris.
package moon

import (
	"math"
	"time"
)

// epoch is 2000-01-06, a known new moon.
var epoch = time.Date(2000, time.January, 6, 0, 0, 0, 0, time.UTC)

// lunationDays is the synodic month length.
const lunationDays = 29.53058867

// Phase names.
const (
	NewMoon        = "New Moon"
	FirstQuarter   = "First Quarter"
	FullMoon       = "Full Moon"
	LastQuarter    = "Last Quarter"
	WaxingOrWaning = "Waxing or Waning"
)

var descriptions = map[string]string{
	NewMoon:        "Spring tides: expect a large tidal range.",
	FirstQuarter:   "Neap tides: moderate tidal range.",
	FullMoon:       "Spring tides: expect a large tidal range.",
	LastQuarter:    "Neap tides: moderate tidal range.",
	WaxingOrWaning: "Tidal range is gradually changing.",
}

// Phase describes the moon at an instant.
type Phase struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Index       float64 `json:"index"` // position in the cycle, [0, 1)
}

// PhaseAt computes the phase for the given instant. Instants without an
// explicit zone are treated as UTC by time.Time semantics; the instant
// is normalized to UTC before the day count.
func PhaseAt(instant time.Time) Phase {
	daysElapsed := int(instant.UTC().Sub(epoch).Hours() / 24)
	idx := math.Mod(float64(daysElapsed), lunationDays) / lunationDays
	if idx < 0 {
		idx += 1
	}

	name := WaxingOrWaning
	switch {
	case idx < 0.03 || idx > 0.97:
		name = NewMoon
	case idx > 0.22 && idx < 0.28:
		name = FirstQuarter
	case idx > 0.47 && idx < 0.53:
		name = FullMoon
	case idx > 0.72 && idx < 0.78:
		name = LastQuarter
	}

	return Phase{
		Name:        name,
		Description: descriptions[name],
		Index:       idx,
	}
}
