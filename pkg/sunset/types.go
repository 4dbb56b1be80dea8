package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// At builds a Place for arbitrary coordinates. A nil location defaults
// to UTC, which matches the GMT convention of the tide series.
func At(lat, long float64, loc *time.Location) Place {
	if loc == nil {
		loc = time.UTC
	}
	return Place{Lat: lat, Long: long, Location: loc}
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time `json:"time"`
	Event Event     `json:"event"`
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s",
		s.Time.Format(time.RFC822),
		func() string {
			if s.Event == Sunrise {
				return "Sunrise"
			} else {
				return "Sunset"
			}
		}())
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset        = false
)
