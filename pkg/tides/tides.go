// Package tides turns a day of NOAA water level observations into the
// summary the surf views render: the series itself, its extrema, and
// the optimal surf window.
//
// NOAA only sanctions observed water levels for days it has measured,
// so for other days the series is approximated by shifting the curve 50
// minutes per day of distance, the average daily lag of the lunar tide
// cycle against the solar day. The result is labeled Predicted so the
// caller can present it honestly.
package tides

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wetide/wetide/pkg/noaa"
	"github.com/wetide/wetide/pkg/sunset"
	"github.com/wetide/wetide/pkg/timetricks"
)

// Labels describing how a series was obtained.
const (
	LabelActual    = "Actual"
	LabelPredicted = "Predicted"
	LabelError     = "Error"
	LabelNoData    = "No Data"
)

const (
	// lunarLagPerDay is the approximate daily slip of the tide curve.
	lunarLagPerDay = 50 * time.Minute

	// The water level band considered surfable, meters above MLLW.
	optimalMin = 0.5
	optimalMax = 1.5
)

// Provider fetches a day of water level samples for a station.
type Provider interface {
	GetObservations(ctx context.Context, q *noaa.ObservationQuery) (noaa.Observations, error)
}

// Result is a renderable tide series summary. Min and Max are nil when
// the series is empty; the presentation layer must handle the empty
// shape for every label.
type Result struct {
	Label         string            `json:"label"`
	Observations  noaa.Observations `json:"observations"`
	Min           *noaa.Observation `json:"min,omitempty"`
	Max           *noaa.Observation `json:"max,omitempty"`
	OptimalWindow noaa.Observations `json:"optimal_window"`

	// SunEvents frame the daylight hours of the target date. Optional;
	// filled in by callers that know the station's coordinates.
	SunEvents sunset.SunEvents `json:"sun_events,omitempty"`
}

// Feed derives tide summaries from a provider.
type Feed struct {
	provider Provider
	clock    clockwork.Clock
}

func NewFeed(p Provider) *Feed {
	return &Feed{provider: p, clock: clockwork.NewRealClock()}
}

// NewFeedWithClock injects a clock so tests can pin "today".
func NewFeedWithClock(p Provider, c clockwork.Clock) *Feed {
	return &Feed{provider: p, clock: c}
}

// Today is the feed's notion of the current instant. Callers that
// default a target date must use this so the day-shift computation and
// the default agree on what today is.
func (f *Feed) Today() time.Time {
	return f.clock.Now().UTC()
}

// GetTideSeries fetches and transforms the series for a station and
// date. It never returns an error: fetch and decode failures degrade to
// an empty Result labeled Error, and an empty upstream record to one
// labeled No Data.
func (f *Feed) GetTideSeries(ctx context.Context, stationID string, targetDate time.Time) Result {
	daysAhead := timetricks.DaysBetween(f.clock.Now(), targetDate)

	obs, err := f.provider.GetObservations(ctx, &noaa.ObservationQuery{
		Station: stationID,
		Date:    targetDate,
	})
	if errors.Is(err, noaa.ErrNoData) {
		return Result{Label: LabelNoData, OptimalWindow: noaa.Observations{}}
	}
	if err != nil {
		log.Printf("Failed to fetch tide data for station %s: %v", stationID, err)
		return Result{Label: LabelError, OptimalWindow: noaa.Observations{}}
	}
	if len(obs) == 0 {
		// Every sample was a gap; same renderable shape as no record.
		return Result{Label: LabelNoData, OptimalWindow: noaa.Observations{}}
	}

	shifted := shift(obs, time.Duration(daysAhead)*lunarLagPerDay)

	label := LabelActual
	if daysAhead > 0 {
		label = LabelPredicted
	}

	return summarize(label, shifted)
}

// shift moves every observation forward by d, approximating the curve
// for a day the provider has no record for.
func shift(obs noaa.Observations, d time.Duration) noaa.Observations {
	out := make(noaa.Observations, len(obs))
	for i, o := range obs {
		out[i] = noaa.Observation{
			Time:   noaa.Time(o.T().Add(d)),
			Height: o.Height,
		}
	}
	return out
}

// summarize derives the extrema and optimal window of a non-empty series.
func summarize(label string, obs noaa.Observations) Result {
	min, max := &obs[0], &obs[0]
	window := make(noaa.Observations, 0)
	for i := range obs {
		o := &obs[i]
		if o.Height < min.Height {
			min = o
		}
		if o.Height > max.Height {
			max = o
		}
		if o.Height >= optimalMin && o.Height <= optimalMax {
			window = append(window, *o)
		}
	}
	return Result{
		Label:         label,
		Observations:  obs,
		Min:           min,
		Max:           max,
		OptimalWindow: window,
	}
}
