package tides

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/wetide/wetide/pkg/noaa"
)

// fakeProvider returns a canned series or error.
type fakeProvider struct {
	obs noaa.Observations
	err error

	gotQuery *noaa.ObservationQuery
}

func (f *fakeProvider) GetObservations(ctx context.Context, q *noaa.ObservationQuery) (noaa.Observations, error) {
	f.gotQuery = q
	return f.obs, f.err
}

var today = time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

func series(heights ...float64) noaa.Observations {
	obs := make(noaa.Observations, len(heights))
	for i, h := range heights {
		obs[i] = noaa.Observation{
			Time:   noaa.Time(time.Date(2024, time.June, 1, i, 0, 0, 0, time.UTC)),
			Height: noaa.Height(h),
		}
	}
	return obs
}

func newTestFeed(p Provider) *Feed {
	return NewFeedWithClock(p, clockwork.NewFakeClockAt(today))
}

func TestSameDayPassesThrough(t *testing.T) {
	p := &fakeProvider{obs: series(0.3, 0.8, 1.2)}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if got.Label != LabelActual {
		t.Errorf("label = %q, want %q", got.Label, LabelActual)
	}
	for i := range got.Observations {
		if !got.Observations[i].T().Equal(p.obs[i].T()) {
			t.Errorf("observation %d shifted: %s != %s",
				i, got.Observations[i].T(), p.obs[i].T())
		}
	}
}

func TestFutureDayShiftsFiftyMinutesPerDay(t *testing.T) {
	p := &fakeProvider{obs: series(0.3, 0.8, 1.2)}
	target := today.Add(2 * 24 * time.Hour)
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", target)

	if got.Label != LabelPredicted {
		t.Errorf("label = %q, want %q", got.Label, LabelPredicted)
	}
	for i := range got.Observations {
		want := p.obs[i].T().Add(100 * time.Minute)
		if !got.Observations[i].T().Equal(want) {
			t.Errorf("observation %d at %s, want %s",
				i, got.Observations[i].T(), want)
		}
	}
}

func TestPastDayShiftsBackwardAndStaysActual(t *testing.T) {
	p := &fakeProvider{obs: series(0.3, 0.8)}
	target := today.Add(-24 * time.Hour)
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", target)

	if got.Label != LabelActual {
		t.Errorf("label = %q, want %q", got.Label, LabelActual)
	}
	want := p.obs[0].T().Add(-50 * time.Minute)
	if !got.Observations[0].T().Equal(want) {
		t.Errorf("observation at %s, want %s", got.Observations[0].T(), want)
	}
}

func TestOptimalWindow(t *testing.T) {
	p := &fakeProvider{obs: series(0.3, 0.8, 1.2, 1.6)}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	var heights []float64
	for _, o := range got.OptimalWindow {
		heights = append(heights, float64(o.Height))
	}
	if diff := cmp.Diff([]float64{0.8, 1.2}, heights); diff != "" {
		t.Errorf("optimal window (-want,+got): %s", diff)
	}
}

func TestOptimalWindowBoundsInclusive(t *testing.T) {
	p := &fakeProvider{obs: series(0.5, 1.5, 0.499, 1.501)}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if len(got.OptimalWindow) != 2 {
		t.Fatalf("window has %d entries, want 2: %v", len(got.OptimalWindow), got.OptimalWindow)
	}
	if got.OptimalWindow[0].Height != 0.5 || got.OptimalWindow[1].Height != 1.5 {
		t.Errorf("window bounds not inclusive: %v", got.OptimalWindow)
	}
}

func TestExtrema(t *testing.T) {
	p := &fakeProvider{obs: series(0.9, 0.2, 1.7, 1.1)}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if got.Min == nil || got.Min.Height != 0.2 {
		t.Errorf("min = %v, want 0.2", got.Min)
	}
	if got.Max == nil || got.Max.Height != 1.7 {
		t.Errorf("max = %v, want 1.7", got.Max)
	}
}

func TestTransportFailureDegradesToError(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if got.Label != LabelError {
		t.Errorf("label = %q, want %q", got.Label, LabelError)
	}
	if len(got.Observations) != 0 || got.Min != nil || got.Max != nil || len(got.OptimalWindow) != 0 {
		t.Errorf("error result not empty: %+v", got)
	}
}

func TestNoUpstreamRecord(t *testing.T) {
	p := &fakeProvider{err: noaa.ErrNoData}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if got.Label != LabelNoData {
		t.Errorf("label = %q, want %q", got.Label, LabelNoData)
	}
	if got.Min != nil || got.Max != nil {
		t.Errorf("no-data result has extrema: %+v", got)
	}
}

func TestAllSamplesFiltered(t *testing.T) {
	p := &fakeProvider{obs: noaa.Observations{}}
	got := newTestFeed(p).GetTideSeries(context.Background(), "9414290", today)

	if got.Label != LabelNoData {
		t.Errorf("label = %q, want %q", got.Label, LabelNoData)
	}
}

func TestQueryCarriesStationAndDate(t *testing.T) {
	p := &fakeProvider{obs: series(1.0)}
	target := today.Add(3 * 24 * time.Hour)
	newTestFeed(p).GetTideSeries(context.Background(), "9413745", target)

	if p.gotQuery.Station != "9413745" {
		t.Errorf("station = %q, want 9413745", p.gotQuery.Station)
	}
	if !p.gotQuery.Date.Equal(target) {
		t.Errorf("date = %s, want %s", p.gotQuery.Date, target)
	}
}
