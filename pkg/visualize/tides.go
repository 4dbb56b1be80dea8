// Package visualize renders a day of tide observations as an SVG the
// presentation layer can embed directly.
package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/wetide/wetide/pkg/noaa"
	"github.com/wetide/wetide/pkg/noaa/splines"
	"github.com/wetide/wetide/pkg/sunset"
	"github.com/wetide/wetide/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// Vertical scale: -1 m to +4 m above MLLW.
	meterFloor = -1.0
	meterSpan  = 5.0

	// The surfable band highlighted on the chart, matching the optimal
	// window derivation.
	bandLow  = 0.5
	bandHigh = 1.5

	sampleStep = 15 * time.Minute
)

type Tidal struct {
	date      time.Time
	obs       noaa.Observations
	sunEvents sunset.SunEvents
}

func NewTidal(obs noaa.Observations, sunEvents sunset.SunEvents) *Tidal {
	return &Tidal{
		obs:       obs,
		sunEvents: sunEvents,
	}
}

func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine.
	sunupIndex, ok := img.sunup(img.date)
	if !ok || sunupIndex+1 >= len(img.sunEvents) {
		return n, fmt.Errorf("not enough sun data")
	}
	sunup := img.sunEvents[sunupIndex]
	sundown := img.sunEvents[sunupIndex+1]
	risex := img.timeToX(sunup.Time)
	setx := img.timeToX(sundown.Time)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Highlight the surfable water level band.
	io(fmt.Fprintf(w, `<rect class="optimal" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(bandHigh),
		width, tideHeightToY(bandLow)-tideHeightToY(bandHigh)+1))

	// Smooth the observations and draw a single filled path.
	if len(img.obs) >= 2 {
		spl := splines.CurvesBetween(img.obs)
		first := img.obs[0].T()
		last := img.obs[len(img.obs)-1].T()

		x0 := img.timeToX(first)
		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x0, height))
		io(fmt.Fprintf(w, `L %d,%d `, x0, tideHeightToY(float64(img.obs[0].Height))))
		for t := first.Add(sampleStep); t.Before(last); t = t.Add(sampleStep) {
			io(fmt.Fprintf(w, `L %d,%d `, img.timeToX(t), tideHeightToY(spl.Eval(t))))
		}
		xn := img.timeToX(last)
		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`,
			xn, tideHeightToY(float64(img.obs[len(img.obs)-1].Height)),
			xn, height))

		// Insert spline data as JSON for client-side readouts.
		io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
		json.NewEncoder(w).Encode(spl)
		io(fmt.Fprintf(w, `</text>`))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func tideHeightToY(h float64) int {
	return height - int((h-meterFloor)*(height/meterSpan))
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
