package noaa

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const obsTimeFormat = "2006-01-02 15:04"

// Observation holds a single water level sample.
type Observation struct {
	// GMT time of the sample
	Time Time `json:"t"`
	// Height in meters above MLLW
	Height Height `json:"v"`
}

// Verify the custom types can be marshaled both ways
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Height)
var _ json.Marshaler = Time{}
var _ json.Marshaler = Height(0)

// Observations is a time series of Observation.
type Observations []Observation

// NOAAResult is the data type returned by the NOAA API. A nil Data field
// means the API had nothing for the requested station and day.
type NOAAResult struct {
	Data *Observations `json:"data"`
}

// ObservationQuery requests one day of water level samples at a station;
// see Client.GetObservations.
type ObservationQuery struct {
	Station string
	Date    time.Time
}

type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("observation time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(obsTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("observation time %q not in fmt %q: %w", s, obsTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

// MarshalJSON writes the time back in the wire format, so a served
// observation decodes with the same unmarshaler that parsed it.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(obsTimeFormat))
}

type Height float64

// UnmarshalJSON parses the string-encoded water level. An empty string,
// which the API emits for gaps in the record, becomes NaN so the sample
// can be filtered without failing the whole decode.
func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w", buf, err)
	}
	if s == "" {
		*h = Height(math.NaN())
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	*h = Height(parsed)
	return nil
}

// MarshalJSON writes the water level back as a string, gaps included.
func (h Height) MarshalJSON() ([]byte, error) {
	if !h.Valid() {
		return json.Marshal("")
	}
	return json.Marshal(strconv.FormatFloat(float64(h), 'f', -1, 64))
}

// Valid reports whether the sample carried a real water level.
func (h Height) Valid() bool {
	return !math.IsNaN(float64(h))
}

// T casts away the NOAA time type.
func (o Observation) T() time.Time {
	return time.Time(o.Time)
}

func (o Observation) String() string {
	return fmt.Sprintf("{t: %s, v: %f}",
		time.Time(o.Time).Format(time.RFC822),
		float64(o.Height))
}
