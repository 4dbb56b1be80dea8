// Package noaa implements queries to NOAA CO-OPS to retrieve water level
// data. Observations are requested as a one-day time series per station
// (see ObservationQuery). A successful query returns a list of samples
// with time and height in meters relative to MLLW. All times are GMT.
package noaa
