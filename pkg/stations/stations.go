// Package stations holds the NOAA water level station catalog and a
// nearest-station lookup by great-circle distance.
package stations

import (
	"math"
)

// earthRadiusKm for the haversine formula.
const earthRadiusKm = 6371.0

// Station is one NOAA water level station.
type Station struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// catalog is reference data, initialized once and never mutated.
var catalog = []Station{
	{"9410170", "San Diego, CA", 32.7142, -117.1736},
	{"9410230", "La Jolla, CA", 32.8669, -117.2571},
	{"9410660", "Los Angeles, CA", 33.7199, -118.2726},
	{"9410840", "Santa Monica, CA", 34.0083, -118.5000},
	{"9411340", "Santa Barbara, CA", 34.4046, -119.6925},
	{"9412110", "Port San Luis, CA", 35.1688, -120.7542},
	{"9413450", "Monterey, CA", 36.6050, -121.8881},
	{"9413745", "Santa Cruz, CA", 36.9581, -122.0172},
	{"9414290", "San Francisco, CA", 37.8063, -122.4659},
	{"9414750", "Alameda, CA", 37.7717, -122.3000},
	{"9415020", "Point Reyes, CA", 37.9961, -122.9767},
	{"9416841", "Arena Cove, CA", 38.9146, -123.7111},
	{"9418767", "North Spit, CA", 40.7663, -124.2172},
	{"9419750", "Crescent City, CA", 41.7450, -124.1844},
	{"9432780", "Charleston, OR", 43.3450, -124.3220},
	{"9435380", "South Beach, OR", 44.6254, -124.0449},
	{"9437540", "Garibaldi, OR", 45.5545, -123.9189},
	{"9439040", "Astoria, OR", 46.2073, -123.7683},
	{"9443090", "Neah Bay, WA", 48.3683, -124.6017},
	{"9447130", "Seattle, WA", 47.6026, -122.3393},
	{"8418150", "Portland, ME", 43.6567, -70.2467},
	{"8443970", "Boston, MA", 42.3539, -71.0503},
	{"8452660", "Newport, RI", 41.5043, -71.3261},
	{"8510560", "Montauk, NY", 41.0483, -71.9594},
	{"8518750", "The Battery, NY", 40.7006, -74.0142},
	{"8534720", "Atlantic City, NJ", 39.3567, -74.4181},
	{"8557380", "Lewes, DE", 38.7828, -75.1192},
	{"8638610", "Sewells Point, VA", 36.9467, -76.3300},
	{"8651370", "Duck, NC", 36.1833, -75.7467},
	{"8658120", "Wilmington, NC", 34.2275, -77.9536},
	{"8665530", "Charleston, SC", 32.7806, -79.9239},
	{"8670870", "Fort Pulaski, GA", 32.0367, -80.9017},
	{"8720218", "Mayport, FL", 30.3982, -81.4279},
	{"8723214", "Virginia Key, FL", 25.7314, -80.1618},
	{"8724580", "Key West, FL", 24.5557, -81.8079},
	{"1612340", "Honolulu, HI", 21.3067, -157.8670},
	{"1615680", "Kahului, HI", 20.8950, -156.4769},
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Nearest returns the catalog station closest to the given point. The
// scan is stable: the first minimum in catalog order wins.
func Nearest(lat, lon float64) Station {
	best := catalog[0]
	bestDist := Haversine(lat, lon, best.Lat, best.Lon)
	for _, s := range catalog[1:] {
		if d := Haversine(lat, lon, s.Lat, s.Lon); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// ByID looks up a station by its NOAA identifier.
func ByID(id string) (Station, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// All returns a copy of the catalog.
func All() []Station {
	out := make([]Station, len(catalog))
	copy(out, catalog)
	return out
}
