// Package geo gates same-day selections on physical presence at the site.
package geo

import (
	"math"
	"time"
)

const earthRadiusMeters = 6_371_000

// Reading is a single location fix supplied by the caller. The validator
// does not acquire or retry fixes itself.
type Reading struct {
	Lat            float64       `json:"lat"`
	Lon            float64       `json:"lon"`
	AccuracyMeters float64       `json:"accuracy_m"`
	SampleAge      time.Duration `json:"sample_age_ms"`
}

// Result carries the decision plus the measured distance so callers can
// show how far off-site the user is.
type Result struct {
	OK             bool
	Reason         string
	DistanceMeters float64
}

const (
	ReasonStaleLocation = "stale location"
	ReasonLowAccuracy   = "low accuracy"
	ReasonOutOfRange    = "out of range"
)

// Validator checks a reading against a fixed site coordinate. Pure; safe
// for concurrent use.
type Validator struct {
	siteLat      float64
	siteLon      float64
	radiusMeters float64
	maxAccuracy  float64
	maxAge       time.Duration
}

func NewValidator(siteLat, siteLon, radiusMeters, maxAccuracyMeters float64, maxAge time.Duration) *Validator {
	return &Validator{
		siteLat:      siteLat,
		siteLon:      siteLon,
		radiusMeters: radiusMeters,
		maxAccuracy:  maxAccuracyMeters,
		maxAge:       maxAge,
	}
}

// Check validates freshness and accuracy, then the great-circle distance to
// the site. A reading exactly at the radius passes.
func (v *Validator) Check(r Reading) Result {
	if r.SampleAge > v.maxAge {
		return Result{Reason: ReasonStaleLocation}
	}
	if r.AccuracyMeters > v.maxAccuracy {
		return Result{Reason: ReasonLowAccuracy}
	}

	dist := Haversine(r.Lat, r.Lon, v.siteLat, v.siteLon)
	if dist > v.radiusMeters {
		return Result{Reason: ReasonOutOfRange, DistanceMeters: dist}
	}
	return Result{OK: true, DistanceMeters: dist}
}

// Haversine returns the great-circle distance in meters between two
// lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
