// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "github.com/relabs-tech/orientation_relay/internal/orientation"

// Fix represents a single combined GPS fix.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56"
	Date       string  `json:"date"`        // e.g. "13/06/94"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void)
}

// Valid reports whether the receiver marked the fix as active.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}

// Sample turns the course over ground into an orientation sample. A GPS
// receiver only knows heading, so pitch and roll stay zero.
func (f Fix) Sample() orientation.Sample {
	status := orientation.StatusUnreliable
	if f.Valid() {
		status = orientation.StatusHigh
	}
	return orientation.Sample{
		Azimuth: float32(orientation.NormalizeAzimuth(f.CourseDeg)),
		Status:  status,
	}
}
