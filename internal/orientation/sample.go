// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// Accuracy status codes carried with every sample.
const (
	StatusNoContact  int8 = -1
	StatusUnreliable int8 = 0
	StatusLow        int8 = 1
	StatusMedium     int8 = 2
	StatusHigh       int8 = 3
)

// Sample is one orientation reading as relayed to the network client.
// Values are in degrees; Status is one of the Status* codes.
type Sample struct {
	Azimuth float32 `json:"azimuth"`
	Pitch   float32 `json:"pitch"`
	Roll    float32 `json:"roll"`
	Status  int8    `json:"status"`
}

// DefaultSample is what a connection reports before any reading has arrived.
var DefaultSample = Sample{Status: StatusNoContact}

// SampleFromPose converts a pose into a relay sample. Yaw becomes the azimuth.
func SampleFromPose(p Pose, status int8) Sample {
	return Sample{
		Azimuth: float32(NormalizeAzimuth(p.Yaw)),
		Pitch:   float32(p.Pitch),
		Roll:    float32(p.Roll),
		Status:  status,
	}
}

// StatusName returns a short label for a status code, used in logs and the status page.
func StatusName(status int8) string {
	switch status {
	case StatusNoContact:
		return "no-contact"
	case StatusUnreliable:
		return "unreliable"
	case StatusLow:
		return "low"
	case StatusMedium:
		return "medium"
	case StatusHigh:
		return "high"
	default:
		return "unknown"
	}
}
