package orientation

import (
	"math"
	"testing"
	"time"
)

func TestComputePoseFromAccel(t *testing.T) {
	tests := []struct {
		name       string
		ax, ay, az float64
		roll       float64
		pitch      float64
	}{
		{name: "flat", ax: 0, ay: 0, az: 1, roll: 0, pitch: 0},
		{name: "rolled right", ax: 0, ay: 1, az: 0, roll: 90, pitch: 0},
		{name: "nose down", ax: 1, ay: 0, az: 0, roll: 0, pitch: -90},
		{name: "45 degree roll", ax: 0, ay: 1, az: 1, roll: 45, pitch: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePoseFromAccel(tt.ax, tt.ay, tt.az)
			if math.Abs(p.Roll-tt.roll) > 1e-9 {
				t.Errorf("roll: expected %v, got %v", tt.roll, p.Roll)
			}
			if math.Abs(p.Pitch-tt.pitch) > 1e-9 {
				t.Errorf("pitch: expected %v, got %v", tt.pitch, p.Pitch)
			}
			if p.Yaw != 0 {
				t.Errorf("yaw: expected 0, got %v", p.Yaw)
			}
		})
	}
}

func TestNormalizeAzimuth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: 0, want: 0},
		{in: 359.5, want: 359.5},
		{in: 360, want: 0},
		{in: 725, want: 5},
		{in: -90, want: 270},
		{in: -720, want: 0},
	}

	for _, tt := range tests {
		if got := NormalizeAzimuth(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAzimuth(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if !math.IsNaN(NormalizeAzimuth(math.NaN())) {
		t.Error("expected NaN to pass through")
	}
}

func TestSampleFromPose(t *testing.T) {
	s := SampleFromPose(Pose{Roll: 3, Pitch: 2, Yaw: -10}, StatusHigh)
	want := Sample{Azimuth: 350, Pitch: 2, Roll: 3, Status: StatusHigh}
	if s != want {
		t.Errorf("expected %+v, got %+v", want, s)
	}
}

func TestDefaultSample(t *testing.T) {
	if DefaultSample.Status != StatusNoContact {
		t.Errorf("expected no-contact status, got %d", DefaultSample.Status)
	}
	if DefaultSample.Azimuth != 0 || DefaultSample.Pitch != 0 || DefaultSample.Roll != 0 {
		t.Errorf("expected zero angles, got %+v", DefaultSample)
	}
}

func TestStatusName(t *testing.T) {
	tests := []struct {
		status int8
		want   string
	}{
		{StatusNoContact, "no-contact"},
		{StatusUnreliable, "unreliable"},
		{StatusLow, "low"},
		{StatusMedium, "medium"},
		{StatusHigh, "high"},
		{42, "unknown"},
	}
	for _, tt := range tests {
		if got := StatusName(tt.status); got != tt.want {
			t.Errorf("StatusName(%d): expected %q, got %q", tt.status, tt.want, got)
		}
	}
}

func TestMockSourceIsSmooth(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	src := &mockSource{start: start, now: func() time.Time { return now }}

	first, err := src.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Roll != 0 || first.Pitch != 15 || first.Yaw != 0 {
		t.Errorf("unexpected initial pose %+v", first)
	}

	now = start.Add(100 * time.Millisecond)
	second, _ := src.Next()
	if math.Abs(second.Roll-first.Roll) > 5 || math.Abs(second.Yaw-3) > 1e-9 {
		t.Errorf("unexpected pose after 100ms: %+v", second)
	}
}
