// Package testutil provides shared test utilities and dataset fixtures.
//
// Fixtures are built as JSON documents in the mapping app's format so that
// tests exercise the real loader instead of constructing datasets by hand.
package testutil

import (
	"encoding/json"
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// LED is one record of a fixture document.
type LED struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Height     float64 `json:"height"`
	Angle      float64 `json:"angle"`
	Confidence float64 `json:"confidence"`
	Predicted  bool    `json:"predicted"`
}

// Fixture is a complete dataset document.
type Fixture struct {
	Positions    []LED   `json:"positions"`
	TotalLEDs    int     `json:"total_leds"`
	TreeHeight   float64 `json:"tree_height"`
	NumCameras   int     `json:"num_cameras,omitempty"`
	NumObserved  int     `json:"num_observed,omitempty"`
	NumPredicted int     `json:"num_predicted,omitempty"`
}

// JSON encodes the fixture. It panics on encoding errors, which cannot happen
// for this type.
func (f Fixture) JSON() []byte {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

// TreeFixture returns n LEDs wound as a spiral up a cone of the given height,
// with every predictedEvery-th LED predicted (0 disables prediction). Counts
// in the metadata match the records. The output is deterministic.
func TreeFixture(n, predictedEvery int, height float64) Fixture {
	f := Fixture{TotalLEDs: n, TreeHeight: height, NumCameras: 4}
	for i := 0; i < n; i++ {
		frac := 0.0
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		angle := math.Mod(float64(i)*37.0, 360.0)
		radius := height * 0.25 * (1 - 0.9*frac)
		rad := angle * math.Pi / 180
		led := LED{
			X:          radius * math.Cos(rad),
			Y:          radius * math.Sin(rad),
			Z:          frac * height,
			Height:     frac,
			Angle:      angle,
			Confidence: 0.5 + 0.5*math.Abs(math.Sin(float64(i))),
		}
		if predictedEvery > 0 && i%predictedEvery == predictedEvery-1 {
			led.Predicted = true
			led.Confidence = 0
			f.NumPredicted++
		} else {
			f.NumObserved++
		}
		f.Positions = append(f.Positions, led)
	}
	return f
}
