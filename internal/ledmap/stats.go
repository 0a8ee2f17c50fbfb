package ledmap

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/ledviz/internal/units"
)

// DefaultHighConfidence is the threshold above which an observed LED counts
// as high confidence.
const DefaultHighConfidence = 0.8

// Extent is a closed [Min, Max] interval.
type Extent struct {
	Min, Max float64
}

// ConfidenceSummary describes the confidence of observed LEDs.
type ConfidenceSummary struct {
	Mean, Min, Max float64
	Threshold      float64
	HighCount      int
	HighPct        float64
}

// Summary is the descriptive statistics report for a dataset.
// Observed/predicted counts and percentages use the declared metadata.
type Summary struct {
	TotalLEDs    int
	TreeHeight   float64
	NumCameras   int
	NumObserved  int
	NumPredicted int
	ObservedPct  float64
	PredictedPct float64

	// Confidence is nil when the dataset has no observed LEDs.
	Confidence *ConfidenceSummary

	X, Y, Z Extent
	Height  Extent
	Angle   Extent
}

// Summarize computes the report for ds. highConfidence is the strict lower
// bound for the high-confidence count.
func Summarize(ds *Dataset, highConfidence float64) (*Summary, error) {
	meta := ds.Metadata()
	if meta.TotalLEDs == 0 {
		return nil, fmt.Errorf("%w: total_leds is 0, cannot compute percentages", ErrDegenerateMetadata)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no positions, cannot compute extents", ErrDegenerateMetadata)
	}

	s := &Summary{
		TotalLEDs:    meta.TotalLEDs,
		TreeHeight:   meta.TreeHeight,
		NumCameras:   meta.NumCameras,
		NumObserved:  meta.NumObserved,
		NumPredicted: meta.NumPredicted,
		ObservedPct:  100 * float64(meta.NumObserved) / float64(meta.TotalLEDs),
		PredictedPct: 100 * float64(meta.NumPredicted) / float64(meta.TotalLEDs),
	}

	observed, _ := ds.Partition()
	if len(observed) > 0 {
		s.Confidence = summarizeConfidence(observed, highConfidence)
	}

	n := ds.Len()
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	hs, as := make([]float64, n), make([]float64, n)
	for i, p := range ds.positions {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
		hs[i], as[i] = p.Height, p.Angle
	}
	s.X = extentOf(xs)
	s.Y = extentOf(ys)
	s.Z = extentOf(zs)
	s.Height = extentOf(hs)
	s.Angle = extentOf(as)

	return s, nil
}

func summarizeConfidence(observed []Position, threshold float64) *ConfidenceSummary {
	conf := make([]float64, len(observed))
	high := 0
	for i, p := range observed {
		conf[i] = p.Confidence
		if p.Confidence > threshold {
			high++
		}
	}
	return &ConfidenceSummary{
		Mean:      stat.Mean(conf, nil),
		Min:       floats.Min(conf),
		Max:       floats.Max(conf),
		Threshold: threshold,
		HighCount: high,
		HighPct:   100 * float64(high) / float64(len(conf)),
	}
}

// extentOf panics on an empty slice; callers guard.
func extentOf(v []float64) Extent {
	return Extent{Min: floats.Min(v), Max: floats.Max(v)}
}

const reportRule = "============================================================"

// WriteReport prints the human-readable statistics block. Lengths are shown
// in unit; normalized height and angles are unit-free.
func (s *Summary) WriteReport(w io.Writer, unit units.Length) error {
	var b strings.Builder
	suffix := unit.Suffix()
	conv := func(m float64) float64 { return units.ConvertLength(m, unit) }

	fmt.Fprintf(&b, "\n%s\n", reportRule)
	b.WriteString("LED POSITION STATISTICS\n")
	fmt.Fprintf(&b, "%s\n", reportRule)

	fmt.Fprintf(&b, "\nTotal LEDs: %d\n", s.TotalLEDs)
	fmt.Fprintf(&b, "Tree Height: %.2f%s\n", conv(s.TreeHeight), suffix)
	if s.NumCameras != 0 {
		fmt.Fprintf(&b, "Number of Cameras: %d\n", s.NumCameras)
	}

	fmt.Fprintf(&b, "\nObserved (triangulated): %d (%.1f%%)\n", s.NumObserved, s.ObservedPct)
	fmt.Fprintf(&b, "Predicted (interpolated): %d (%.1f%%)\n", s.NumPredicted, s.PredictedPct)

	if c := s.Confidence; c != nil {
		b.WriteString("\nConfidence (observed LEDs):\n")
		fmt.Fprintf(&b, "  Mean: %.3f\n", c.Mean)
		fmt.Fprintf(&b, "  Min:  %.3f\n", c.Min)
		fmt.Fprintf(&b, "  Max:  %.3f\n", c.Max)
		fmt.Fprintf(&b, "  High confidence (>%g): %d (%.1f%%)\n", c.Threshold, c.HighCount, c.HighPct)
	}

	b.WriteString("\nSpatial Distribution:\n")
	fmt.Fprintf(&b, "  X range: [%.3f, %.3f]%s\n", conv(s.X.Min), conv(s.X.Max), suffix)
	fmt.Fprintf(&b, "  Y range: [%.3f, %.3f]%s\n", conv(s.Y.Min), conv(s.Y.Max), suffix)
	fmt.Fprintf(&b, "  Z range: [%.3f, %.3f]%s\n", conv(s.Z.Min), conv(s.Z.Max), suffix)
	fmt.Fprintf(&b, "  Height range: [%.3f, %.3f] (normalized)\n", s.Height.Min, s.Height.Max)
	fmt.Fprintf(&b, "  Angle range: [%.1f°, %.1f°]\n", s.Angle.Min, s.Angle.Max)

	fmt.Fprintf(&b, "%s\n\n", reportRule)

	_, err := io.WriteString(w, b.String())
	return err
}
