// Package ledmap holds the LED position dataset produced by the mapping app:
// loading, partitioning, summary statistics and the reference cone outline.
package ledmap

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is wrapped by every parse failure: missing required
	// keys, incomplete records and wrongly typed values.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDegenerateMetadata is returned when percentages or extents cannot be
	// computed, e.g. total_leds is zero or there are no positions.
	ErrDegenerateMetadata = errors.New("degenerate metadata")

	// ErrCountMismatch is returned by CheckCounts when declared counts disagree
	// with each other or with the records.
	ErrCountMismatch = errors.New("LED count mismatch")
)

// Position is one mapped LED. Coordinates are meters.
type Position struct {
	X, Y, Z float64
	// Height is the vertical position as a fraction of the tree height.
	Height float64
	// Angle is degrees around the vertical axis.
	Angle float64
	// Confidence is only meaningful for observed LEDs.
	Confidence float64
	// Predicted is true when the position was interpolated, not triangulated.
	Predicted bool
}

// Metadata is the dataset-level information declared by the mapping app.
type Metadata struct {
	TotalLEDs    int
	TreeHeight   float64
	NumCameras   int
	NumObserved  int
	NumPredicted int
}

// Dataset is a loaded, read-only set of positions and their metadata.
type Dataset struct {
	positions []Position
	meta      Metadata
}

// NewDataset builds a Dataset from already-decoded values. The positions are
// copied so later changes by the caller are not observed.
func NewDataset(positions []Position, meta Metadata) *Dataset {
	cp := make([]Position, len(positions))
	copy(cp, positions)
	return &Dataset{positions: cp, meta: meta}
}

// Len returns the number of position records.
func (d *Dataset) Len() int { return len(d.positions) }

// Metadata returns the declared metadata.
func (d *Dataset) Metadata() Metadata { return d.meta }

// Positions returns a copy of all records in input order.
func (d *Dataset) Positions() []Position {
	cp := make([]Position, len(d.positions))
	copy(cp, d.positions)
	return cp
}

// Partition splits the records by the Predicted flag, preserving input order.
// len(observed)+len(predicted) always equals Len().
func (d *Dataset) Partition() (observed, predicted []Position) {
	for _, p := range d.positions {
		if p.Predicted {
			predicted = append(predicted, p)
		} else {
			observed = append(observed, p)
		}
	}
	return observed, predicted
}

// CheckCounts compares the declared counts with each other and with the
// records. It returns nil when everything agrees, otherwise an error wrapping
// ErrCountMismatch that lists every disagreement. Loading never calls this;
// the caller decides whether a mismatch matters.
func (d *Dataset) CheckCounts() error {
	var errs []error
	m := d.meta

	if m.NumObserved+m.NumPredicted != m.TotalLEDs {
		errs = append(errs, fmt.Errorf("num_observed (%d) + num_predicted (%d) != total_leds (%d)",
			m.NumObserved, m.NumPredicted, m.TotalLEDs))
	}
	if len(d.positions) != m.TotalLEDs {
		errs = append(errs, fmt.Errorf("total_leds is %d but %d positions were loaded", m.TotalLEDs, len(d.positions)))
	}

	observed, predicted := d.Partition()
	if len(observed) != m.NumObserved {
		errs = append(errs, fmt.Errorf("num_observed is %d but %d positions are observed", m.NumObserved, len(observed)))
	}
	if len(predicted) != m.NumPredicted {
		errs = append(errs, fmt.Errorf("num_predicted is %d but %d positions are predicted", m.NumPredicted, len(predicted)))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrCountMismatch, errors.Join(errs...))
}
