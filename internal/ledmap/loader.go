package ledmap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/banshee-data/ledviz/internal/monitoring"
)

// object is one decoded JSON object. Values are decoded per key so key
// lookups are exact; encoding/json struct tags would also accept "X" for "x".
type object map[string]json.RawMessage

// decode unmarshals the value at key into dst. A missing key or an explicit
// null reports present=false and leaves dst untouched.
func (o object) decode(key string, dst any) (present bool, err error) {
	raw, ok := o[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%q: %v", key, err)
	}
	return true, nil
}

func (o object) require(key string, dst any, missing string) error {
	present, err := o.decode(key, dst)
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf(missing, key)
	}
	return nil
}

// Load reads and parses the dataset at path. The file is read in full and
// released before parsing starts.
func Load(fsys fsutil.FileSystem, path string) (*Dataset, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Debugf("loaded %d positions from %s (%d bytes)", ds.Len(), path, len(data))
	return ds, nil
}

// Parse decodes a dataset document. Keys are matched exactly and only key
// presence and JSON types are checked; values are not range-validated.
func Parse(data []byte) (*Dataset, error) {
	var doc object
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var (
		records []object
		meta    Metadata
	)
	required := []struct {
		key string
		dst any
	}{
		{"positions", &records},
		{"total_leds", &meta.TotalLEDs},
		{"tree_height", &meta.TreeHeight},
	}
	for _, f := range required {
		if err := doc.require(f.key, f.dst, "missing required key %q"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}
	for key, dst := range map[string]*int{
		"num_cameras":   &meta.NumCameras,
		"num_observed":  &meta.NumObserved,
		"num_predicted": &meta.NumPredicted,
	} {
		if _, err := doc.decode(key, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	positions := make([]Position, 0, len(records))
	for i, rec := range records {
		p, err := position(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: positions[%d]: %v", ErrMalformedInput, i, err)
		}
		positions = append(positions, p)
	}

	return &Dataset{positions: positions, meta: meta}, nil
}

func position(rec object) (Position, error) {
	var p Position
	fields := []struct {
		key string
		dst any
	}{
		{"x", &p.X},
		{"y", &p.Y},
		{"z", &p.Z},
		{"height", &p.Height},
		{"angle", &p.Angle},
		{"confidence", &p.Confidence},
		{"predicted", &p.Predicted},
	}
	for _, f := range fields {
		if err := rec.require(f.key, f.dst, "missing key %q"); err != nil {
			return Position{}, err
		}
	}
	return p, nil
}
