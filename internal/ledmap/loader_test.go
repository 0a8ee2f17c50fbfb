package ledmap

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/banshee-data/ledviz/internal/testutil"
)

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	fixture := testutil.TreeFixture(25, 5, 1.8)
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/led_positions.json", fixture.JSON(), 0644))

	ds, err := Load(mfs, "/led_positions.json")
	require.NoError(t, err)

	require.Equal(t, 25, ds.Len())
	assert.Equal(t, ds.Len(), ds.Metadata().TotalLEDs, "declared count should match records for a well-formed file")

	wantMeta := Metadata{TotalLEDs: 25, TreeHeight: 1.8, NumCameras: 4, NumObserved: 20, NumPredicted: 5}
	if diff := cmp.Diff(wantMeta, ds.Metadata()); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}

	got := ds.Positions()
	for i, led := range fixture.Positions {
		want := Position{
			X: led.X, Y: led.Y, Z: led.Z,
			Height: led.Height, Angle: led.Angle,
			Confidence: led.Confidence, Predicted: led.Predicted,
		}
		if diff := cmp.Diff(want, got[i]); diff != "" {
			t.Fatalf("positions[%d] mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParse_OptionalFieldsDefaultToZero(t *testing.T) {
	t.Parallel()

	ds, err := Parse([]byte(`{
		"positions": [{"x": 0.1, "y": 0.2, "z": 0.3, "height": 0.5, "angle": 90, "confidence": 0.7, "predicted": false}],
		"total_leds": 1,
		"tree_height": 2.0
	}`))
	require.NoError(t, err)

	meta := ds.Metadata()
	assert.Equal(t, 0, meta.NumCameras)
	assert.Equal(t, 0, meta.NumObserved)
	assert.Equal(t, 0, meta.NumPredicted)
	assert.Equal(t, 2.0, meta.TreeHeight)
}

func TestParse_EmptyPositionsIsValid(t *testing.T) {
	t.Parallel()

	ds, err := Parse([]byte(`{"positions": [], "total_leds": 0, "tree_height": 1}`))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	const rec = `{"x": 0, "y": 0, "z": 0, "height": 0, "angle": 0, "confidence": 1, "predicted": false}`

	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"not json", `{"positions": [`, ""},
		{"missing positions", `{"total_leds": 1, "tree_height": 1}`, `"positions"`},
		{"null positions", `{"positions": null, "total_leds": 1, "tree_height": 1}`, `"positions"`},
		{"missing total_leds", `{"positions": [` + rec + `], "tree_height": 1}`, `"total_leds"`},
		{"missing tree_height", `{"positions": [` + rec + `], "total_leds": 1}`, `"tree_height"`},
		{"string tree_height", `{"positions": [], "total_leds": 0, "tree_height": "tall"}`, "tree_height"},
		{"fractional total_leds", `{"positions": [], "total_leds": 1.5, "tree_height": 1}`, "total_leds"},
		{"record missing key", `{"positions": [` + rec + `, {"x": 0, "y": 0, "z": 0, "height": 0, "angle": 0, "predicted": true}], "total_leds": 2, "tree_height": 1}`, `positions[1]: missing key "confidence"`},
		{"record wrong type", `{"positions": [{"x": "0", "y": 0, "z": 0, "height": 0, "angle": 0, "confidence": 1, "predicted": false}], "total_leds": 1, "tree_height": 1}`, ""},
		{"top level array", `[]`, ""},
		{"upper-case total_leds", `{"positions": [], "Total_LEDs": 0, "tree_height": 1}`, `"total_leds"`},
		{"upper-case record key", `{"positions": [{"X": 0, "y": 0, "z": 0, "height": 0, "angle": 0, "confidence": 1, "predicted": false}], "total_leds": 1, "tree_height": 1}`, `positions[0]: missing key "x"`},
		{"string num_cameras", `{"positions": [], "total_leds": 0, "tree_height": 1, "num_cameras": "two"}`, "num_cameras"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), "expected ErrMalformedInput, got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_KeysMatchExactly(t *testing.T) {
	t.Parallel()

	ds, err := Parse([]byte(`{
		"positions": [{"x": 1, "X": 9, "y": 2, "z": 3, "height": 3, "angle": 0, "confidence": 0.5, "predicted": false}],
		"total_leds": 1, "TOTAL_LEDS": 7, "tree_height": 4
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Metadata().TotalLEDs)
	assert.Equal(t, 1.0, ds.Positions()[0].X)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(fsutil.NewMemoryFileSystem(), "/nope.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "/nope.json")
}

func TestLoad_MalformedNamesPath(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/bad.json", []byte(`{"positions": []}`), 0644))

	_, err := Load(mfs, "/bad.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
	assert.Contains(t, err.Error(), "/bad.json")
}

func TestPartition_Completeness(t *testing.T) {
	t.Parallel()

	for _, every := range []int{0, 1, 2, 3, 7} {
		f := testutil.TreeFixture(40, every, 2)
		ds, err := Parse(f.JSON())
		require.NoError(t, err)

		observed, predicted := ds.Partition()
		assert.Equal(t, ds.Len(), len(observed)+len(predicted), "predictedEvery=%d", every)
		for _, p := range observed {
			assert.False(t, p.Predicted)
		}
		for _, p := range predicted {
			assert.True(t, p.Predicted)
		}
	}
}

func TestPartition_PreservesOrder(t *testing.T) {
	t.Parallel()

	ds := NewDataset([]Position{
		{X: 1}, {X: 2, Predicted: true}, {X: 3}, {X: 4, Predicted: true},
	}, Metadata{TotalLEDs: 4})

	observed, predicted := ds.Partition()
	if diff := cmp.Diff([]Position{{X: 1}, {X: 3}}, observed); diff != "" {
		t.Errorf("observed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Position{{X: 2, Predicted: true}, {X: 4, Predicted: true}}, predicted); diff != "" {
		t.Errorf("predicted (-want +got):\n%s", diff)
	}
}

func TestDataset_IsReadOnly(t *testing.T) {
	t.Parallel()

	src := []Position{{X: 1}}
	ds := NewDataset(src, Metadata{TotalLEDs: 1})
	src[0].X = 99

	got := ds.Positions()
	assert.Equal(t, 1.0, got[0].X)
	got[0].X = 42
	assert.Equal(t, 1.0, ds.Positions()[0].X)
}

func TestCheckCounts(t *testing.T) {
	t.Parallel()

	consistent, err := Parse(testutil.TreeFixture(12, 4, 1).JSON())
	require.NoError(t, err)
	assert.NoError(t, consistent.CheckCounts())

	tests := []struct {
		name    string
		meta    Metadata
		wantMsg string
	}{
		{"declared sum off", Metadata{TotalLEDs: 2, NumObserved: 1, NumPredicted: 0}, "num_observed (1) + num_predicted (0) != total_leds (2)"},
		{"record count off", Metadata{TotalLEDs: 3, NumObserved: 2, NumPredicted: 1}, "3 but 2 positions"},
		{"partition off", Metadata{TotalLEDs: 2, NumObserved: 0, NumPredicted: 2}, "num_observed is 0 but 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewDataset([]Position{{}, {Predicted: true}}, tt.meta)
			err := ds.CheckCounts()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCountMismatch))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
