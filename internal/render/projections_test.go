package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func TestNewProjectionView_Panels(t *testing.T) {
	v, err := NewProjectionView(fixtureDataset(t, 25, 5, 2), ProjectionOptions{})
	require.NoError(t, err)

	assert.Equal(t, "LED Tree Projections - 25 LEDs", v.Title)

	want := [][3]string{
		{"Top View (X-Y)", "X (meters)", "Y (meters)"},
		{"Side View (X-Z)", "X (meters)", "Z (meters)"},
		{"Front View (Y-Z)", "Y (meters)", "Z (meters)"},
	}
	for i, p := range v.Panels {
		assert.Equal(t, want[i][0], p.Title.Text)
		assert.Equal(t, want[i][1], p.X.Label.Text)
		assert.Equal(t, want[i][2], p.Y.Label.Text)
	}
}

func TestProjectionView_TopViewEqualAspect(t *testing.T) {
	for _, width := range []vg.Length{15 * vg.Inch, 30 * vg.Inch, 6 * vg.Inch} {
		v, err := NewProjectionView(fixtureDataset(t, 25, 5, 3), ProjectionOptions{Width: width})
		require.NoError(t, err)

		w, h := v.Size()
		canvases := v.layout(draw.New(vgimg.New(w, h)))

		top := v.Panels[0]
		dc := top.DataCanvas(canvases[0][0])
		perX := float64(dc.Max.X-dc.Min.X) / (top.X.Max - top.X.Min)
		perY := float64(dc.Max.Y-dc.Min.Y) / (top.Y.Max - top.Y.Min)
		assert.InEpsilon(t, perX, perY, 0.02, "width %v: x=%.1f y=%.1f points per meter", width, perX, perY)
	}
}

func TestProjectionView_LayoutIsRepeatable(t *testing.T) {
	v, err := NewProjectionView(fixtureDataset(t, 25, 5, 3), ProjectionOptions{})
	require.NoError(t, err)
	c := draw.New(vgimg.New(v.Size()))

	v.layout(c)
	top := v.Panels[0]
	first := [4]float64{top.X.Min, top.X.Max, top.Y.Min, top.Y.Max}
	v.layout(c)
	assert.Equal(t, first, [4]float64{top.X.Min, top.X.Max, top.Y.Min, top.Y.Max})
}

func TestProjectionView_SideViewNotFitted(t *testing.T) {
	v, err := NewProjectionView(fixtureDataset(t, 25, 5, 3), ProjectionOptions{})
	require.NoError(t, err)
	v.layout(draw.New(vgimg.New(v.Size())))

	side := v.Panels[1]
	assert.NotEqual(t, side.X.Max-side.X.Min, side.Y.Max-side.Y.Min)
}

func TestProjectionView_Rasterize(t *testing.T) {
	for _, every := range []int{0, 3} {
		v, err := NewProjectionView(fixtureDataset(t, 30, every, 2), ProjectionOptions{})
		require.NoError(t, err)

		w, h := v.Size()
		assert.Equal(t, 15*vg.Inch, w)
		assert.Equal(t, 5*vg.Inch, h)

		img, err := Rasterize(v, 20)
		require.NoError(t, err)
		assert.InDelta(t, 300, img.Bounds().Dx(), 1)
		assert.InDelta(t, 100, img.Bounds().Dy(), 1)
	}
}
