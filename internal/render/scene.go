// Package render turns a loaded LED dataset into figures: a projected 3D
// scatter of the tree, three 2D projections, and an interactive HTML view.
// Figures are drawn with gonum/plot and can be saved or rasterized for display.
package render

import (
	"math"
	"sort"

	"github.com/banshee-data/ledviz/internal/ledmap"
)

// Bounds3D is the axis-aligned box shown by the 3D view.
type Bounds3D struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// TreeBounds returns the plot box for a tree of the given height:
// x and y span [-h/2, h/2], z spans [0, h].
func TreeBounds(treeHeight float64) Bounds3D {
	r := treeHeight / 2
	return Bounds3D{XMin: -r, XMax: r, YMin: -r, YMax: r, ZMin: 0, ZMax: treeHeight}
}

func (b Bounds3D) center() ledmap.Point3 {
	return ledmap.Point3{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2, Z: (b.ZMin + b.ZMax) / 2}
}

// corners returns the eight box corners; index bits are (x, y, z) = (1, 2, 4).
func (b Bounds3D) corners() [8]ledmap.Point3 {
	var out [8]ledmap.Point3
	for i := range out {
		p := ledmap.Point3{X: b.XMin, Y: b.YMin, Z: b.ZMin}
		if i&1 != 0 {
			p.X = b.XMax
		}
		if i&2 != 0 {
			p.Y = b.YMax
		}
		if i&4 != 0 {
			p.Z = b.ZMax
		}
		out[i] = p
	}
	return out
}

// View is the camera direction in degrees. Azimuth rotates about z from the
// +x axis; elevation lifts the camera above the xy plane.
type View struct {
	ElevationDeg float64
	AzimuthDeg   float64
}

// DefaultView matches the usual 3D scatter camera (30° up, -60° around).
var DefaultView = View{ElevationDeg: 30, AzimuthDeg: -60}

// Projector maps tree coordinates to 2D screen coordinates with an
// orthographic camera. Each axis is first scaled to unit length so the box is
// drawn as a cube regardless of its data ranges.
type Projector struct {
	bounds     Bounds3D
	center     ledmap.Point3
	sx, sy, sz float64
	right, up  [3]float64
	toward     [3]float64
}

// NewProjector builds a projector for the box and view.
func NewProjector(b Bounds3D, v View) *Projector {
	e := v.ElevationDeg * math.Pi / 180
	a := v.AzimuthDeg * math.Pi / 180
	sinE, cosE := math.Sincos(e)
	sinA, cosA := math.Sincos(a)

	return &Projector{
		bounds: b,
		center: b.center(),
		sx:     unitScale(b.XMax - b.XMin),
		sy:     unitScale(b.YMax - b.YMin),
		sz:     unitScale(b.ZMax - b.ZMin),
		right:  [3]float64{-sinA, cosA, 0},
		up:     [3]float64{-sinE * cosA, -sinE * sinA, cosE},
		toward: [3]float64{cosE * cosA, cosE * sinA, sinE},
	}
}

func unitScale(span float64) float64 {
	if span == 0 {
		return 1
	}
	return 1 / span
}

// Project returns screen coordinates (u right, v up) and depth, where larger
// depth is closer to the camera.
func (p *Projector) Project(pt ledmap.Point3) (u, v, depth float64) {
	n := [3]float64{
		(pt.X - p.center.X) * p.sx,
		(pt.Y - p.center.Y) * p.sy,
		(pt.Z - p.center.Z) * p.sz,
	}
	return dot(n, p.right), dot(n, p.up), dot(n, p.toward)
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// screenExtent returns a square region (centre and half-size) that contains
// the projected box with some margin for labels.
func (p *Projector) screenExtent() (cu, cv, half float64) {
	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, c := range p.bounds.corners() {
		u, v, _ := p.Project(c)
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}
	half = math.Max(maxU-minU, maxV-minV) / 2 * 1.18
	if half == 0 {
		half = 1
	}
	return (minU + maxU) / 2, (minV + maxV) / 2, half
}

// projected is a point after projection, keeping its source index.
type projected struct {
	u, v, depth float64
	index       int
}

// projectSorted projects positions and orders them far-to-near so nearer
// markers are painted last.
func (p *Projector) projectSorted(positions []ledmap.Position) []projected {
	out := make([]projected, len(positions))
	for i, pos := range positions {
		u, v, d := p.Project(ledmap.Point3{X: pos.X, Y: pos.Y, Z: pos.Z})
		out[i] = projected{u: u, v: v, depth: d, index: i}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].depth < out[b].depth })
	return out
}
