package ledmap

import "math"

// DefaultConePoints is the default number of samples per cone circle.
const DefaultConePoints = 50

const (
	coneBaseRadiusRatio = 0.25
	coneTopRadiusRatio  = 0.025
	coneSpokes          = 8
)

// Point3 is a point in tree coordinates (meters, z up).
type Point3 struct {
	X, Y, Z float64
}

// ConeOutline is a reference guide for plots: two circles and eight spokes
// approximating a conical tree of the given height. The radii are fixed
// fractions of the height (0.25 at the base, 0.025 at the top) and are NOT
// fitted to the LED positions, so the outline is only a visual cue and will
// not match the real tree silhouette exactly.
type ConeOutline struct {
	Height     float64
	BaseRadius float64
	TopRadius  float64
	// Bottom and Top hold the same number of samples at matching angles over
	// [0, 2π] inclusive, so each circle is a closed loop.
	Bottom []Point3
	Top    []Point3
	// Spokes join Bottom[i] to Top[i] for eight evenly spaced i.
	Spokes [][2]Point3
}

// NewConeOutline samples the reference cone. numPoints <= 0 selects
// DefaultConePoints; smaller positive values are raised to 8 so that every
// spoke has its own sample. The result depends only on its arguments.
func NewConeOutline(treeHeight float64, numPoints int) ConeOutline {
	if numPoints <= 0 {
		numPoints = DefaultConePoints
	}
	if numPoints < coneSpokes {
		numPoints = coneSpokes
	}

	c := ConeOutline{
		Height:     treeHeight,
		BaseRadius: treeHeight * coneBaseRadiusRatio,
		TopRadius:  treeHeight * coneTopRadiusRatio,
		Bottom:     make([]Point3, numPoints),
		Top:        make([]Point3, numPoints),
		Spokes:     make([][2]Point3, 0, coneSpokes),
	}

	step := 2 * math.Pi / float64(numPoints-1)
	for i := 0; i < numPoints; i++ {
		theta := float64(i) * step
		if i == numPoints-1 {
			theta = 2 * math.Pi
		}
		cos, sin := math.Cos(theta), math.Sin(theta)
		c.Bottom[i] = Point3{X: c.BaseRadius * cos, Y: c.BaseRadius * sin, Z: 0}
		c.Top[i] = Point3{X: c.TopRadius * cos, Y: c.TopRadius * sin, Z: treeHeight}
	}

	stride := numPoints / coneSpokes
	for k := 0; k < coneSpokes; k++ {
		i := k * stride
		c.Spokes = append(c.Spokes, [2]Point3{c.Bottom[i], c.Top[i]})
	}

	return c
}
