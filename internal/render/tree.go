package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/ledviz/internal/ledmap"
)

const (
	tickOffset  = 0.07
	labelOffset = 0.17
)

// TreeOptions controls NewTreeView.
type TreeOptions struct {
	// Confidence colours observed LEDs by confidence and adds a colorbar.
	Confidence bool
	View       View
	// ConePoints is passed to ledmap.NewConeOutline.
	ConePoints int
	// Width and Height default to 12x10 inches.
	Width, Height vg.Length
}

// TreeView is the 3D scatter of a dataset, projected orthographically onto a
// gonum plot with hidden axes. It implements Figure.
type TreeView struct {
	// Bounds is the plotted box: x and y in [-h/2, h/2], z in [0, h].
	Bounds Bounds3D
	Title  string

	plot          *plot.Plot
	colorBar      *plot.Plot
	legend        []string
	half          float64
	cu, cv        float64
	width, height vg.Length
}

// NewTreeView builds the 3D figure for ds.
func NewTreeView(ds *ledmap.Dataset, o TreeOptions) (*TreeView, error) {
	if o.Width <= 0 {
		o.Width = 12 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 10 * vg.Inch
	}

	meta := ds.Metadata()
	observed, predicted := ds.Partition()
	bounds := TreeBounds(meta.TreeHeight)
	proj := NewProjector(bounds, o.View)

	t := &TreeView{
		Bounds: bounds,
		Title: fmt.Sprintf("LED Tree Map - %d LEDs\n%d observed, %d predicted",
			meta.TotalLEDs, meta.NumObserved, meta.NumPredicted),
		width:  o.Width,
		height: o.Height,
	}

	p := plot.New()
	p.Title.Text = t.Title
	p.HideAxes()
	p.Legend.Top = true

	if err := addBox(p, proj, bounds); err != nil {
		return nil, err
	}
	if err := addCone(p, proj, ledmap.NewConeOutline(meta.TreeHeight, o.ConePoints)); err != nil {
		return nil, err
	}

	if len(observed) > 0 {
		s, err := observedScatter(proj, observed, o.Confidence)
		if err != nil {
			return nil, err
		}
		p.Add(s)
		p.Legend.Add("Observed", s)
		t.legend = append(t.legend, "Observed")
	}
	if len(predicted) > 0 {
		s, err := projectedScatter(proj, predicted, withAlpha(predictedColor, 0.5), vg.Points(2.7))
		if err != nil {
			return nil, err
		}
		p.Add(s)
		p.Legend.Add("Predicted", s)
		t.legend = append(t.legend, "Predicted")
	}

	if o.Confidence {
		cb, err := confidenceBar()
		if err != nil {
			return nil, err
		}
		t.colorBar = cb
	}

	t.cu, t.cv, t.half = proj.screenExtent()
	t.plot = p
	return t, nil
}

// Size implements Figure.
func (t *TreeView) Size() (w, h vg.Length) { return t.width, t.height }

// Legend returns the legend entries in drawing order.
func (t *TreeView) Legend() []string { return append([]string(nil), t.legend...) }

// HasColorBar reports whether the confidence colorbar is drawn.
func (t *TreeView) HasColorBar() bool { return t.colorBar != nil }

// Draw implements Figure. The data ranges are fitted to the canvas so one unit
// on the x axis is as long as one unit on the y axis.
func (t *TreeView) Draw(c draw.Canvas) {
	area := c
	if t.colorBar != nil {
		w := c.Max.X - c.Min.X
		h := c.Max.Y - c.Min.Y
		barW := w * 0.1
		area = subCanvas(c, c.Min.X, c.Min.Y, c.Max.X-barW, c.Max.Y)
		t.colorBar.Draw(subCanvas(c, c.Max.X-barW, c.Min.Y+h*0.25, c.Max.X, c.Max.Y-h*0.25))
	}

	w := float64(area.Max.X - area.Min.X)
	h := float64(area.Max.Y-area.Min.Y) - float64(t.plot.Title.TextStyle.Height(t.Title)+t.plot.Title.Padding)
	hx, hy := t.half, t.half
	if w > 0 && h > 0 {
		if w > h {
			hx = t.half * w / h
		} else {
			hy = t.half * h / w
		}
	}
	t.plot.X.Min, t.plot.X.Max = t.cu-hx, t.cu+hx
	t.plot.Y.Min, t.plot.Y.Max = t.cv-hy, t.cv+hy
	t.plot.Draw(area)
}

func subCanvas(c draw.Canvas, minX, minY, maxX, maxY vg.Length) draw.Canvas {
	return draw.Canvas{
		Canvas: c.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: minX, Y: minY},
			Max: vg.Point{X: maxX, Y: maxY},
		},
	}
}

// observedScatter draws observed LEDs far-to-near, either in one colour or
// coloured by confidence.
func observedScatter(proj *Projector, observed []ledmap.Position, byConfidence bool) (*plotter.Scatter, error) {
	const radius = 3.5
	if !byConfidence {
		return projectedScatter(proj, observed, withAlpha(observedColor, 0.8), vg.Points(radius))
	}

	cm, err := Viridis()
	if err != nil {
		return nil, err
	}
	order := proj.projectSorted(observed)
	xys := make(plotter.XYs, len(order))
	styles := make([]draw.GlyphStyle, len(order))
	for i, pt := range order {
		xys[i] = plotter.XY{X: pt.u, Y: pt.v}
		styles[i] = draw.GlyphStyle{
			Color:  withAlpha(confidenceColor(cm, observed[pt.index].Confidence), 0.8),
			Radius: vg.Points(radius),
			Shape:  draw.CircleGlyph{},
		}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("observed scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  withAlpha(confidenceColor(cm, 0.5), 0.8),
		Radius: vg.Points(radius),
		Shape:  draw.CircleGlyph{},
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle { return styles[i] }
	return s, nil
}

func projectedScatter(proj *Projector, positions []ledmap.Position, c color.Color, radius vg.Length) (*plotter.Scatter, error) {
	order := proj.projectSorted(positions)
	xys := make(plotter.XYs, len(order))
	for i, pt := range order {
		xys[i] = plotter.XY{X: pt.u, Y: pt.v}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: radius, Shape: draw.CircleGlyph{}}
	return s, nil
}

// addBox draws the twelve box edges plus tick and axis labels on one bottom
// edge per horizontal axis and one vertical edge.
func addBox(p *plot.Plot, proj *Projector, b Bounds3D) error {
	corners := b.corners()
	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			if i&bit != 0 {
				continue
			}
			if err := addSegment(p, proj, corners[i], corners[i|bit], draw.LineStyle{
				Color: boxColor,
				Width: vg.Points(0.5),
			}); err != nil {
				return err
			}
		}
	}

	var xys plotter.XYs
	var labels []string
	axes := []axisEdge{
		xAxisEdge(proj, b),
		yAxisEdge(proj, b),
		zAxisEdge(proj, b),
	}
	for _, ax := range axes {
		for _, f := range []float64{0, 0.5, 1} {
			pt := lerp(ax.from, ax.to, f)
			u, v := outward(proj, pt, tickOffset)
			xys = append(xys, plotter.XY{X: u, Y: v})
			labels = append(labels, strconv.FormatFloat(ax.lo+(ax.hi-ax.lo)*f, 'g', 3, 64))
		}
		u, v := outward(proj, lerp(ax.from, ax.to, 0.5), labelOffset)
		xys = append(xys, plotter.XY{X: u, Y: v})
		labels = append(labels, ax.name)
	}

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("axis labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(l)
	return nil
}

type axisEdge struct {
	name     string
	from, to ledmap.Point3
	lo, hi   float64
}

// xAxisEdge picks the bottom edge parallel to x that faces the camera.
func xAxisEdge(proj *Projector, b Bounds3D) axisEdge {
	y := b.YMin
	if depthAt(proj, ledmap.Point3{Y: b.YMax, Z: b.ZMin}) > depthAt(proj, ledmap.Point3{Y: b.YMin, Z: b.ZMin}) {
		y = b.YMax
	}
	return axisEdge{
		name: "X (meters)",
		from: ledmap.Point3{X: b.XMin, Y: y, Z: b.ZMin},
		to:   ledmap.Point3{X: b.XMax, Y: y, Z: b.ZMin},
		lo:   b.XMin, hi: b.XMax,
	}
}

// yAxisEdge picks the bottom edge parallel to y that faces the camera.
func yAxisEdge(proj *Projector, b Bounds3D) axisEdge {
	x := b.XMin
	if depthAt(proj, ledmap.Point3{X: b.XMax, Z: b.ZMin}) > depthAt(proj, ledmap.Point3{X: b.XMin, Z: b.ZMin}) {
		x = b.XMax
	}
	return axisEdge{
		name: "Y (meters)",
		from: ledmap.Point3{X: x, Y: b.YMin, Z: b.ZMin},
		to:   ledmap.Point3{X: x, Y: b.YMax, Z: b.ZMin},
		lo:   b.YMin, hi: b.YMax,
	}
}

// zAxisEdge picks the vertical edge drawn furthest to the left.
func zAxisEdge(proj *Projector, b Bounds3D) axisEdge {
	best := ledmap.Point3{X: b.XMin, Y: b.YMin, Z: b.ZMin}
	bestU := math.Inf(1)
	corners := b.corners()
	for _, c := range corners[:4] {
		if u, _, _ := proj.Project(c); u < bestU {
			best, bestU = c, u
		}
	}
	top := best
	top.Z = b.ZMax
	return axisEdge{name: "Z (meters)", from: best, to: top, lo: b.ZMin, hi: b.ZMax}
}

func depthAt(proj *Projector, pt ledmap.Point3) float64 {
	_, _, d := proj.Project(pt)
	return d
}

func lerp(a, b ledmap.Point3, f float64) ledmap.Point3 {
	return ledmap.Point3{
		X: a.X + (b.X-a.X)*f,
		Y: a.Y + (b.Y-a.Y)*f,
		Z: a.Z + (b.Z-a.Z)*f,
	}
}

// outward projects pt and pushes it away from the screen centre of the box.
func outward(proj *Projector, pt ledmap.Point3, dist float64) (u, v float64) {
	u, v, _ = proj.Project(pt)
	n := math.Hypot(u, v)
	if n == 0 {
		return u, v - dist
	}
	return u + u/n*dist, v + v/n*dist
}

func addCone(p *plot.Plot, proj *Projector, cone ledmap.ConeOutline) error {
	style := draw.LineStyle{
		Color:  withAlpha(coneColor, 0.3),
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(4), vg.Points(2)},
	}
	for _, loop := range [][]ledmap.Point3{cone.Bottom, cone.Top} {
		xys := make(plotter.XYs, len(loop))
		for i, pt := range loop {
			xys[i].X, xys[i].Y, _ = proj.Project(pt)
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("cone outline: %w", err)
		}
		l.LineStyle = style
		p.Add(l)
	}
	for _, s := range cone.Spokes {
		if err := addSegment(p, proj, s[0], s[1], style); err != nil {
			return err
		}
	}
	return nil
}

func addSegment(p *plot.Plot, proj *Projector, a, b ledmap.Point3, style draw.LineStyle) error {
	au, av, _ := proj.Project(a)
	bu, bv, _ := proj.Project(b)
	l, err := plotter.NewLine(plotter.XYs{{X: au, Y: av}, {X: bu, Y: bv}})
	if err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	l.LineStyle = style
	p.Add(l)
	return nil
}

func confidenceBar() (*plot.Plot, error) {
	cm, err := Viridis()
	if err != nil {
		return nil, err
	}
	cb := plot.New()
	cb.HideX()
	cb.Y.Label.Text = "Confidence"
	cb.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: 256})
	return cb, nil
}
