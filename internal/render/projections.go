package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/ledviz/internal/ledmap"
)

// ProjectionOptions controls NewProjectionView.
type ProjectionOptions struct {
	// Width and Height default to 15x5 inches.
	Width, Height vg.Length
}

// ProjectionView shows the dataset as three side-by-side 2D projections under
// a common title. It implements Figure.
type ProjectionView struct {
	Title  string
	Panels [3]*plot.Plot

	titleStyle    text.Style
	width, height vg.Length
	// topRange is the top panel's range before it is fitted to its canvas.
	topRange dataRange
}

type dataRange struct {
	xMin, xMax, yMin, yMax float64
}

type panelSpec struct {
	title          string
	xLabel, yLabel string
	x, y           func(ledmap.Position) float64
}

var projectionPanels = [3]panelSpec{
	{"Top View (X-Y)", "X (meters)", "Y (meters)", posX, posY},
	{"Side View (X-Z)", "X (meters)", "Z (meters)", posX, posZ},
	{"Front View (Y-Z)", "Y (meters)", "Z (meters)", posY, posZ},
}

func posX(p ledmap.Position) float64 { return p.X }
func posY(p ledmap.Position) float64 { return p.Y }
func posZ(p ledmap.Position) float64 { return p.Z }

// NewProjectionView builds the top, side and front projections of ds. Only the
// top view has a legend and an equal aspect ratio.
func NewProjectionView(ds *ledmap.Dataset, o ProjectionOptions) (*ProjectionView, error) {
	if o.Width <= 0 {
		o.Width = 15 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 5 * vg.Inch
	}

	observed, predicted := ds.Partition()
	v := &ProjectionView{
		Title:  fmt.Sprintf("LED Tree Projections - %d LEDs", ds.Metadata().TotalLEDs),
		width:  o.Width,
		height: o.Height,
	}

	for i, spec := range projectionPanels {
		p := plot.New()
		p.Title.Text = spec.title
		p.X.Label.Text = spec.xLabel
		p.Y.Label.Text = spec.yLabel

		grid := plotter.NewGrid()
		grid.Vertical.Color = withAlpha(color.Gray{Y: 128}, 0.3)
		grid.Horizontal.Color = withAlpha(color.Gray{Y: 128}, 0.3)
		p.Add(grid)

		obs, err := panelScatter(observed, spec, withAlpha(observedColor, 0.6), vg.Points(2.7))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.title, err)
		}
		pred, err := panelScatter(predicted, spec, withAlpha(predictedColor, 0.4), vg.Points(2.2))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.title, err)
		}
		if obs != nil {
			p.Add(obs)
		}
		if pred != nil {
			p.Add(pred)
		}

		if i == 0 {
			if obs != nil {
				p.Legend.Add("Observed", obs)
			}
			if pred != nil {
				p.Legend.Add("Predicted", pred)
			}
			p.Legend.Top = true
			equalSpans(p)
		}
		v.Panels[i] = p
	}

	top := v.Panels[0]
	v.topRange = dataRange{top.X.Min, top.X.Max, top.Y.Min, top.Y.Max}

	v.titleStyle = v.Panels[0].Title.TextStyle
	v.titleStyle.Font.Size = vg.Points(14)
	v.titleStyle.XAlign = text.XCenter
	v.titleStyle.YAlign = text.YTop
	return v, nil
}

// panelScatter returns nil for an empty subset.
func panelScatter(positions []ledmap.Position, spec panelSpec, c color.Color, radius vg.Length) (*plotter.Scatter, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	xys := make(plotter.XYs, len(positions))
	for i, pos := range positions {
		xys[i] = plotter.XY{X: spec.x(pos), Y: spec.y(pos)}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: radius, Shape: draw.CircleGlyph{}}
	return s, nil
}

// equalSpans widens the shorter axis range so both axes cover the same
// data length around their centres, with a 5% margin.
func equalSpans(p *plot.Plot) {
	if math.IsInf(p.X.Min, 0) || math.IsInf(p.Y.Min, 0) {
		return
	}
	span := math.Max(p.X.Max-p.X.Min, p.Y.Max-p.Y.Min)
	if span == 0 {
		span = 1
	}
	half := span / 2 * 1.05
	cx, cy := (p.X.Min+p.X.Max)/2, (p.Y.Min+p.Y.Max)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}

// Size implements Figure.
func (v *ProjectionView) Size() (w, h vg.Length) { return v.width, v.height }

// Draw implements Figure. The top panel's ranges are fitted to its data
// canvas so one meter on x is drawn as long as one meter on y.
func (v *ProjectionView) Draw(c draw.Canvas) {
	pad := vg.Points(8)
	c.FillText(v.titleStyle, vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: c.Max.Y - pad}, v.Title)
	body := subCanvas(c, c.Min.X, c.Min.Y, c.Max.X, c.Max.Y-v.titleStyle.Height(v.Title)-2*pad)

	canvases := v.layout(body)
	for i, p := range v.Panels {
		p.Draw(canvases[0][i])
	}
}

// layout aligns the panels on c and fits the top panel to equal aspect.
// Tick labels change with the ranges, and so does the data canvas, so the
// fit is repeated against the realigned tiles.
func (v *ProjectionView) layout(c draw.Canvas) [][]draw.Canvas {
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(v.Panels),
		PadX:      vg.Points(24),
		PadLeft:   vg.Points(6),
		PadRight:  vg.Points(12),
		PadBottom: vg.Points(6),
	}
	top := v.Panels[0]
	r := v.topRange
	top.X.Min, top.X.Max = r.xMin, r.xMax
	top.Y.Min, top.Y.Max = r.yMin, r.yMax

	canvases := plot.Align([][]*plot.Plot{v.Panels[:]}, tiles, c)
	for i := 0; i < 2; i++ {
		fitAspect(top, r, top.DataCanvas(canvases[0][0]))
		canvases = plot.Align([][]*plot.Plot{v.Panels[:]}, tiles, c)
	}
	return canvases
}

// fitAspect widens one axis of r so that both axes of p get the same number
// of points per data unit on dc.
func fitAspect(p *plot.Plot, r dataRange, dc draw.Canvas) {
	sx, sy := r.xMax-r.xMin, r.yMax-r.yMin
	w, h := float64(dc.Max.X-dc.Min.X), float64(dc.Max.Y-dc.Min.Y)
	if w <= 0 || h <= 0 || sx <= 0 || sy <= 0 || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		return
	}
	if w/sx > h/sy {
		sx = sy * w / h
	} else {
		sy = sx * h / w
	}
	cx, cy := (r.xMin+r.xMax)/2, (r.yMin+r.yMax)/2
	p.X.Min, p.X.Max = cx-sx/2, cx+sx/2
	p.Y.Min, p.Y.Max = cy-sy/2, cy+sy/2
}
