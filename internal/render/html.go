package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/palette"

	"github.com/banshee-data/ledviz/internal/ledmap"
)

// HTMLOptions controls WriteHTML.
type HTMLOptions struct {
	// Confidence colours each observed point by its confidence on the viridis
	// map. Predicted points and the cone guide keep their series colour.
	Confidence bool
	ConePoints int
	// AssetsHost overrides where the page loads echarts from; empty uses the
	// go-echarts default CDN.
	AssetsHost string
}

// spokeSamples is the number of dots drawn along each cone spoke.
const spokeSamples = 12

// NewScatter3D builds the interactive 3D chart of ds: observed and predicted
// series, a faint cone guide, and axis ranges equal to TreeBounds.
func NewScatter3D(ds *ledmap.Dataset, o HTMLOptions) (*charts.Scatter3D, error) {
	meta := ds.Metadata()
	observed, predicted := ds.Partition()
	b := TreeBounds(meta.TreeHeight)

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  fmt.Sprintf("LED Tree Map - %d LEDs", meta.TotalLEDs),
			Width:      "900px",
			Height:     "900px",
			AssetsHost: o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("LED Tree Map - %d LEDs", meta.TotalLEDs),
			Subtitle: fmt.Sprintf("%d observed, %d predicted", meta.NumObserved, meta.NumPredicted),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X (m)", Min: b.XMin, Max: b.XMax}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y (m)", Min: b.YMin, Max: b.YMax}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z (m)", Min: b.ZMin, Max: b.ZMax}),
		charts.WithGrid3DOpts(opts.Grid3D{BoxWidth: 100, BoxHeight: 100, BoxDepth: 100}),
	}

	var cm palette.ColorMap
	if o.Confidence {
		var err error
		if cm, err = Viridis(); err != nil {
			return nil, err
		}
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(global...)

	scatter.AddSeries("Cone guide", coneData(ledmap.NewConeOutline(meta.TreeHeight, o.ConePoints)),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(0,0,0,0.3)"}),
	)
	if len(observed) > 0 {
		scatter.AddSeries("Observed", positionData(observed, cm),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 7}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(31,119,180,0.8)"}),
		)
	}
	if len(predicted) > 0 {
		scatter.AddSeries("Predicted", positionData(predicted, nil),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(214,39,40,0.5)"}),
		)
	}
	return scatter, nil
}

// WriteHTML renders the interactive 3D page for ds to w.
func WriteHTML(w io.Writer, ds *ledmap.Dataset, o HTMLOptions) error {
	scatter, err := NewScatter3D(ds, o)
	if err != nil {
		return err
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render 3D chart: %w", err)
	}
	return nil
}

// positionData colours each point from cm by confidence when cm is non-nil.
func positionData(positions []ledmap.Position, cm palette.ColorMap) []opts.Chart3DData {
	data := make([]opts.Chart3DData, 0, len(positions))
	for _, p := range positions {
		item := opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}}
		if cm != nil {
			item.Value = append(item.Value, p.Confidence)
			item.ItemStyle = &opts.ItemStyle{Color: cssColor(withAlpha(confidenceColor(cm, p.Confidence), 0.8))}
		}
		data = append(data, item)
	}
	return data
}

func cssColor(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, float64(c.A)/255)
}

func coneData(cone ledmap.ConeOutline) []opts.Chart3DData {
	data := make([]opts.Chart3DData, 0, len(cone.Bottom)+len(cone.Top)+len(cone.Spokes)*spokeSamples)
	add := func(p ledmap.Point3) {
		data = append(data, opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}})
	}
	for _, p := range cone.Bottom {
		add(p)
	}
	for _, p := range cone.Top {
		add(p)
	}
	for _, s := range cone.Spokes {
		for i := 1; i < spokeSamples; i++ {
			add(lerp(s[0], s[1], float64(i)/spokeSamples))
		}
	}
	return data
}
