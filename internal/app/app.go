// Package app runs the ledviz pipeline: load a dataset, print statistics, and
// render, save or display figures. Filesystem, console and display are
// injected so every branch can run in tests.
package app

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/ledviz/internal/config"
	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/banshee-data/ledviz/internal/ledmap"
	"github.com/banshee-data/ledviz/internal/monitoring"
	"github.com/banshee-data/ledviz/internal/render"
	"github.com/banshee-data/ledviz/internal/units"
)

// ErrInvalidOptions is wrapped by option errors found before any work starts.
var ErrInvalidOptions = errors.New("invalid options")

// ErrNoDisplay is returned when a figure must be shown but no Displayer is set.
var ErrNoDisplay = errors.New("no display available; use -save to write the figure to a file")

// Options selects what a run does.
type Options struct {
	InputPath   string
	Confidence  bool
	SavePath    string
	Projections bool
	StatsOnly   bool
	HTMLPath    string
	ConfigPath  string
	Units       string
	Strict      bool
	Verbose     bool
	ShowVersion bool
}

// PrintsStats reports whether the run prints the statistics report: always
// with -stats, and otherwise only when neither projections nor a save path
// was requested.
func (o Options) PrintsStats() bool {
	return o.StatsOnly || (!o.Projections && o.SavePath == "")
}

// App holds the run dependencies.
type App struct {
	FS      fsutil.FileSystem
	Out     io.Writer
	Display render.Displayer
}

// Run executes one invocation.
func (a *App) Run(o Options) error {
	cfg := config.DefaultRenderConfig()
	if o.ConfigPath != "" {
		loaded, err := config.LoadRenderConfig(a.FS, o.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", o.ConfigPath, err)
		}
		cfg = loaded
		monitoring.Debugf("loaded render config from %s", o.ConfigPath)
	}

	unit := units.Meters
	if o.Units != "" {
		if !units.IsValid(o.Units) {
			return fmt.Errorf("%w: unknown units %q (want one of %s)", ErrInvalidOptions, o.Units, units.GetValidUnitsString())
		}
		unit = units.Length(o.Units)
	}
	if o.SavePath != "" && !o.StatsOnly {
		if _, err := render.FormatFor(o.SavePath); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.Out, "Loading %s...\n", o.InputPath)
	ds, err := ledmap.Load(a.FS, o.InputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Loaded %d LED positions\n", ds.Len())

	if err := ds.CheckCounts(); err != nil {
		if o.Strict || cfg.GetStrictCounts() {
			return err
		}
		monitoring.Warnf("%v", err)
	}

	if o.PrintsStats() {
		summary, err := ledmap.Summarize(ds, cfg.GetHighConfidence())
		if err != nil {
			return err
		}
		if err := summary.WriteReport(a.Out, unit); err != nil {
			return fmt.Errorf("failed to write statistics: %w", err)
		}
	}
	if o.StatsOnly {
		return nil
	}

	if o.HTMLPath != "" {
		if err := a.writeHTML(ds, cfg, o); err != nil {
			return err
		}
	}

	fig, title, err := buildFigure(ds, cfg, o)
	if err != nil {
		return err
	}

	switch {
	case o.SavePath != "":
		if err := render.Save(a.FS, fig, o.SavePath, cfg.GetDPI()); err != nil {
			return err
		}
		if o.Projections {
			fmt.Fprintf(a.Out, "Saved projections to %s\n", o.SavePath)
		} else {
			fmt.Fprintf(a.Out, "Saved visualization to %s\n", o.SavePath)
		}
	case o.HTMLPath != "":
		// The interactive page replaces the window.
	default:
		if a.Display == nil {
			return ErrNoDisplay
		}
		img, err := render.Rasterize(fig, cfg.GetScreenDPI())
		if err != nil {
			return err
		}
		if err := a.Display.Display(title, img); err != nil {
			return fmt.Errorf("display failed: %w", err)
		}
	}
	return nil
}

func buildFigure(ds *ledmap.Dataset, cfg *config.RenderConfig, o Options) (render.Figure, string, error) {
	if o.Projections {
		w, h := cfg.GetProjectionsSize()
		v, err := render.NewProjectionView(ds, render.ProjectionOptions{
			Width:  vg.Length(w) * vg.Inch,
			Height: vg.Length(h) * vg.Inch,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to build projections: %w", err)
		}
		return v, "LED Tree Projections", nil
	}

	w, h := cfg.Get3DSize()
	v, err := render.NewTreeView(ds, render.TreeOptions{
		Confidence: o.Confidence,
		View: render.View{
			ElevationDeg: cfg.GetViewElevationDeg(),
			AzimuthDeg:   cfg.GetViewAzimuthDeg(),
		},
		ConePoints: cfg.GetConePoints(),
		Width:      vg.Length(w) * vg.Inch,
		Height:     vg.Length(h) * vg.Inch,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to build 3D view: %w", err)
	}
	return v, "LED Tree Map", nil
}

func (a *App) writeHTML(ds *ledmap.Dataset, cfg *config.RenderConfig, o Options) error {
	f, err := a.FS.Create(o.HTMLPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", o.HTMLPath, err)
	}
	err = render.WriteHTML(f, ds, render.HTMLOptions{
		Confidence: o.Confidence,
		ConePoints: cfg.GetConePoints(),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", o.HTMLPath, err)
	}
	fmt.Fprintf(a.Out, "Saved interactive view to %s\n", o.HTMLPath)
	return nil
}
