package app

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/ledviz/internal/render"
	"github.com/banshee-data/ledviz/internal/units"
)

// ParseArgs parses command-line arguments. Flags may appear before or after
// the input file. A -h or -help request returns flag.ErrHelp after printing
// usage to stderr.
func ParseArgs(name string, args []string, stderr io.Writer) (Options, error) {
	o := Options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&o.Confidence, "confidence", false, "Color observed LEDs by confidence (3D view and HTML)")
	fs.StringVar(&o.SavePath, "save", "", "Save the figure to this path instead of displaying it ("+strings.Join(render.SupportedFormats, ", ")+")")
	fs.BoolVar(&o.Projections, "projections", false, "Show top, side and front 2D projections instead of the 3D view")
	fs.BoolVar(&o.StatsOnly, "stats", false, "Print statistics only, without rendering")
	fs.StringVar(&o.HTMLPath, "html", "", "Also write an interactive 3D HTML page to this path")
	fs.StringVar(&o.ConfigPath, "config", "", "Render config file (.json, .yaml or .yml)")
	fs.StringVar(&o.Units, "units", string(units.Meters), "Length units for the statistics report ("+units.GetValidUnitsString()+")")
	fs.BoolVar(&o.Strict, "strict", false, "Fail when declared LED counts do not match the records")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose output")
	fs.BoolVar(&o.ShowVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] FILE\n\n", name)
		fmt.Fprintf(stderr, "Visualize LED positions mapped on a tree.\n\n")
		fmt.Fprintf(stderr, "FILE is the LED position JSON exported by the mapping app.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s led_positions.json\n", name)
		fmt.Fprintf(stderr, "  %s led_positions.json -confidence -save tree.png\n", name)
		fmt.Fprintf(stderr, "  %s led_positions.json -projections -save projections.pdf\n", name)
		fmt.Fprintf(stderr, "  %s led_positions.json -stats -units cm\n", name)
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return o, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if o.ShowVersion {
		return o, nil
	}
	switch len(positional) {
	case 0:
		fs.Usage()
		return o, fmt.Errorf("%w: input file is required", ErrInvalidOptions)
	case 1:
		o.InputPath = positional[0]
	default:
		return o, fmt.Errorf("%w: expected one input file, got %d (%s)", ErrInvalidOptions, len(positional), strings.Join(positional, " "))
	}
	return o, nil
}
