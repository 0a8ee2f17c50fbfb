// Command ledviz visualizes LED positions mapped on a tree: it prints summary
// statistics and renders a 3D scatter or 2D projections that can be saved to a
// file or shown in a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/ledviz/internal/app"
	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/banshee-data/ledviz/internal/monitoring"
	"github.com/banshee-data/ledviz/internal/version"
	"github.com/banshee-data/ledviz/internal/viewer"
)

func main() {
	opts, err := app.ParseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Println(version.String())
		return
	}

	monitoring.SetVerbose(opts.Verbose)

	a := &app.App{
		FS:      fsutil.OSFileSystem{},
		Out:     os.Stdout,
		Display: &viewer.Window{},
	}
	if err := a.Run(opts); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
