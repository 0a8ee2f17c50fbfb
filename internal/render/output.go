package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/banshee-data/ledviz/internal/monitoring"
)

// ErrUnsupportedFormat is returned when a save path has an extension that no
// backend can write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedFormats lists the save extensions, without dots.
var SupportedFormats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf"}

// Figure is anything that can be drawn on a fixed-size canvas.
type Figure interface {
	Size() (w, h vg.Length)
	Draw(c draw.Canvas)
}

// Displayer shows a rendered figure to the user. Display blocks until the
// user dismisses it.
type Displayer interface {
	Display(title string, img image.Image) error
}

// FormatFor returns the lower-case format name for path, or an error wrapping
// ErrUnsupportedFormat.
func FormatFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range SupportedFormats {
		if ext == f {
			return ext, nil
		}
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension (want one of %s)", ErrUnsupportedFormat, path, strings.Join(SupportedFormats, ", "))
	}
	return "", fmt.Errorf("%w: .%s (want one of %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedFormats, ", "))
}

// Save renders fig and writes it to path on fsys. Raster formats use dpi;
// vector formats ignore it. The format is checked before any file is created.
func Save(fsys fsutil.FileSystem, fig Figure, path string, dpi float64) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	out, err := canvasFor(fig, format, dpi)
	if err != nil {
		return err
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := out.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	monitoring.Debugf("wrote %d bytes of %s to %s", n, format, path)
	return nil
}

func canvasFor(fig Figure, format string, dpi float64) (io.WriterTo, error) {
	w, h := fig.Size()
	var (
		c  vg.CanvasSizer
		wt io.WriterTo
	)
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		img, err := rasterCanvas(w, h, dpi)
		if err != nil {
			return nil, err
		}
		c = img
		switch format {
		case "png":
			wt = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			wt = vgimg.JpegCanvas{Canvas: img}
		default:
			wt = vgimg.TiffCanvas{Canvas: img}
		}
	case "svg":
		s := vgsvg.New(w, h)
		c, wt = s, s
	case "pdf":
		p := vgpdf.New(w, h)
		c, wt = p, p
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	fig.Draw(draw.New(c))
	return wt, nil
}

func rasterCanvas(w, h vg.Length, dpi float64) (*vgimg.Canvas, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("dpi must be positive, got %v", dpi)
	}
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(dpi))), nil
}

// Rasterize draws fig into an image at the given resolution, for on-screen
// display.
func Rasterize(fig Figure, dpi float64) (image.Image, error) {
	w, h := fig.Size()
	c, err := rasterCanvas(w, h, dpi)
	if err != nil {
		return nil, err
	}
	fig.Draw(draw.New(c))
	return c.Image(), nil
}

// FitWithin scales a w x h size down, keeping its aspect ratio, until it fits
// in maxW x maxH. Sizes that already fit are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	scale := 1.0
	if sx := float64(maxW) / float64(w); sx < scale {
		scale = sx
	}
	if sy := float64(maxH) / float64(h); sy < scale {
		scale = sy
	}
	if scale == 1 {
		return w, h
	}
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}
