package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// viridisStops are the control colours used by every confidence colour scale,
// both in static figures and in the HTML view.
var viridisStops = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

var (
	observedColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	predictedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	coneColor      = color.RGBA{A: 255}
	boxColor       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// Viridis returns a continuous viridis colour map over [0, 1].
func Viridis() (palette.ColorMap, error) {
	controls := make([]color.Color, len(viridisStops))
	for i, hex := range viridisStops {
		c, err := parseHexColor(hex)
		if err != nil {
			return nil, err
		}
		controls[i] = c
	}
	cm, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, fmt.Errorf("building viridis colour map: %w", err)
	}
	cm.SetMin(0)
	cm.SetMax(1)
	return cm, nil
}

// confidenceColor maps v onto cm after clamping to [0, 1].
func confidenceColor(cm palette.ColorMap, v float64) color.Color {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(1, v))
	c, err := cm.At(v)
	if err != nil {
		return observedColor
	}
	return c
}

// withAlpha returns c with its opacity replaced by a in [0, 1].
func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(a * 255))
	return n
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
