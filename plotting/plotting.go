// Package plotting renders a recorded simulation history to an image.
package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/OneLunarSkye/Self-Organized-Criticality/sim"
)

type series struct {
	name   string
	values []float64
	color  color.RGBA
}

// Render writes one chart with every recorded metric series over time,
// plus a dashed vertical marker per critical point. The output format
// follows the file extension (png, svg, pdf, ...).
func Render(history *sim.History, path string) error {
	p := plot.New()
	p.Title.Text = "System Metrics Over Time"
	p.X.Label.Text = "Time Step"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	all := []series{
		{"Fragmentation (%)", history.Fragmentation, color.RGBA{R: 214, G: 39, B: 40, A: 255}},
		{"Save Time", history.SaveTime, color.RGBA{R: 31, G: 119, B: 180, A: 255}},
		{"Load Time", history.LoadTime, color.RGBA{R: 44, G: 160, B: 44, A: 255}},
		{"Access Time", history.AccessTime, color.RGBA{R: 148, G: 103, B: 189, A: 255}},
		{"Frag. Calc Time", history.FragCalcTime, color.RGBA{R: 255, G: 127, B: 14, A: 255}},
	}

	top := 0.0
	for _, s := range all {
		line, err := plotter.NewLine(toXYs(s.values))
		if err != nil {
			return fmt.Errorf("building %q series: %w", s.name, err)
		}
		line.Color = s.color
		p.Add(line)
		p.Legend.Add(s.name, line)
		for _, v := range s.values {
			if v > top {
				top = v
			}
		}
	}

	for _, step := range history.CriticalPoints {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: float64(step), Y: 0},
			{X: float64(step), Y: top},
		})
		if err != nil {
			return fmt.Errorf("building critical point marker: %w", err)
		}
		marker.Color = color.Black
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("Critical Point @ %d", step), marker)
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func toXYs(values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
	}
	return xys
}
