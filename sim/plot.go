package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type series struct {
	name  string
	color color.RGBA
	value func(s *Sample) float64
}

var plotSeries = []series{
	{"tilt", color.RGBA{R: 200, A: 255}, func(s *Sample) float64 { return s.Tilt }},
	{"roll weight", color.RGBA{G: 150, A: 255}, func(s *Sample) float64 { return s.Weights.Roll }},
	{"throttle weight", color.RGBA{B: 200, A: 255}, func(s *Sample) float64 { return s.Weights.Throttle }},
	{"phase / 4", color.RGBA{R: 120, G: 120, B: 120, A: 255}, func(s *Sample) float64 { return float64(s.Phase) / 4 }},
	{"airspeed / 20", color.RGBA{R: 200, G: 120, A: 255}, func(s *Sample) float64 { return s.Airspeed / 20 }},
}

// Plot renders the tilt, blend weights, phase and airspeed of the trace.
func (t *Trace) Plot(title string) (*plot.Plot, error) {
	if len(t.Samples) == 0 {
		return nil, fmt.Errorf("plot data invalid")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "normalized"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, sr := range plotSeries {
		pts := make(plotter.XYs, len(t.Samples))
		for i := range t.Samples {
			pts[i].X = t.Samples[i].T.Seconds()
			pts[i].Y = sr.value(&t.Samples[i])
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = sr.color
		p.Add(line)
		p.Legend.Add(sr.name, line)
	}
	return p, nil
}

// WritePlot saves the plot; the format follows the file extension (png, svg, pdf).
func (t *Trace) WritePlot(path, title string) error {
	p, err := t.Plot(title)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("cannot write plot: %w", err)
	}
	return nil
}
