// Package export writes trial data to external artifacts (CSV, PNG).
package export

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"cartlab/internal/model"
)

var (
	forceColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	velocityColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	motionColor   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// WriteTrialPNG renders both trial series, with the motion window marked by
// vertical rules, into a single PNG.
func WriteTrialPNG(path string, signals model.TrialSignals) error {
	if len(signals.TimesS) == 0 {
		return fmt.Errorf("trial has no samples")
	}
	p := plot.New()
	p.Title.Text = "Trial signals"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "force (N) / velocity (m/s)"
	p.Legend.Top = true

	forceLine, err := seriesLine(signals.TimesS, signals.ForceN, forceColor)
	if err != nil {
		return err
	}
	velLine, err := seriesLine(signals.TimesS, signals.VelocityMps, velocityColor)
	if err != nil {
		return err
	}
	p.Add(forceLine, velLine)
	p.Legend.Add("force", forceLine)
	p.Legend.Add("velocity", velLine)

	if signals.MotionWindow != nil {
		m := signals.MotionWindow.Normalized()
		for _, t := range []float64{m.StartS, m.EndS} {
			rule, err := verticalRule(t, signals)
			if err != nil {
				return err
			}
			p.Add(rule)
		}
	}

	return savePNG(p, 8.0, 4.5, path)
}

func seriesLine(xs, ys []float64, c color.RGBA) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	return line, nil
}

func verticalRule(t float64, signals model.TrialSignals) (*plotter.Line, error) {
	lo, hi := seriesBounds(signals)
	line, err := plotter.NewLine(plotter.XYs{{X: t, Y: lo}, {X: t, Y: hi}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = motionColor
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line, nil
}

func seriesBounds(signals model.TrialSignals) (float64, float64) {
	lo, hi := signals.ForceN[0], signals.ForceN[0]
	for _, series := range [][]float64{signals.ForceN, signals.VelocityMps} {
		for _, v := range series {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(144),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close; WriteTo errors already surfaced.
			_ = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return bw.Flush()
}
