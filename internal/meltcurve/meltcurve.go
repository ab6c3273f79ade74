// internal/meltcurve/meltcurve.go
package meltcurve

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const rGas = 1.9872 // cal/(K*mol)

// FractionBound is the two-state fraction of strands in the structured
// state at tempC, from uncorrected dH (cal/mol) and salt-corrected dS
// (cal/(K*mol)): θ(T) = 1 / (1 + exp(ΔG(T)/(R·T))).
func FractionBound(dH, dS, tempC float64) float64 {
	tK := tempC + 273.15
	dG := dH - tK*dS
	return 1 / (1 + math.Exp(dG/(rGas*tK)))
}

// Curve samples θ(T) over [minC, maxC] with the given step.
func Curve(dH, dS, minC, maxC, step float64) plotter.XYs {
	if step <= 0 {
		step = 0.5
	}
	var pts plotter.XYs
	for t := minC; t <= maxC+1e-9; t += step {
		pts = append(pts, plotter.XY{X: t, Y: FractionBound(dH, dS, t)})
	}
	return pts
}

// WritePNG renders the melt curve for one structure to path.
func WritePNG(path, title string, dH, dS float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "temperature (°C)"
	p.Y.Label.Text = "fraction bound"
	p.Y.Min, p.Y.Max = 0, 1

	line, err := plotter.NewLine(Curve(dH, dS, 0, 100, 0.5))
	if err != nil {
		return fmt.Errorf("meltcurve: %v", err)
	}
	p.Add(plotter.NewGrid(), line)

	return p.Save(6*vg.Inch, 3*vg.Inch, path)
}
