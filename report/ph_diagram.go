package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"r718"
)

// number of points on each branch of the saturation dome
const domePoints = 60

/*
Builds the pressure-enthalpy diagram of a run.

	Args:
		pp: property provider for the saturation dome
		res: run result

	Returns:
		*plot.Plot with h in kJ/kg and P in kPa on a log axis, error

	Notes:
		The dome spans from the triple point to 30 K above the generator temperature.
		The primary loop is drawn as 1-4-5-6-7-1 and the secondary branch as 1-2-3-6.
*/
func PHDiagram(pp r718.PropertyProvider, res r718.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "R718 ejector cycle"
	p.X.Label.Text = "h, kJ/kg"
	p.Y.Label.Text = "P, kPa"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	tTop := math.Min(res.Conditions.TGen+30.0, 623.15)
	tLow := r718.TriplePointTemp
	liquid := make(plotter.XYs, domePoints)
	vapour := make(plotter.XYs, domePoints)
	for i := 0; i < domePoints; i++ {
		t := tLow + (tTop-tLow)*float64(i)/float64(domePoints-1)
		l, err := pp.Resolve(r718.PropT, t, r718.PropQ, 0)
		if err != nil {
			return nil, fmt.Errorf("saturation dome: %w", err)
		}
		v, err := pp.Resolve(r718.PropT, t, r718.PropQ, 1)
		if err != nil {
			return nil, fmt.Errorf("saturation dome: %w", err)
		}
		liquid[i] = plotter.XY{X: l.H / 1000.0, Y: l.P / 1000.0}
		vapour[i] = plotter.XY{X: v.H / 1000.0, Y: v.P / 1000.0}
	}

	pt := func(n int) plotter.XY {
		st := res.State(n)
		return plotter.XY{X: st.H / 1000.0, Y: st.P / 1000.0}
	}
	primary := plotter.XYs{pt(1), pt(4), pt(5), pt(6), pt(7), pt(1)}
	secondary := plotter.XYs{pt(1), pt(2), pt(3), pt(6)}

	if err := plotutil.AddLines(p,
		"saturated liquid", liquid,
		"saturated vapour", vapour,
	); err != nil {
		return nil, err
	}
	if err := plotutil.AddLinePoints(p,
		"primary loop", primary,
		"secondary loop", secondary,
	); err != nil {
		return nil, err
	}

	labels := plotter.XYLabels{XYs: make(plotter.XYs, 7), Labels: make([]string, 7)}
	for n := 1; n <= 7; n++ {
		labels.XYs[n-1] = pt(n)
		labels.Labels[n-1] = fmt.Sprintf("%d", n)
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(l)
	p.Legend.Top = true
	return p, nil
}

// SavePHDiagram renders the P-h diagram to a file; the format follows the extension.
func SavePHDiagram(path string, pp r718.PropertyProvider, res r718.Result) error {
	p, err := PHDiagram(pp, res)
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
