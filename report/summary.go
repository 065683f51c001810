package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"r718"
)

// Summary prints the headline figures of a run.
func Summary(w io.Writer, res r718.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	c := res.Conditions
	fmt.Fprintf(tw, "run\t%s\n", res.RunID)
	fmt.Fprintf(tw, "stage\t%s (%d iterations)\n", res.Stage, res.TotalIterations)
	fmt.Fprintf(tw, "T_gen / T_cond / T_evap\t%.2f / %.2f / %.2f K\n", c.TGen, c.TCond, c.TEvap)
	fmt.Fprintf(tw, "P_gen / P_cond / P_evap\t%.1f / %.1f / %.1f Pa\n", res.PGen, res.PCond, res.PEvap)
	fmt.Fprintf(tw, "m_pri / m_sec\t%.5f / %.5f kg/s\n", res.MassPrimary, res.MassSecondary)
	fmt.Fprintf(tw, "entrainment ratio\t%.4f\n", res.Entrainment)
	if res.Stage == r718.StageShock {
		fmt.Fprintf(tw, "ejector regime\t%s (P_crit_back %.1f Pa, P_max_back %.1f Pa)\n",
			res.Ejector.Regime, res.Ejector.CriticalBackPressure, res.Ejector.MaxBackPressure)
	}
	fmt.Fprintf(tw, "Q_evap / Q_gen / Q_cond\t%.1f / %.1f / %.1f W\n", res.QEvap, res.QGen, res.QCond)
	fmt.Fprintf(tw, "W_pump\t%.2f W\n", res.WPump)
	fmt.Fprintf(tw, "COP / COP_total\t%.4f / %.4f\n", res.COP, res.COPTotal)
	fmt.Fprintf(tw, "areas evap / cond / collector\t%.2f / %.2f / %.2f m2\n",
		res.Sizing.EvaporatorArea, res.Sizing.CondenserArea, res.Sizing.CollectorArea)
	if res.Sizing.GeneratorArea > 0 {
		fmt.Fprintf(tw, "generator exchanger area\t%.2f m2\n", res.Sizing.GeneratorArea)
	}
	fmt.Fprintf(tw, "max residual\t%.3e\n", res.Residual)
	if res.Flags != 0 {
		fmt.Fprintf(tw, "flags cycle\t%s\n", res.Flags)
	}

	kinds := make([]r718.Kind, 0, len(res.Diagnostics))
	for k := range res.Diagnostics {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		if f := res.Diagnostics[k].Flags; f != 0 {
			fmt.Fprintf(tw, "flags %s\t%s\n", k, f)
		}
	}
	return tw.Flush()
}
