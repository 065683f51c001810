package r718

import (
	"math"
)

// HeatExchanger describes the external stream of the evaporator.
type HeatExchanger struct {
	Enabled bool    `yaml:"enabled"`
	K       float64 `yaml:"k"`     // overall heat transfer coefficient, W/m2 K
	Area    float64 `yaml:"area"`  // m2, 0 means sized from the first converged duty
	TIn     float64 `yaml:"t_in"`  // external stream inlet temperature, K
	TOut    float64 `yaml:"t_out"` // external stream outlet temperature, K
}

func (hx HeatExchanger) Validate(name string) error {
	if !hx.Enabled {
		return nil
	}
	if hx.K <= 0 {
		return invalidParam(name+".k", hx.K, "> 0")
	}
	if hx.Area < 0 {
		return invalidParam(name+".area", hx.Area, ">= 0")
	}
	if hx.TIn <= 0 || hx.TOut <= 0 {
		return invalidParam(name+".t_out", hx.TOut, "> 0 K")
	}
	return nil
}

/*
Computes the log-mean temperature difference.

	Args:
		dt1: temperature difference at one end, K
		dt2: temperature difference at the other end, K

	Returns:
		(1) LMTD, K
		(2) false when either end has a non-positive approach
*/
func getLMTD(dt1, dt2 float64) (float64, bool) {
	if dt1 <= 0 || dt2 <= 0 {
		return 0, false
	}
	if math.Abs(dt1-dt2) < 1.0e-9 {
		return dt1, true
	}
	return (dt1 - dt2) / math.Log(dt1/dt2), true
}

/*
Compares a duty from the refrigerant energy balance with K A LMTD.

	Args:
		d: diagnostics to fill
		q: duty from the energy balance, W
		k: overall heat transfer coefficient, W/m2 K
		area: heat transfer area, m2
		dt1, dt2: end temperature differences, K
		tolerance: relative mismatch above which FlagThermalMismatch is raised

	Notes:
		An invalid LMTD gives Q_KA = 0 and a residual of -1, which keeps the
		residual monotone in the saturation pressure.
*/
func checkDuty(d *Diagnostics, q, k, area, dt1, dt2, tolerance float64) {
	lmtd, ok := getLMTD(dt1, dt2)
	if !ok {
		d.raise(FlagInvalidLMTD)
		d.Values[ValueLMTD] = 0
		d.Values[ValueHeatKA] = 0
		d.Values[ValueAreaRequired] = math.Inf(1)
		d.Values[ValueResidual] = -1
		d.raise(FlagThermalMismatch)
		return
	}
	qKA := k * area * lmtd
	d.Values[ValueLMTD] = lmtd
	d.Values[ValueHeatKA] = qKA
	d.Values[ValueAreaRequired] = q / (k * lmtd)

	residual := (qKA - q) / q
	d.Values[ValueResidual] = residual
	if math.Abs(residual) > tolerance {
		d.raise(FlagThermalMismatch)
	}
}
