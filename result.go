package r718

import (
	"github.com/google/uuid"
)

// Sizing holds the heat-transfer areas of a run.
type Sizing struct {
	EvaporatorArea float64 // m2, 0 without an evaporator heat exchanger
	CondenserArea  float64 // m2
	CollectorArea  float64 // collector area that balances the generator duty, m2, 0 in heat-exchanger mode
	GeneratorArea  float64 // m2, generator heat-exchanger area in heat-exchanger mode
}

// Cycle-level warning thresholds.
const (
	lowCOPLimit         = 0.1  // -
	lowEntrainmentLimit = 0.01 // -
)

// cycleFlags raises FlagLowCOP and FlagLowEntrainment.
func cycleFlags(cop, mu float64) Flag {
	var f Flag
	if cop < lowCOPLimit {
		f |= FlagLowCOP
	}
	if mu < lowEntrainmentLimit {
		f |= FlagLowEntrainment
	}
	return f
}

// Result is the immutable snapshot of a finished run.
type Result struct {
	RunID           uuid.UUID
	Conditions      Conditions
	Stage           Stage
	Iterations      map[Stage]int
	TotalIterations int

	// cycle points 1..7 at index 0..6
	States [7]ThermoState

	PGen  float64 // Pa
	PEvap float64 // Pa
	PCond float64 // Pa

	MassPrimary   float64 // kg/s
	MassSecondary float64 // kg/s
	Entrainment   float64 // -

	QEvap    float64 // W
	QGen     float64 // W
	QCond    float64 // W
	WPump    float64 // W
	COP      float64 // Q_evap / Q_gen
	COPTotal float64 // Q_evap / (Q_gen + W_pump)

	Residual  float64 // max-norm of the final residual vector
	Residuals map[string]float64
	Flags     Flag // FlagLowCOP, FlagLowEntrainment

	Ejector     EjectorResult
	Diagnostics map[Kind]Diagnostics
	Sizing      Sizing
	History     []HistoryRow
}

// State returns cycle point n, 1..7.
func (r Result) State(n int) ThermoState {
	return r.States[n-1]
}

// result freezes the working set.
func (s *systemState) result(id uuid.UUID, cfg Config, stage Stage, iterations map[Stage]int, history []HistoryRow) Result {
	res := Result{
		RunID:         id,
		Conditions:    cfg.Conditions,
		Stage:         stage,
		Iterations:    make(map[Stage]int, len(iterations)),
		States:        s.points,
		PGen:          s.pGen,
		PEvap:         s.pEvap,
		PCond:         s.pCond,
		MassPrimary:   s.mPri,
		MassSecondary: s.mSec,
		Entrainment:   s.mu,
		QEvap:         s.qEvap,
		QGen:          s.qGen,
		QCond:         s.qCond,
		WPump:         s.wPump,
		COP:           s.cop(),
		COPTotal:      s.copTotal(),
		Residuals:     s.residuals.toMap(),
		Ejector:       s.ejector,
		Diagnostics:   make(map[Kind]Diagnostics, len(s.diags)),
		History:       history,
	}
	for k, v := range iterations {
		res.Iterations[k] = v
		res.TotalIterations += v
	}
	res.Residual, _ = s.residuals.max()
	res.Flags = cycleFlags(res.COP, res.Entrainment)
	for k, d := range s.diags {
		values := make(map[string]float64, len(d.Values))
		for name, v := range d.Values {
			values[name] = v
		}
		res.Diagnostics[k] = Diagnostics{Component: d.Component, Flags: d.Flags, Values: values}
	}

	if cfg.Evaporator.HeatExchanger.Enabled {
		res.Sizing.EvaporatorArea = areaOrRequired(cfg.Evaporator.HeatExchanger.Area, s.diags[KindEvaporator])
	}
	res.Sizing.CondenserArea = areaOrRequired(cfg.Condenser.Area, s.diags[KindCondenser])
	if cfg.Generator.Mode == GeneratorHeatExchanger {
		res.Sizing.GeneratorArea = areaOrRequired(cfg.Generator.HeatExchanger.Area, s.diags[KindGenerator])
	} else {
		res.Sizing.CollectorArea = s.diags[KindGenerator].Values[ValueAreaRequired]
	}
	return res
}

// areaOrRequired returns the configured area, or the required one while it is unsized.
func areaOrRequired(area float64, d Diagnostics) float64 {
	if area > 0 {
		return area
	}
	return d.Values[ValueAreaRequired]
}
