package r718

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// initial guess of the evaporator enthalpy rise for the secondary flow, J/kg
const seedLatentHeat = 2.4e6

// Coupler closes the cycle: it iterates the six components until the
// residual vector vanishes, escalating through the stages.
type Coupler struct {
	Provider PropertyProvider
	Config   Config
	Logger   logrus.FieldLogger
}

// NewCoupler returns a coupler on IAPWS-IF97 that logs to the standard logger.
func NewCoupler(cfg Config) *Coupler {
	return &Coupler{Provider: IAPWS97{}, Config: cfg, Logger: logrus.StandardLogger()}
}

// Run solves cfg with the default provider and logger.
func Run(cfg Config) (Result, error) {
	return NewCoupler(cfg).Run(context.Background())
}

// cycle holds the component models built from one configuration.
type cycle struct {
	pump      Pump
	generator Generator
	valve     ExpansionValve
	evap      Evaporator
	ejector   Ejector
	cond      Condenser
}

func newCycle(pp PropertyProvider, cfg Config) cycle {
	return cycle{
		pump:      Pump{Provider: pp, Params: cfg.Pump},
		generator: Generator{Provider: pp, Params: cfg.Generator},
		valve:     ExpansionValve{Provider: pp, Params: cfg.Valve},
		evap:      Evaporator{Provider: pp, Params: cfg.Evaporator},
		ejector:   Ejector{Provider: pp, Params: cfg.Ejector},
		cond:      Condenser{Provider: pp, Params: cfg.Condenser},
	}
}

// stages lists the stages entered for cfg in order.
func stages(cfg Config) []Stage {
	out := []Stage{StageFixedPressure}
	if cfg.Solver.FinalStage >= StageHeatExchanger && !cfg.Solver.FixedPressures {
		out = append(out, StageHeatExchanger)
	}
	if cfg.Solver.FinalStage >= StageShock {
		out = append(out, StageShock)
	}
	return out
}

/*
Runs the coupler.

	Args:
		ctx: cancels the run between iterations

	Returns:
		Result of the last stage, error

	Notes:
		Every stage starts from the working set of the previous one. A stage
		exits when the max-norm of the residuals is below Solver.Tolerance and
		every state of the chain is valid.
*/
func (c *Coupler) Run(ctx context.Context) (Result, error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	pp := c.Provider
	if pp == nil {
		pp = IAPWS97{}
	}
	var log logrus.FieldLogger = logrus.StandardLogger()
	if c.Logger != nil {
		log = c.Logger
	}
	id := uuid.New()
	log = log.WithField("run_id", id.String())

	s, err := c.initialState(pp, cfg)
	if err != nil {
		return Result{}, &IterationError{Stage: StageFixedPressure, Iteration: 0, Wrapped: err}
	}

	rec := newRecorder(cfg.Solver.MaxIterations)
	iterations := make(map[Stage]int)
	var last Stage
	for _, stage := range stages(cfg) {
		if stage == StageHeatExchanger {
			if err := sizeHeatExchangers(&cfg, s); err != nil {
				return Result{}, &IterationError{Stage: stage, Iteration: 0, Wrapped: err}
			}
			log.WithFields(logrus.Fields{
				"evaporator_area": cfg.Evaporator.HeatExchanger.Area,
				"condenser_area":  cfg.Condenser.Area,
			}).Info("heat exchangers sized")
		}

		var pu *pressureUpdate
		if stage >= StageHeatExchanger && !cfg.Solver.FixedPressures {
			if pu, err = newPressureUpdate(pp, cfg, s.pEvap, s.pCond); err != nil {
				return Result{}, &IterationError{Stage: stage, Iteration: 0, Wrapped: err}
			}
		}

		n, err := c.runStage(ctx, log, stage, cfg, pp, s, pu, rec)
		iterations[stage] = n
		if err != nil {
			return Result{}, err
		}
		last = stage
	}
	return s.result(id, cfg, last, iterations, rec.history()), nil
}

// liquidAt returns the condenser outlet state at p.
func liquidAt(pp PropertyProvider, cfg Config, p float64) (ThermoState, error) {
	st, err := pp.Resolve(PropP, p, PropQ, 0)
	if err != nil {
		return ThermoState{}, err
	}
	if cfg.Condenser.Subcooling > 0 {
		return pp.Resolve(PropP, p, PropT, st.T-cfg.Condenser.Subcooling)
	}
	return st, nil
}

func (c *Coupler) initialState(pp PropertyProvider, cfg Config) (*systemState, error) {
	s := newSystemState()
	var err error
	s.pGen, s.pCond, s.pEvap, err = cfg.Conditions.pressures(pp)
	if err != nil {
		return nil, err
	}
	p1, err := liquidAt(pp, cfg, s.pCond)
	if err != nil {
		return nil, err
	}
	s.setPoint(1, p1)
	s.mu = cfg.Solver.AssumedEntrainment
	if cfg.Conditions.Direct() {
		s.mPri = cfg.Conditions.PrimaryFlow
		s.mSec = s.mu * s.mPri
		return s, nil
	}
	s.mSec = cfg.Conditions.CoolingCapacity / seedLatentHeat
	s.mPri = s.mSec / s.mu
	return s, nil
}

/*
Sizes the heat exchangers left without an area from the converged duties.

	Args:
		cfg: configuration updated in place
		s: converged working set

	Notes:
		A = Q / (K LMTD), taken from the A_req of the last component solve.
*/
func sizeHeatExchangers(cfg *Config, s *systemState) error {
	if hx := &cfg.Evaporator.HeatExchanger; hx.Enabled && hx.Area == 0 {
		a := s.diags[KindEvaporator].Values[ValueAreaRequired]
		if !(a > 0) || math.IsInf(a, 0) {
			return invalidParam("evaporator.heat_exchanger.area", a, "a finite sized area")
		}
		hx.Area = a
	}
	if cfg.Condenser.Area == 0 {
		a := s.diags[KindCondenser].Values[ValueAreaRequired]
		if !(a > 0) || math.IsInf(a, 0) {
			return invalidParam("condenser.area", a, "a finite sized area")
		}
		cfg.Condenser.Area = a
	}
	return nil
}

// runStage iterates one stage. It returns the number of iterations spent.
func (c *Coupler) runStage(ctx context.Context, log logrus.FieldLogger, stage Stage, cfg Config,
	pp PropertyProvider, s *systemState, pu *pressureUpdate, rec *recorder) (int, error) {

	cyc := newCycle(pp, cfg)
	tol := cfg.Solver.Tolerance
	target := cfg.Conditions.CoolingCapacity
	hx := pu != nil
	evapHX := hx && cfg.Evaporator.HeatExchanger.Enabled

	slog := log.WithField("stage", stage.String())
	slog.WithFields(logrus.Fields{
		"p_evap": s.pEvap,
		"p_cond": s.pCond,
		"mu":     s.mu,
	}).Info("stage entered")

	for it := 1; it <= cfg.Solver.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return it - 1, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
		}

		if err := c.iterate(stage, cyc, target, hx, evapHX, s); err != nil {
			if !errors.Is(err, ErrEjectorMalfunction) {
				return it, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
			}
			overshoot := math.NaN()
			var ee *EjectorError
			if errors.As(err, &ee) && ee.MaxBackPressure > 0 {
				overshoot = (ee.BackPressure - ee.MaxBackPressure) / ee.MaxBackPressure
			}
			if pu == nil {
				return it, &ConvergenceError{Stage: stage, Iterations: it, Dominant: ResidualMalfunction, Residual: overshoot, Cause: err}
			}
			next, ok := pu.retreat(s.pCond)
			if !ok {
				return it, &ConvergenceError{Stage: stage, Iterations: it, Dominant: ResidualMalfunction, Residual: overshoot, Cause: err}
			}
			slog.WithFields(logrus.Fields{
				"iteration": it,
				"p_cond":    s.pCond,
				"next":      next,
			}).Warn("ejector malfunction, lowering condenser pressure")
			if err := c.movePressures(pp, cfg, s, s.pEvap, next); err != nil {
				return it, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
			}
			continue
		}

		rec.record(stage, it, s)
		maxRes, dominant := s.residuals.max()
		slog.WithFields(logrus.Fields{
			"iteration":    it,
			"max_residual": maxRes,
			"dominant":     dominant,
			"p_evap":       s.pEvap,
			"p_cond":       s.pCond,
			"mu":           s.mu,
		}).Debug("iteration")

		if maxRes < tol {
			if err := s.validate(); err == nil {
				slog.WithFields(logrus.Fields{
					"iterations": it,
					"cop":        s.cop(),
					"mu":         s.mu,
				}).Info("stage converged")
				return it, nil
			}
		}

		s.advance(target)
		if pu != nil {
			local := c.localResidual(cyc, s)
			p := [nUnknowns]float64{s.pEvap, s.pCond}
			var r [nUnknowns]float64
			for i := range p {
				if !pu.active[i] {
					continue
				}
				v, err := local(i, p[i])
				if err != nil {
					return it, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
				}
				r[i] = v
			}
			next, err := pu.step(p, r, local)
			if err != nil {
				return it, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
			}
			if err := c.movePressures(pp, cfg, s, next[unknownEvap], next[unknownCond]); err != nil {
				return it, &IterationError{Stage: stage, Iteration: it, Wrapped: err}
			}
		}
	}

	maxRes, dominant := s.residuals.max()
	return cfg.Solver.MaxIterations, &ConvergenceError{
		Stage:      stage,
		Iterations: cfg.Solver.MaxIterations,
		Dominant:   dominant,
		Residual:   maxRes,
	}
}

// movePressures sets new evaporator and condenser pressures and moves point 1
// onto the condenser outlet at the new condenser pressure.
func (c *Coupler) movePressures(pp PropertyProvider, cfg Config, s *systemState, pEvap, pCond float64) error {
	if pCond != s.pCond {
		p1, err := liquidAt(pp, cfg, pCond)
		if err != nil {
			return err
		}
		s.setPoint(1, p1)
	}
	s.pEvap, s.pCond = pEvap, pCond
	return nil
}

/*
Evaluates the heat-exchanger residual of one pressure unknown with the rest of
the cycle frozen.

	Args:
		cyc: component models
		s: working set

	Returns:
		residual function of (unknown index, trial pressure)

	Notes:
		evaporator: valve and evaporator from point 1 at the trial pressure.
		condenser: the ejector outlet enthalpy is held and re-resolved at the trial pressure.
*/
func (c *Coupler) localResidual(cyc cycle, s *systemState) func(i int, p float64) (float64, error) {
	p1 := s.point(1)
	h7 := s.point(7).H
	mSec := s.mSec
	mTot := s.mPri + s.mSec
	pp := cyc.cond.Provider
	return func(i int, p float64) (float64, error) {
		switch i {
		case unknownEvap:
			p2, _, err := cyc.valve.Solve(p1, Boundary{P: p, MassFlow: mSec})
			if err != nil {
				return 0, err
			}
			_, d, err := cyc.evap.Solve(p2, Boundary{P: p, MassFlow: mSec})
			if err != nil {
				return 0, err
			}
			return d.Values[ValueResidual], nil
		case unknownCond:
			p7, err := pp.Resolve(PropP, p, PropH, h7)
			if err != nil {
				return 0, err
			}
			_, d, err := cyc.cond.Solve(p7, Boundary{P: p, MassFlow: mTot})
			if err != nil {
				return 0, err
			}
			return d.Values[ValueResidual], nil
		}
		return 0, fmt.Errorf("%w: pressure unknown %d", ErrInvalidParameter, i)
	}
}

/*
Runs the six components once in cycle order.

	Args:
		stage: coupler stage, selects the ejector mode
		cyc: component models
		target: cooling capacity, W, 0 holds the primary flow
		hx, evapHX: which heat-exchanger residuals take part
		s: working set, updated in place

	Returns:
		error of the first failing component
*/
func (c *Coupler) iterate(stage Stage, cyc cycle, target float64, hx, evapHX bool, s *systemState) error {
	p1 := s.point(1)

	p4, err := s.solve(cyc.pump, p1, Boundary{P: s.pGen, MassFlow: s.mPri})
	if err != nil {
		return err
	}
	p5, err := s.solve(cyc.generator, p4, Boundary{P: s.pGen, MassFlow: s.mPri})
	if err != nil {
		return err
	}
	p2, err := s.solve(cyc.valve, p1, Boundary{P: s.pEvap, MassFlow: s.mSec})
	if err != nil {
		return err
	}
	p3, err := s.solve(cyc.evap, p2, Boundary{P: s.pEvap, MassFlow: s.mSec})
	if err != nil {
		return err
	}

	var ej EjectorResult
	if stage == StageShock {
		ej, err = cyc.ejector.Solve(p5, p3, s.pCond, s.mPri)
	} else {
		ej, err = cyc.ejector.Forward(p5, p3, s.pCond, s.mPri, s.mu)
	}
	s.diags[KindEjector] = ej.Diagnostics
	if err != nil {
		return err
	}
	s.ejector = ej
	if stage == StageShock {
		if !(ej.Entrainment > 0) {
			return &EjectorError{
				Stage:                "entrainment",
				BackPressure:         s.pCond,
				CriticalBackPressure: ej.CriticalBackPressure,
				MaxBackPressure:      ej.MaxBackPressure,
				Wrapped:              ErrEjectorMalfunction,
			}
		}
		s.mu = ej.Entrainment
	}

	closure, err := s.solve(cyc.cond, ej.Outlet, Boundary{P: s.pCond, MassFlow: s.mPri + s.mSec})
	if err != nil {
		return err
	}

	s.setPoint(2, p2)
	s.setPoint(3, p3)
	s.setPoint(4, p4)
	s.setPoint(5, p5)
	s.setPoint(6, ej.Mixed)
	s.setPoint(7, ej.Outlet)
	s.closure = closure

	s.balances()
	s.computeResiduals(target, hx, evapHX)
	return nil
}
