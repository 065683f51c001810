package r718

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Indices of the pressure unknowns.
const (
	unknownEvap = iota
	unknownCond
	nUnknowns
)

// relative step of the finite-difference Jacobian on the scaled pressures
const jacobianStep = 1.0e-4

type pressureBracket struct {
	lo, hi float64 // Pa
}

func (b pressureBracket) contains(p float64) bool {
	return p > b.lo && p < b.hi
}

func (b pressureBracket) mid() float64 {
	return 0.5 * (b.lo + b.hi)
}

// pressureUpdate drives the evaporator and condenser pressures onto the roots
// of their heat-exchanger residuals.
type pressureUpdate struct {
	active  [nUnknowns]bool
	initial [nUnknowns]pressureBracket
	bracket [nUnknowns]pressureBracket
	ref     [nUnknowns]float64 // scaling pressures, Pa
	damping float64
	maxStep float64
}

/*
Sets up the pressure update with its initial brackets.

	Args:
		pp: property provider
		cfg: run configuration
		pEvap, pCond: starting pressures, Pa

	Returns:
		*pressureUpdate, error

	Notes:
		evaporator: [Psat(T_out - 30 K), Psat(T_out)] of the chilled stream, and not
		below the pressure whose choked mixing pressure reaches the triple point.
		condenser: (Psat(T_air,out), Psat(T_air,out + 40 K)].
*/
func newPressureUpdate(pp PropertyProvider, cfg Config, pEvap, pCond float64) (*pressureUpdate, error) {
	u := &pressureUpdate{
		ref:     [nUnknowns]float64{pEvap, pCond},
		damping: cfg.Solver.Damping,
		maxStep: cfg.Solver.MaxStep,
	}

	if hx := cfg.Evaporator.HeatExchanger; hx.Enabled {
		lo, err := SaturationPressure(pp, math.Max(hx.TOut-30.0, TriplePointTemp))
		if err != nil {
			return nil, fmt.Errorf("evaporator bracket: %w", err)
		}
		hi, err := SaturationPressure(pp, hx.TOut)
		if err != nil {
			return nil, fmt.Errorf("evaporator bracket: %w", err)
		}
		lo = math.Max(lo, TriplePointPressure/criticalRatio(cfg.Ejector.Gamma)*(1.0+1.0e-3))
		u.active[unknownEvap] = true
		u.bracket[unknownEvap] = pressureBracket{lo: lo, hi: hi}
	}

	tAir := cfg.Condenser.AirOut
	lo, err := SaturationPressure(pp, tAir)
	if err != nil {
		return nil, fmt.Errorf("condenser bracket: %w", err)
	}
	hi, err := SaturationPressure(pp, tAir+40.0)
	if err != nil {
		return nil, fmt.Errorf("condenser bracket: %w", err)
	}
	u.active[unknownCond] = true
	u.bracket[unknownCond] = pressureBracket{lo: lo * (1.0 + 1.0e-6), hi: hi}

	u.initial = u.bracket
	for i := range u.bracket {
		if u.active[i] && u.bracket[i].lo >= u.bracket[i].hi {
			return nil, fmt.Errorf("%w: empty pressure bracket [%.1f, %.1f] Pa",
				ErrInvalidParameter, u.bracket[i].lo, u.bracket[i].hi)
		}
	}
	return u, nil
}

// narrow moves the bracket ends to p from the sign of its residual. The
// evaporator residual falls with pressure and the condenser residual rises.
func (u *pressureUpdate) narrow(p, r [nUnknowns]float64) {
	for i := range p {
		if !u.active[i] || r[i] == 0 || math.IsNaN(r[i]) {
			continue
		}
		b := &u.bracket[i]
		rises := i == unknownCond
		if (r[i] > 0) == rises {
			b.hi = math.Min(b.hi, p[i])
		} else {
			b.lo = math.Max(b.lo, p[i])
		}
	}
}

/*
Computes the next pressures.

	Args:
		p: current pressures, Pa
		r: heat-exchanger residuals at p
		local: residual of one unknown at a trial pressure with the rest of the cycle frozen

	Returns:
		next pressures, Pa, error

	Notes:
		Damped Newton step on x = P / P_ref with a central-difference Jacobian.
		A step that leaves its bracket, or a singular Jacobian, is replaced by
		bisection. The mass flows move between iterations and the root with them,
		so a bracket that no longer changes sign is reset before bisecting.
*/
func (u *pressureUpdate) step(p, r [nUnknowns]float64, local func(i int, p float64) (float64, error)) ([nUnknowns]float64, error) {
	u.narrow(p, r)

	x := make([]float64, nUnknowns)
	for i := range x {
		x[i] = p[i] / u.ref[i]
	}

	var ferr error
	f := func(y, x []float64) {
		for i := range y {
			if !u.active[i] {
				y[i] = x[i]
				continue
			}
			v, err := local(i, x[i]*u.ref[i])
			if err != nil && ferr == nil {
				ferr = err
			}
			y[i] = v
		}
	}
	jac := mat.NewDense(nUnknowns, nUnknowns, nil)
	fd.Jacobian(jac, f, x, &fd.JacobianSettings{Formula: fd.Central, Step: jacobianStep})
	if ferr != nil {
		return p, ferr
	}

	rhs := mat.NewVecDense(nUnknowns, nil)
	for i := range p {
		if u.active[i] {
			rhs.SetVec(i, -r[i])
		}
	}
	var dx mat.VecDense
	newton := dx.SolveVec(jac, rhs) == nil

	next := p
	for i := range p {
		if !u.active[i] {
			continue
		}
		b := u.bracket[i]
		cand := math.NaN()
		if newton {
			d := u.damping * dx.AtVec(i) * u.ref[i]
			lim := u.maxStep * p[i]
			cand = p[i] + math.Max(-lim, math.Min(lim, d))
		}
		if math.IsNaN(cand) || !b.contains(cand) {
			if err := u.recheck(i, local); err != nil {
				return p, err
			}
			cand = u.bracket[i].mid()
		}
		next[i] = cand
	}
	return next, nil
}

// recheck resets bracket i to its initial extent when its ends no longer
// enclose a sign change of the residual.
func (u *pressureUpdate) recheck(i int, local func(i int, p float64) (float64, error)) error {
	b := u.bracket[i]
	fLo, err := local(i, b.lo)
	if err != nil {
		return err
	}
	fHi, err := local(i, b.hi)
	if err != nil {
		return err
	}
	if (fLo > 0) != (fHi > 0) {
		return nil
	}
	u.bracket[i] = u.initial[i]
	return nil
}

// retreat lowers the condenser pressure after the ejector could not sustain p.
// It reports false once the bracket has collapsed.
func (u *pressureUpdate) retreat(p float64) (float64, bool) {
	b := &u.bracket[unknownCond]
	b.hi = math.Min(b.hi, p)
	if b.hi-b.lo <= 1.0e-9*b.hi {
		return p, false
	}
	return b.mid(), true
}
