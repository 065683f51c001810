package r718

import (
	"fmt"
)

// MixingMode selects the momentum balance of the mixing chamber.
type MixingMode string

const (
	ConstantPressure MixingMode = "constant_pressure"
	ConstantArea     MixingMode = "constant_area"
)

// number of trial velocities of the constant-area search
const mixingScanPoints = 40

/*
Mixes the primary and secondary jets at constant pressure.

	Args:
		pp: property provider
		p, s: primary and secondary jets at the mixing pressure
		mu: entrainment ratio, -
		phi: momentum efficiency of the mixing, -
		h0: stagnation enthalpy of the mixture, J/kg

	Returns:
		mixed jet at the mixing pressure, error

	Notes:
		(1 + mu) c_m = phi (c_p + mu c_s), h_m = h0 - c_m^2 / 2.
*/
func mixConstantPressure(pp PropertyProvider, p, s jet, mu, phi, h0 float64) (jet, error) {
	c := phi * (p.c + mu*s.c) / (1.0 + mu)
	h := h0 - 0.5*c*c
	st, err := pp.Resolve(PropP, p.state.P, PropH, h)
	if err != nil {
		return jet{}, err
	}
	return jet{state: st, c: c, g: st.Rho * c}, nil
}

/*
Mixes the primary and secondary jets in a duct of constant area.

	Args:
		pp: property provider
		p, s: primary and secondary jets at the mixing-section inlet pressure
		mPri, mSec: mass flows, kg/s
		area: mixing-section area, m2
		phi: momentum efficiency of the mixing, -
		h0: stagnation enthalpy of the mixture, J/kg

	Returns:
		mixed jet at the mixing-section exit, error

	Notes:
		P_m A + phi (m_p c_p + m_s c_s) = P_6 A + m_t c_6, rho_6 c_6 A = m_t
		and h_6 + c_6^2 / 2 = h0. The velocity is scanned downward from the
		largest value that keeps P_6 above the triple point and the first sign
		change of the continuity defect is refined. That is the supersonic root
		when it lies inside the property domain. Otherwise it is the subsonic
		root, the state behind a normal shock standing in the duct.
*/
func mixConstantArea(pp PropertyProvider, p, s jet, mPri, mSec, area, phi, h0 float64) (jet, error) {
	pm := p.state.P
	mt := mPri + mSec
	impulse := phi * (mPri*p.c + mSec*s.c)

	state := func(c float64) (ThermoState, error) {
		p6 := pm + (impulse-mt*c)/area
		return pp.Resolve(PropP, p6, PropH, h0-0.5*c*c)
	}
	defect := func(c float64) (float64, error) {
		st, err := state(c)
		if err != nil {
			return 0, err
		}
		return st.Rho*c*area - mt, nil
	}

	cMax := (impulse + (pm-TriplePointPressure)*area) / mt
	cMax *= 1.0 - 1.0e-6
	if cMax <= 0 {
		return jet{}, fmt.Errorf("%w: constant-area mixing has no admissible velocity", ErrNonPhysical)
	}

	prevC := cMax
	prev, err := defect(prevC)
	if err != nil {
		return jet{}, err
	}
	for i := 1; i <= mixingScanPoints; i++ {
		c := cMax * (1.0 - float64(i)/float64(mixingScanPoints))
		f, err := defect(c)
		if err != nil {
			return jet{}, err
		}
		if (f >= 0) != (prev >= 0) {
			root, err := brent(defect, c, prevC, 1.0e-9*cMax, 200)
			if err != nil {
				return jet{}, nonPhysicalRoot(err, "constant-area mixing")
			}
			st, err := state(root)
			if err != nil {
				return jet{}, err
			}
			return jet{state: st, c: root, g: st.Rho * root}, nil
		}
		prevC, prev = c, f
	}
	return jet{}, fmt.Errorf("%w: constant-area momentum balance is unsolvable", ErrNonPhysical)
}
