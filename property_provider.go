package r718

import (
	"math"
)

// Property names an independent state variable accepted by a PropertyProvider.
type Property int

const (
	PropP Property = iota + 1 // pressure, Pa
	PropT                     // temperature, K
	PropH                     // specific enthalpy, J/kg
	PropS                     // specific entropy, J/kg K
	PropQ                     // quality, -
)

func (p Property) String() string {
	switch p {
	case PropP:
		return "P"
	case PropT:
		return "T"
	case PropH:
		return "h"
	case PropS:
		return "s"
	case PropQ:
		return "x"
	default:
		return "?"
	}
}

// PropertyProvider resolves a full water state from two independent properties.
type PropertyProvider interface {
	Resolve(a Property, va float64, b Property, vb float64) (ThermoState, error)
}

// Domain of the IAPWS97 provider.
const (
	TriplePointPressure = 611.657 // Pa
	TriplePointTemp     = 273.16  // K
	maxPressure         = 10.0e6  // Pa
	minTemperature      = 273.15  // K
	maxTemperature      = 1073.15 // K
	maxSaturationTemp   = 623.15  // K, upper end of the region 1/2 saturation boundary
)

const (
	inverseTol     = 1.0e-9 // K
	inverseMaxIter = 100
)

// IAPWS97 resolves water states with the IAPWS-IF97 regions 1, 2 and 4.
type IAPWS97 struct{}

// Resolve implements PropertyProvider. The pair may be given in any order.
func (IAPWS97) Resolve(a Property, va float64, b Property, vb float64) (ThermoState, error) {
	if a > b {
		a, va, b, vb = b, vb, a, va
	}
	fail := func(reason string) (ThermoState, error) {
		return ThermoState{}, &PropertyError{A: a, VA: va, B: b, VB: vb, Reason: reason}
	}
	if math.IsNaN(va) || math.IsInf(va, 0) || math.IsNaN(vb) || math.IsInf(vb, 0) {
		return fail("non-finite input")
	}

	switch {
	case a == PropP && b == PropT:
		if reason := checkPressure(va); reason != "" {
			return fail(reason)
		}
		if vb < minTemperature || vb > maxTemperature {
			return fail("temperature outside 273.15..1073.15 K")
		}
		return stateFromPT(va, vb), nil

	case a == PropP && b == PropQ:
		if reason := checkPressure(va); reason != "" {
			return fail(reason)
		}
		if vb < 0 || vb > 1 {
			return fail("quality outside [0,1]")
		}
		return saturationState(va, saturationTemperature(va), vb), nil

	case a == PropT && b == PropQ:
		if va < TriplePointTemp || va > maxSaturationTemp {
			return fail("saturation temperature outside 273.16..623.15 K")
		}
		if vb < 0 || vb > 1 {
			return fail("quality outside [0,1]")
		}
		return saturationState(saturationPressure(va), va, vb), nil

	case a == PropP && b == PropH:
		if reason := checkPressure(va); reason != "" {
			return fail(reason)
		}
		st, reason := stateFromPH(va, vb)
		if reason != "" {
			return fail(reason)
		}
		return st, nil

	case a == PropP && b == PropS:
		if reason := checkPressure(va); reason != "" {
			return fail(reason)
		}
		st, reason := stateFromPS(va, vb)
		if reason != "" {
			return fail(reason)
		}
		return st, nil
	}

	return fail("unsupported property pair")
}

func checkPressure(p float64) string {
	switch {
	case p < TriplePointPressure:
		return "pressure below the triple point of water"
	case p > maxPressure:
		return "pressure above 10 MPa"
	}
	return ""
}

func singlePhase(p, t float64, pp phaseProps) ThermoState {
	return ThermoState{P: p, T: t, H: pp.h, S: pp.s, X: SinglePhase, Rho: 1.0 / pp.v}
}

// stateFromPT selects the liquid or vapour region by comparing p with the
// saturation pressure at t.
func stateFromPT(p, t float64) ThermoState {
	if t <= maxSaturationTemp && p >= saturationPressure(t) {
		return singlePhase(p, t, region1(p, t))
	}
	return singlePhase(p, t, region2(p, t))
}

func saturationState(p, t, x float64) ThermoState {
	l := region1(p, t)
	g := region2(p, t)
	v := l.v + x*(g.v-l.v)
	return ThermoState{
		P:   p,
		T:   t,
		H:   l.h + x*(g.h-l.h),
		S:   l.s + x*(g.s-l.s),
		X:   x,
		Rho: 1.0 / v,
	}
}

/*
Resolves a state from pressure and enthalpy.

	Args:
		p: pressure, Pa
		h: specific enthalpy, J/kg

	Returns:
		state, and a failure reason when the pair is outside the domain

	Notes:
		The returned H equals the input h exactly.
*/
func stateFromPH(p, h float64) (ThermoState, string) {
	ts := saturationTemperature(p)
	l := region1(p, ts)
	g := region2(p, ts)

	var st ThermoState
	switch {
	case h < l.h:
		if h < region1(p, minTemperature).h {
			return ThermoState{}, "enthalpy below the liquid domain"
		}
		t, err := newtonBracketed(func(t float64) (float64, float64) {
			r := region1(p, t)
			return r.h - h, r.cp
		}, minTemperature, ts, inverseTol, inverseMaxIter)
		if err != nil {
			return ThermoState{}, "liquid temperature inversion: " + err.Error()
		}
		st = singlePhase(p, t, region1(p, t))

	case h > g.h:
		if h > region2(p, maxTemperature).h {
			return ThermoState{}, "enthalpy above the vapour domain"
		}
		t, err := newtonBracketed(func(t float64) (float64, float64) {
			r := region2(p, t)
			return r.h - h, r.cp
		}, ts, maxTemperature, inverseTol, inverseMaxIter)
		if err != nil {
			return ThermoState{}, "vapour temperature inversion: " + err.Error()
		}
		st = singlePhase(p, t, region2(p, t))

	default:
		st = saturationState(p, ts, (h-l.h)/(g.h-l.h))
	}

	st.H = h
	return st, ""
}

/*
Resolves a state from pressure and entropy.

	Args:
		p: pressure, Pa
		s: specific entropy, J/kg K

	Returns:
		state, and a failure reason when the pair is outside the domain
*/
func stateFromPS(p, s float64) (ThermoState, string) {
	ts := saturationTemperature(p)
	l := region1(p, ts)
	g := region2(p, ts)

	var st ThermoState
	switch {
	case s < l.s:
		if s < region1(p, minTemperature).s {
			return ThermoState{}, "entropy below the liquid domain"
		}
		t, err := newtonBracketed(func(t float64) (float64, float64) {
			r := region1(p, t)
			return r.s - s, r.cp / t
		}, minTemperature, ts, inverseTol, inverseMaxIter)
		if err != nil {
			return ThermoState{}, "liquid temperature inversion: " + err.Error()
		}
		st = singlePhase(p, t, region1(p, t))

	case s > g.s:
		if s > region2(p, maxTemperature).s {
			return ThermoState{}, "entropy above the vapour domain"
		}
		t, err := newtonBracketed(func(t float64) (float64, float64) {
			r := region2(p, t)
			return r.s - s, r.cp / t
		}, ts, maxTemperature, inverseTol, inverseMaxIter)
		if err != nil {
			return ThermoState{}, "vapour temperature inversion: " + err.Error()
		}
		st = singlePhase(p, t, region2(p, t))

	default:
		st = saturationState(p, ts, (s-l.s)/(g.s-l.s))
	}

	st.S = s
	return st, ""
}

// SaturationPressure returns the saturation pressure of water at t, Pa.
func SaturationPressure(pp PropertyProvider, t float64) (float64, error) {
	st, err := pp.Resolve(PropT, t, PropQ, 0)
	if err != nil {
		return 0, err
	}
	return st.P, nil
}

// SaturationTemperature returns the saturation temperature of water at p, K.
func SaturationTemperature(pp PropertyProvider, p float64) (float64, error) {
	st, err := pp.Resolve(PropP, p, PropQ, 0)
	if err != nil {
		return 0, err
	}
	return st.T, nil
}
