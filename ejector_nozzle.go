package r718

import (
	"fmt"
	"math"
)

// jet is a stream with a static state, a velocity and a mass flux.
type jet struct {
	state ThermoState
	c     float64 // m/s
	g     float64 // kg/m2 s
}

// stagnant returns a jet at rest, used for a secondary stream that carries no flow.
func stagnant(st ThermoState) jet {
	return jet{state: st}
}

/*
Expands a stagnant stream through a nozzle to a lower static pressure.

	Args:
		pp: property provider
		in: stagnation state at the nozzle inlet
		p: static pressure at the nozzle exit, Pa
		eta: isentropic efficiency of the expansion, -

	Returns:
		jet at p, error

	Notes:
		dh = eta (h_in - h(p, s_in)), c = sqrt(2 dh). The exit state is (p, h_in - dh).
*/
func expand(pp PropertyProvider, in ThermoState, p, eta float64) (jet, error) {
	if p >= in.P {
		return jet{}, fmt.Errorf("%w: exit pressure %.1f Pa is not below the inlet %.1f Pa",
			ErrSupersonicInfeasible, p, in.P)
	}
	is, err := pp.Resolve(PropP, p, PropS, in.S)
	if err != nil {
		return jet{}, err
	}
	dhIs := in.H - is.H
	if dhIs <= 0 {
		return jet{}, fmt.Errorf("%w: isentropic enthalpy drop %.1f J/kg to %.1f Pa",
			ErrSupersonicInfeasible, dhIs, p)
	}
	dh := eta * dhIs
	st, err := pp.Resolve(PropP, p, PropH, in.H-dh)
	if err != nil {
		return jet{}, err
	}
	c := math.Sqrt(2.0 * dh)
	return jet{state: st, c: c, g: st.Rho * c}, nil
}

// criticalRatio is the ideal-gas critical pressure ratio (2/(gamma+1))^(gamma/(gamma-1)).
func criticalRatio(gamma float64) float64 {
	return math.Pow(2.0/(gamma+1.0), gamma/(gamma-1.0))
}

// mach is the ideal-gas Mach number of a jet.
func mach(j jet, gamma, r float64) float64 {
	return j.c / math.Sqrt(gamma*r*j.state.T)
}
