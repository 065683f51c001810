package r718

import (
	"fmt"
)

// number of trial velocities of the shock search
const shockScanPoints = 40

// entropy decrease tolerated across a shock before it is rejected, J/kg K
const shockEntropyTol = 1.0e-6

/*
Applies a normal shock to the mixed stream.

	Args:
		pp: property provider
		up: mixed jet upstream of the shock
		h0: stagnation enthalpy, J/kg

	Returns:
		(1) jet downstream of the shock, or up itself when no shock forms
		(2) true when a shock was applied
		(3) error

	Notes:
		Real-fluid Rankine-Hugoniot relations with G = rho_1 c_1:
		rho_2 c_2 = G, P_2 = P_1 + G (c_1 - c_2), h_2 = h0 - c_2^2 / 2.
		The compressive root is searched on (0, c_1). When the continuity defect
		never changes sign there the stream is subsonic and passes unchanged.
*/
func normalShock(pp PropertyProvider, up jet, h0 float64) (jet, bool, error) {
	if up.c <= 0 {
		return up, false, nil
	}
	g := up.g
	c1 := up.c
	p1 := up.state.P

	state := func(c float64) (ThermoState, error) {
		return pp.Resolve(PropP, p1+g*(c1-c), PropH, h0-0.5*c*c)
	}
	defect := func(c float64) (float64, error) {
		st, err := state(c)
		if err != nil {
			return 0, err
		}
		return st.Rho*c - g, nil
	}

	// the upper end stays clear of the trivial root c2 = c1
	cTop := c1 * (1.0 - 1.0e-4)
	prevC := c1 * 1.0e-3
	prev, err := defect(prevC)
	if err != nil {
		return jet{}, false, err
	}
	for i := 1; i <= shockScanPoints; i++ {
		c := prevC + (cTop-c1*1.0e-3)/float64(shockScanPoints)
		f, err := defect(c)
		if err != nil {
			return jet{}, false, err
		}
		if prev < 0 && f >= 0 {
			root, err := brent(defect, prevC, c, 1.0e-9*c1, 200)
			if err != nil {
				return jet{}, false, nonPhysicalRoot(err, "normal shock")
			}
			st, err := state(root)
			if err != nil {
				return jet{}, false, err
			}
			if st.S < up.state.S-shockEntropyTol {
				return jet{}, false, fmt.Errorf("%w: shock entropy change %.3g J/kg K is negative",
					ErrNonPhysical, st.S-up.state.S)
			}
			return jet{state: st, c: root, g: st.Rho * root}, true, nil
		}
		prevC, prev = c, f
	}
	return up, false, nil
}
