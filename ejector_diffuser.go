package r718

import (
	"fmt"
)

/*
Decelerates a jet to rest in the diffuser.

	Args:
		pp: property provider
		in: jet at the diffuser inlet
		eta: diffuser efficiency, -

	Returns:
		diffuser exit pressure, Pa, error

	Notes:
		h_is = h + eta c^2 / 2 and the exit pressure solves h(P, s) = h_is.
*/
func diffuse(pp PropertyProvider, in jet, eta float64) (float64, error) {
	if in.c <= 0 {
		return in.state.P, nil
	}
	hIs := in.state.H + 0.5*eta*in.c*in.c
	s := in.state.S
	excess := func(p float64) (float64, error) {
		st, err := pp.Resolve(PropP, p, PropS, s)
		if err != nil {
			return 0, err
		}
		return st.H - hIs, nil
	}

	lo := in.state.P
	hi := 1.5 * lo
	for {
		if hi > maxPressure {
			return 0, fmt.Errorf("%w: diffuser recovery beyond %.0f Pa", ErrNonPhysical, maxPressure)
		}
		f, err := excess(hi)
		if err != nil {
			return 0, err
		}
		if f >= 0 {
			break
		}
		lo, hi = hi, 2.0*hi
	}
	p, err := brent(excess, lo, hi, 1.0e-9*hi, 200)
	if err != nil {
		return 0, nonPhysicalRoot(err, "diffuser")
	}
	return p, nil
}
