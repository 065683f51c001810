package r718

import (
	"errors"
	"fmt"
	"math"
)

var (
	errNoBracket   = errors.New("root not bracketed")
	errNoConverged = errors.New("root finder did not converge")
)

/*
Finds a root of f inside [a, b] with Brent's method.

	Args:
		f: function whose sign changes on [a, b]; an error aborts the search
		a, b: bracket
		tol: absolute tolerance on the root
		maxIter: iteration cap

	Returns:
		root, error

	Notes:
		Errors from f are returned unchanged so that property failures keep their type.
*/
func brent(f func(float64) (float64, error), a, b, tol float64, maxIter int) (float64, error) {
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, errNoBracket
	}

	c, fc := b, fb
	var d, e float64
	for i := 0; i < maxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2.0*2.2e-16*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2.0 * xm * s
				q = 1.0 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2.0*xm*q*(q-r) - (b-a)*(r-1.0))
				q = (q - 1.0) * (r - 1.0) * (s - 1.0)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2.0*p < math.Min(3.0*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb, err = f(b)
		if err != nil {
			return 0, err
		}
	}
	return b, errNoConverged
}

/*
Finds a root of f inside [lo, hi] with Newton steps safeguarded by bisection.

	Args:
		f: returns the function value and its derivative
		lo, hi: bracket
		tol: absolute tolerance on the root
		maxIter: iteration cap

	Returns:
		root, error
*/
func newtonBracketed(f func(float64) (float64, float64), lo, hi, tol float64, maxIter int) (float64, error) {
	flo, _ := f(lo)
	fhi, _ := f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if (flo > 0) == (fhi > 0) {
		return 0, errNoBracket
	}

	// orient the search so that f(xl) < 0
	xl, xh := lo, hi
	if flo > 0 {
		xl, xh = hi, lo
	}

	// start from the secant point, which is close for smooth property curves
	x := lo - flo*(hi-lo)/(fhi-flo)
	dxOld := math.Abs(hi - lo)
	dx := dxOld
	fx, dfx := f(x)
	for i := 0; i < maxIter; i++ {
		if ((x-xh)*dfx-fx)*((x-xl)*dfx-fx) > 0 || math.Abs(2.0*fx) > math.Abs(dxOld*dfx) {
			dxOld = dx
			dx = 0.5 * (xh - xl)
			x = xl + dx
		} else {
			dxOld = dx
			dx = fx / dfx
			x -= dx
		}
		if math.Abs(dx) < tol {
			return x, nil
		}
		fx, dfx = f(x)
		if fx == 0 {
			return x, nil
		}
		if fx < 0 {
			xl = x
		} else {
			xh = x
		}
	}
	return x, errNoConverged
}

// nonPhysicalRoot turns a failed bracket or iteration into ErrNonPhysical and
// passes any other error through unchanged.
func nonPhysicalRoot(err error, what string) error {
	if errors.Is(err, errNoBracket) || errors.Is(err, errNoConverged) {
		return fmt.Errorf("%w: %s: %v", ErrNonPhysical, what, err)
	}
	return err
}
