package r718

import (
	"math"
)

/*
Computes the effective sky temperature for long-wave exchange.

	Args:
		tAmb: ambient air temperature, K

	Returns:
		sky temperature, K

	Notes:
		Swinbank (1963) clear-sky estimate.
*/
func getTSky(tAmb float64) float64 {
	return 0.0552 * math.Pow(tAmb, 1.5)
}

/*
Computes the heat lost by the collector absorber per unit area.

	Args:
		tAbs: absorber temperature, K
		tAmb: ambient air temperature, K
		tSky: sky temperature, K
		uLoss: convective loss coefficient, W/m2 K
		eps: long-wave emissivity of the absorber, -

	Returns:
		(1) convective loss, W/m2
		(2) radiative loss, W/m2
*/
func getCollectorLoss(tAbs, tAmb, tSky, uLoss, eps float64) (conv, rad float64) {
	conv = uLoss * (tAbs - tAmb)
	rad = eps * getSgm() * (math.Pow(tAbs, 4) - math.Pow(tSky, 4))
	return conv, rad
}

/*
Computes the stagnation temperature of the collector, the absorber temperature
at which the absorbed irradiance equals the losses.

	Args:
		absorbed: absorbed irradiance, W/m2
		tAmb: ambient air temperature, K
		tSky: sky temperature, K
		uLoss: convective loss coefficient, W/m2 K
		eps: long-wave emissivity of the absorber, -

	Returns:
		stagnation temperature, K

	Notes:
		The equivalent of a sol-air temperature with the radiative term kept non-linear.
		The balance is monotone in the absorber temperature so a bracketed root is unique.
*/
func getTStagnation(absorbed, tAmb, tSky, uLoss, eps float64) float64 {
	f := func(t float64) (float64, error) {
		conv, rad := getCollectorLoss(t, tAmb, tSky, uLoss, eps)
		return absorbed - conv - rad, nil
	}
	lo := math.Min(tAmb, tSky)
	if v, _ := f(lo); v <= 0 {
		return lo
	}
	t, err := brent(f, lo, lo+2000.0, 1.0e-6, 200)
	if err != nil {
		return lo
	}
	return t
}
