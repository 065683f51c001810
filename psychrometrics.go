package r718

import (
	"math"
)

/*
Computes the humidity ratio from the vapour pressure.

	Args:
		p_v: vapour pressure, Pa

	Returns:
		humidity ratio, kg/kgDA
*/
func getX(pV float64) float64 {
	f := getPAtm()

	return 0.622 * pV / (f - pV)
}

/*
Computes the saturation vapour pressure of moist air.

	Args:
		theta: air temperature, degree C

	Returns:
		saturation vapour pressure, Pa

	Notes:
		Hyland-Wexler type fit, over water above 0 degree C and over ice below.
		Only used for ambient air; the refrigerant uses the IF97 saturation line.
*/
func getPVs(theta float64) float64 {
	t := toKelvin(theta)

	const a1 = -6096.9385
	const a2 = 21.2409642
	const a3 = -0.02711193
	const a4 = 0.00001673952
	const a5 = 2.433502
	const b1 = -6024.5282
	const b2 = 29.32707
	const b3 = 0.010613863
	const b4 = -0.000013198825
	const b5 = -0.49382577

	if theta >= 0.0 {
		return math.Exp(a1/t + a2 + a3*t + a4*t*t + a5*math.Log(t))
	}
	return math.Exp(b1/t + b2 + b3*t + b4*t*t + b5*math.Log(t))
}

// Properties of moist air at the film temperature of a surface.
type moistAir struct {
	rho  float64 // density, kg/m3
	mu   float64 // dynamic viscosity, Pa s
	k    float64 // thermal conductivity, W/m K
	cp   float64 // specific heat, J/kg K
	beta float64 // expansion coefficient, 1/K
}

func (a moistAir) nu() float64 {
	return a.mu / a.rho
}

func (a moistAir) alpha() float64 {
	return a.k / (a.rho * a.cp)
}

func (a moistAir) pr() float64 {
	return a.mu * a.cp / a.k
}

/*
Computes moist-air properties.

	Args:
		t: air temperature, K
		rh: relative humidity, -

	Returns:
		moistAir

	Notes:
		Density from the partial pressures of dry air and vapour.
		Viscosity from Sutherland's law, conductivity from a power-law fit of dry air.
*/
func moistAirAt(t, rh float64) moistAir {
	pV := rh * getPVs(t-273.15)
	x := getX(pV)

	rho := (getPAtm()-pV)/(getRAir()*t) + pV/(rWater*t)
	mu := 1.716e-5 * math.Pow(t/273.15, 1.5) * (273.15 + 110.4) / (t + 110.4)
	k := 0.0241 * math.Pow(t/273.15, 0.81)
	cp := (getCA() + 1860.0*x) / (1.0 + x)

	return moistAir{rho: rho, mu: mu, k: k, cp: cp, beta: 1.0 / t}
}
