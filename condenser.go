package r718

import (
	"fmt"
	"math"
)

// Relative duty mismatch above which the condenser raises FlagThermalMismatch.
const condenserMismatch = 0.05

// CondenserParams configures the air-cooled condenser.
type CondenserParams struct {
	Subcooling     float64 `yaml:"subcooling"`      // K
	Height         float64 `yaml:"height"`          // height of the condensing surface, m
	Area           float64 `yaml:"area"`            // condensing surface, m2, 0 means sized from the first converged duty
	WallResistance float64 `yaml:"wall_resistance"` // m2 K/W
	FinFactor      float64 `yaml:"fin_factor"`      // air-side surface per condensing surface, -
	AirIn          float64 `yaml:"air_in"`          // K
	AirOut         float64 `yaml:"air_out"`         // K
	AirHumidity    float64 `yaml:"air_humidity"`    // relative humidity, -
}

func (c CondenserParams) Validate() error {
	switch {
	case c.Subcooling < 0:
		return invalidParam("condenser.subcooling", c.Subcooling, ">= 0")
	case c.Height <= 0:
		return invalidParam("condenser.height", c.Height, "> 0")
	case c.Area < 0:
		return invalidParam("condenser.area", c.Area, ">= 0")
	case c.WallResistance < 0:
		return invalidParam("condenser.wall_resistance", c.WallResistance, ">= 0")
	case c.FinFactor < 1:
		return invalidParam("condenser.fin_factor", c.FinFactor, ">= 1")
	case c.AirIn <= 0 || c.AirOut <= c.AirIn:
		return invalidParam("condenser.air_out", c.AirOut, "> air_in > 0 K")
	case c.AirHumidity < 0 || c.AirHumidity > 1:
		return invalidParam("condenser.air_humidity", c.AirHumidity, "0..1")
	}
	return nil
}

// Condenser rejects the ejector discharge to ambient air.
type Condenser struct {
	Provider PropertyProvider
	Params   CondenserParams
}

func (Condenser) Kind() Kind { return KindCondenser }

/*
Solves the condenser.

	Args:
		in: inlet state (ejector outlet)
		bc: bc.P is the condenser pressure, bc.MassFlow the total flow, kg/s

	Returns:
		outlet state, diagnostics, error

	Notes:
		Q = m (h_in - h_out), reported positive for heat rejected.
		1/K = 1/h_cond + R_wall + 1/(fin_factor h_air), checked against K A LMTD.
*/
func (c Condenser) Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error) {
	d := newDiagnostics(KindCondenser)
	input := fmt.Sprintf("P=%.1f Pa, h_in=%.1f J/kg, m=%.5f kg/s", bc.P, in.H, bc.MassFlow)
	wrap := func(law string, err error) error {
		return &ComponentError{Component: KindCondenser, Input: input, Law: law, Wrapped: err}
	}

	liq, err := c.Provider.Resolve(PropP, bc.P, PropQ, 0)
	if err != nil {
		return ThermoState{}, d, wrap("saturation", err)
	}
	vap, err := c.Provider.Resolve(PropP, bc.P, PropQ, 1)
	if err != nil {
		return ThermoState{}, d, wrap("saturation", err)
	}
	tSat := liq.T

	out := liq
	if c.Params.Subcooling > 0 {
		out, err = c.Provider.Resolve(PropP, bc.P, PropT, tSat-c.Params.Subcooling)
		if err != nil {
			return ThermoState{}, d, wrap("subcooled outlet", err)
		}
	}

	if in.H <= out.H {
		d.raise(FlagIncompleteCondensation)
		return ThermoState{}, d, wrap("energy balance",
			fmt.Errorf("%w: inlet enthalpy %.1f J/kg is not above the outlet %.1f J/kg", ErrNonPhysical, in.H, out.H))
	}
	if in.H < vap.H {
		d.raise(FlagIncompleteCondensation)
	}

	q := bc.MassFlow * (in.H - out.H)
	d.Values[ValueHeat] = q
	d.Values[ValueMassFlow] = bc.MassFlow

	dt1 := tSat - c.Params.AirIn
	dt2 := tSat - c.Params.AirOut
	if _, ok := getLMTD(dt1, dt2); ok {
		k, err := c.overallCoefficient(&d, liq, vap)
		if err != nil {
			return ThermoState{}, d, wrap("film condensation", err)
		}
		checkDuty(&d, q, k, c.Params.Area, dt1, dt2, condenserMismatch)
	} else {
		checkDuty(&d, q, 0, c.Params.Area, dt1, dt2, condenserMismatch)
	}
	return out, d, nil
}

/*
Computes the overall heat transfer coefficient of the condensing surface.

	Args:
		d: diagnostics receiving h_cond, h_air, T_wall and K
		liq: saturated liquid at the condenser pressure
		vap: saturated vapour at the condenser pressure

	Returns:
		K, W/m2 K

	Notes:
		The wall temperature balances the film flux with the flux through the
		wall and the air-side natural convection.
*/
func (c Condenser) overallCoefficient(d *Diagnostics, liq, vap ThermoState) (float64, error) {
	prm := c.Params
	tSat := liq.T
	tAir := 0.5 * (prm.AirIn + prm.AirOut)

	// liquid cp from a one-sided difference below saturation
	lo, err := c.Provider.Resolve(PropP, liq.P, PropT, tSat-1.5)
	if err != nil {
		return 0, err
	}
	hi, err := c.Provider.Resolve(PropP, liq.P, PropT, tSat-0.5)
	if err != nil {
		return 0, err
	}
	cpL := hi.H - lo.H
	hfg := vap.H - liq.H

	hCond := func(tw float64) float64 {
		return getHFilm(liq.Rho, vap.Rho, hfg, cpL, 0.5*(tSat+tw), prm.Height, tSat-tw)
	}
	hAir := func(tw float64) float64 {
		return prm.FinFactor * getHNaturalConvection(tw, tAir, prm.Height, prm.AirHumidity)
	}
	balance := func(tw float64) (float64, error) {
		qFilm := hCond(tw) * (tSat - tw)
		qAir := (tw - tAir) / (prm.WallResistance + 1.0/hAir(tw))
		return qFilm - qAir, nil
	}

	span := tSat - tAir
	tw, err := brent(balance, tAir+1.0e-6*span, tSat-1.0e-6*span, 1.0e-8, 200)
	if err != nil {
		return 0, nonPhysicalRoot(err, "wall temperature")
	}

	hc := hCond(tw)
	ha := hAir(tw)
	k := 1.0 / (1.0/hc + prm.WallResistance + 1.0/ha)
	d.Values[ValueWallTemp] = tw
	d.Values[ValueHCond] = hc
	d.Values[ValueHAir] = ha
	d.Values[ValueK] = k
	return k, nil
}

/*
Computes the Nusselt film condensation coefficient on a vertical surface.

	Args:
		rhoL, rhoV: saturated liquid and vapour density, kg/m3
		hfg: latent heat, J/kg
		cpL: liquid specific heat, J/kg K
		tFilm: film temperature, K
		height: surface height, m
		dT: saturation minus wall temperature, K

	Returns:
		heat transfer coefficient, W/m2 K

	Notes:
		h = 0.943 [rho_l (rho_l - rho_v) g h_fg' k_l^3 / (mu_l L dT)]^(1/4)
		with the Rohsenow correction h_fg' = h_fg + 0.68 cp_l dT.
*/
func getHFilm(rhoL, rhoV, hfg, cpL, tFilm, height, dT float64) float64 {
	hfgMod := hfg + 0.68*cpL*dT
	kL := getKLiquid(tFilm)
	muL := getMuLiquid(tFilm)
	return 0.943 * math.Pow(rhoL*(rhoL-rhoV)*getG()*hfgMod*kL*kL*kL/(muL*height*dT), 0.25)
}

/*
Computes the natural convection coefficient of a vertical plate in moist air.

	Args:
		tw: surface temperature, K
		tAir: air temperature, K
		height: plate height, m
		rh: relative humidity of the air, -

	Returns:
		heat transfer coefficient, W/m2 K

	Notes:
		Churchill-Chu correlation, valid over the whole laminar and turbulent range.
*/
func getHNaturalConvection(tw, tAir, height, rh float64) float64 {
	air := moistAirAt(0.5*(tw+tAir), rh)
	dT := math.Abs(tw - tAir)
	ra := getG() * air.beta * dT * height * height * height / (air.nu() * air.alpha())
	denom := math.Pow(1.0+math.Pow(0.492/air.pr(), 9.0/16.0), 8.0/27.0)
	sq := 0.825 + 0.387*math.Pow(ra, 1.0/6.0)/denom
	return sq * sq * air.k / height
}

// liquid water viscosity, Pa s, Vogel-type fit for 273..373 K
func getMuLiquid(t float64) float64 {
	return 2.414e-5 * math.Pow(10.0, 247.8/(t-140.0))
}

// liquid water conductivity, W/m K, quadratic fit for 273..373 K
func getKLiquid(t float64) float64 {
	return -0.5752 + 6.397e-3*t - 8.151e-6*t*t
}
