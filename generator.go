package r718

import (
	"fmt"
	"math"
)

// GeneratorMode selects how the generator outlet is determined.
type GeneratorMode string

const (
	// GeneratorTargetOutlet fixes the outlet at saturated vapour plus superheat
	// and checks the duty against the collector yield.
	GeneratorTargetOutlet GeneratorMode = "target_outlet"
	// GeneratorSolarInput adds the collector yield to the inlet enthalpy.
	GeneratorSolarInput GeneratorMode = "solar_input"
	// GeneratorHeatExchanger fixes the outlet like GeneratorTargetOutlet and checks
	// the duty against a heat-transfer fluid loop through HeatExchanger.
	GeneratorHeatExchanger GeneratorMode = "heat_exchanger"
)

// Generator heat-exchanger checks.
const (
	generatorMismatchTolerance = 0.20 // relative mismatch of K A LMTD and the duty
	generatorHeatingFraction   = 0.5  // K A LMTD below this share of the duty is insufficient
)

// GeneratorParams configures the solar-heated vapour generator.
type GeneratorParams struct {
	Mode              GeneratorMode     `yaml:"mode"`
	Superheat         float64           `yaml:"superheat"`          // K
	CollectorArea     float64           `yaml:"collector_area"`     // m2
	OpticalEfficiency float64           `yaml:"optical_efficiency"` // -
	Irradiance        float64           `yaml:"irradiance"`         // on the collector plane, W/m2, 0 derives it from Sky
	Sky               SolarInput        `yaml:"sky"`
	Geometry          CollectorGeometry `yaml:"geometry"`
	LossCoefficient   float64           `yaml:"loss_coefficient"` // convective loss, W/m2 K
	Emissivity        float64           `yaml:"emissivity"`       // -
	AmbientTemp       float64           `yaml:"ambient_temp"`     // K
	SkyTemp           float64           `yaml:"sky_temp"`         // K, 0 uses the Swinbank estimate
	AbsorberOffset    float64           `yaml:"absorber_offset"`  // absorber above saturation temperature, K
	HeatExchanger     HeatExchanger     `yaml:"heat_exchanger"`   // heat-transfer fluid side, used by GeneratorHeatExchanger
}

func (g GeneratorParams) Validate() error {
	if g.Superheat < 0 {
		return invalidParam("generator.superheat", g.Superheat, ">= 0")
	}
	switch g.Mode {
	case GeneratorTargetOutlet, GeneratorSolarInput:
	case GeneratorHeatExchanger:
		hx := g.HeatExchanger
		if !hx.Enabled {
			return fmt.Errorf("%w: generator.mode %q needs generator.heat_exchanger.enabled", ErrInvalidParameter, g.Mode)
		}
		if err := hx.Validate("generator.heat_exchanger"); err != nil {
			return err
		}
		if hx.TIn <= hx.TOut {
			return invalidParam("generator.heat_exchanger.t_in", hx.TIn, "> t_out")
		}
		return nil
	default:
		return fmt.Errorf("%w: generator.mode %q", ErrInvalidParameter, g.Mode)
	}
	if g.CollectorArea <= 0 {
		return invalidParam("generator.collector_area", g.CollectorArea, "> 0")
	}
	if g.OpticalEfficiency <= 0 || g.OpticalEfficiency > 1 {
		return invalidParam("generator.optical_efficiency", g.OpticalEfficiency, "(0, 1]")
	}
	if g.Irradiance < 0 {
		return invalidParam("generator.irradiance", g.Irradiance, ">= 0")
	}
	if g.LossCoefficient < 0 {
		return invalidParam("generator.loss_coefficient", g.LossCoefficient, ">= 0")
	}
	if g.Emissivity < 0 || g.Emissivity > 1 {
		return invalidParam("generator.emissivity", g.Emissivity, "0..1")
	}
	if g.AmbientTemp <= 0 {
		return invalidParam("generator.ambient_temp", g.AmbientTemp, "> 0 K")
	}
	return g.Geometry.Validate()
}

// PlaneIrradiance returns the irradiance on the collector plane, W/m2.
func (g GeneratorParams) PlaneIrradiance() float64 {
	if g.Irradiance > 0 {
		return g.Irradiance
	}
	beam, sky, ground := CollectorIrradiance(g.Sky, g.Geometry)
	return beam + sky + ground
}

// Generator boils the pumped liquid with heat from a solar collector field.
type Generator struct {
	Provider PropertyProvider
	Params   GeneratorParams
}

func (Generator) Kind() Kind { return KindGenerator }

/*
Solves the generator.

	Args:
		in: inlet state (pump outlet)
		bc: bc.P is the generator pressure, bc.MassFlow the primary flow, kg/s

	Returns:
		outlet state, diagnostics, error

	Notes:
		Q_solar = A (G eta_0 - U_L (T_abs - T_amb) - eps sigma (T_abs^4 - T_sky^4)).
		The absorber runs AbsorberOffset above the saturation temperature.
		In heat-exchanger mode the fluid ends are compared with T_sat(P_gen):
		dT1 = T_in - T_sat, dT2 = T_out - T_sat, Q_KA = K A LMTD.
*/
func (g Generator) Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error) {
	d := newDiagnostics(KindGenerator)
	prm := g.Params
	input := fmt.Sprintf("P=%.1f Pa, h_in=%.1f J/kg, m=%.5f kg/s", bc.P, in.H, bc.MassFlow)

	sat, err := g.Provider.Resolve(PropP, bc.P, PropQ, 1)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindGenerator, Input: input, Law: "saturation", Wrapped: err}
	}
	d.Values[ValueMassFlow] = bc.MassFlow

	if prm.Mode == GeneratorHeatExchanger {
		out, q, err := g.targetOutlet(in, sat, bc, input)
		if err != nil {
			return ThermoState{}, d, err
		}
		hx := prm.HeatExchanger
		d.Values[ValueHeat] = q
		checkDuty(&d, q, hx.K, hx.Area, hx.TIn-sat.T, hx.TOut-sat.T, generatorMismatchTolerance)
		if hx.Area > 0 && d.Values[ValueHeatKA] < generatorHeatingFraction*q {
			d.raise(FlagInsufficientHeating)
		}
		return out, d, nil
	}

	tSky := prm.SkyTemp
	if tSky <= 0 {
		tSky = getTSky(prm.AmbientTemp)
	}
	tAbs := sat.T + prm.AbsorberOffset
	absorbed := prm.PlaneIrradiance() * prm.OpticalEfficiency
	conv, rad := getCollectorLoss(tAbs, prm.AmbientTemp, tSky, prm.LossCoefficient, prm.Emissivity)
	useful := absorbed - conv - rad // W/m2
	qSolar := prm.CollectorArea * useful
	d.Values[ValueSolar] = qSolar
	d.Values[ValueTStagnation] = getTStagnation(absorbed, prm.AmbientTemp, tSky, prm.LossCoefficient, prm.Emissivity)

	var out ThermoState
	switch prm.Mode {
	case GeneratorSolarInput:
		if qSolar <= 0 || bc.MassFlow <= 0 {
			d.raise(FlagInsufficientSolar)
			return ThermoState{}, d, &ComponentError{
				Component: KindGenerator, Input: input, Law: "collector energy balance",
				Wrapped: fmt.Errorf("%w: collector yield %.1f W cannot heat %.5f kg/s", ErrNonPhysical, qSolar, bc.MassFlow),
			}
		}
		out, err = g.Provider.Resolve(PropP, bc.P, PropH, in.H+qSolar/bc.MassFlow)
		if err != nil {
			return ThermoState{}, d, &ComponentError{Component: KindGenerator, Input: input, Law: "outlet state", Wrapped: err}
		}
		if out.TwoPhase() {
			d.raise(FlagInsufficientSolar)
		}
		d.Values[ValueHeat] = qSolar
		d.Values[ValueResidual] = 0

	default:
		var q float64
		out, q, err = g.targetOutlet(in, sat, bc, input)
		if err != nil {
			return ThermoState{}, d, err
		}
		d.Values[ValueHeat] = q
		d.Values[ValueResidual] = (qSolar - q) / q
		if useful > 0 {
			d.Values[ValueAreaRequired] = q / useful
		} else {
			d.Values[ValueAreaRequired] = math.Inf(1)
		}
		if qSolar < q {
			d.raise(FlagInsufficientSolar)
		}
	}

	return out, d, nil
}

// targetOutlet returns saturated vapour plus superheat and the duty that produces it.
func (g Generator) targetOutlet(in, sat ThermoState, bc Boundary, input string) (ThermoState, float64, error) {
	out := sat
	if g.Params.Superheat > 0 {
		var err error
		out, err = g.Provider.Resolve(PropP, bc.P, PropT, sat.T+g.Params.Superheat)
		if err != nil {
			return ThermoState{}, 0, &ComponentError{Component: KindGenerator, Input: input, Law: "superheated outlet", Wrapped: err}
		}
	}
	q := bc.MassFlow * (out.H - in.H)
	if q <= 0 {
		return ThermoState{}, 0, &ComponentError{
			Component: KindGenerator, Input: input, Law: "energy balance",
			Wrapped: fmt.Errorf("%w: negative heat input %.1f W", ErrNonPhysical, q),
		}
	}
	return out, q, nil
}
