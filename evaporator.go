package r718

import (
	"fmt"
)

// Relative duty mismatch above which the evaporator raises FlagThermalMismatch.
const evaporatorMismatch = 0.05

// EvaporatorParams configures the evaporator that produces the cooling effect.
type EvaporatorParams struct {
	Superheat     float64       `yaml:"superheat"` // K
	HeatExchanger HeatExchanger `yaml:"heat_exchanger"`
}

func (e EvaporatorParams) Validate() error {
	if e.Superheat < 0 {
		return invalidParam("evaporator.superheat", e.Superheat, ">= 0")
	}
	if err := e.HeatExchanger.Validate("evaporator.heat_exchanger"); err != nil {
		return err
	}
	if e.HeatExchanger.Enabled && e.HeatExchanger.TOut >= e.HeatExchanger.TIn {
		return invalidParam("evaporator.heat_exchanger.t_out", e.HeatExchanger.TOut, "< t_in (the chilled stream cools down)")
	}
	return nil
}

// Evaporator boils the throttled refrigerant against the chilled stream.
type Evaporator struct {
	Provider PropertyProvider
	Params   EvaporatorParams
}

func (Evaporator) Kind() Kind { return KindEvaporator }

/*
Solves the evaporator.

	Args:
		in: inlet state (valve outlet)
		bc: bc.P is the evaporator pressure, bc.MassFlow the secondary flow, kg/s

	Returns:
		outlet state, diagnostics, error

	Notes:
		Q = m (h_out - h_in). With the heat exchanger enabled the duty is also
		compared with K A LMTD against the chilled stream.
*/
func (e Evaporator) Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error) {
	d := newDiagnostics(KindEvaporator)
	input := fmt.Sprintf("P=%.1f Pa, h_in=%.1f J/kg, m=%.5f kg/s", bc.P, in.H, bc.MassFlow)

	out, err := e.Provider.Resolve(PropP, bc.P, PropQ, 1)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindEvaporator, Input: input, Law: "saturation", Wrapped: err}
	}
	tSat := out.T
	if e.Params.Superheat > 0 {
		out, err = e.Provider.Resolve(PropP, bc.P, PropT, tSat+e.Params.Superheat)
		if err != nil {
			return ThermoState{}, d, &ComponentError{Component: KindEvaporator, Input: input, Law: "superheated outlet", Wrapped: err}
		}
	}

	if in.H >= out.H {
		d.raise(FlagIncompleteEvaporation)
		return ThermoState{}, d, &ComponentError{
			Component: KindEvaporator, Input: input, Law: "energy balance",
			Wrapped: fmt.Errorf("%w: inlet enthalpy %.1f J/kg is not below the outlet %.1f J/kg", ErrNonPhysical, in.H, out.H),
		}
	}

	q := bc.MassFlow * (out.H - in.H)
	d.Values[ValueHeat] = q
	d.Values[ValueMassFlow] = bc.MassFlow

	if hx := e.Params.HeatExchanger; hx.Enabled && q > 0 {
		checkDuty(&d, q, hx.K, hx.Area, hx.TIn-tSat, hx.TOut-tSat, evaporatorMismatch)
	}
	return out, d, nil
}
