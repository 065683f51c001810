package r718

import (
	"fmt"
	"math"
)

// Below this outlet pressure the valve raises FlagDeepVacuum, Pa.
const deepVacuumPressure = 1100.0

// ValveParams configures the expansion valve between condenser and evaporator.
type ValveParams struct {
	Orifice         bool    `yaml:"orifice"`           // enables the orifice flow sub-model
	Discharge       float64 `yaml:"discharge"`         // discharge coefficient Cd, -
	OrificeArea     float64 `yaml:"orifice_area"`      // m2
	RequireTwoPhase bool    `yaml:"require_two_phase"` // single-phase outlet is a hard failure
}

func (v ValveParams) Validate() error {
	if !v.Orifice {
		return nil
	}
	if v.Discharge <= 0 || v.Discharge > 1 {
		return invalidParam("valve.discharge", v.Discharge, "(0, 1]")
	}
	if v.OrificeArea <= 0 {
		return invalidParam("valve.orifice_area", v.OrificeArea, "> 0")
	}
	return nil
}

// ExpansionValve throttles the condensate to the evaporator pressure.
type ExpansionValve struct {
	Provider PropertyProvider
	Params   ValveParams
}

func (ExpansionValve) Kind() Kind { return KindExpansionValve }

/*
Solves the valve.

	Args:
		in: inlet state (condenser outlet)
		bc: bc.P is the evaporator pressure

	Returns:
		outlet state, diagnostics, error

	Notes:
		Isenthalpic, so the outlet carries the inlet enthalpy bit for bit.
		With the orifice model, m = Cd A sqrt(2 rho_in dP), zero for dP <= 0.
*/
func (v ExpansionValve) Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error) {
	d := newDiagnostics(KindExpansionValve)
	input := fmt.Sprintf("P_in=%.1f Pa, P_out=%.1f Pa, h=%.1f J/kg", in.P, bc.P, in.H)

	dp := in.P - bc.P
	if dp <= 0 {
		d.raise(FlagInvalidPressureDrop)
	}
	if bc.P < deepVacuumPressure {
		d.raise(FlagDeepVacuum)
	}

	out, err := v.Provider.Resolve(PropP, bc.P, PropH, in.H)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindExpansionValve, Input: input, Law: "isenthalpic expansion", Wrapped: err}
	}
	if out.TwoPhase() {
		d.raise(FlagTwoPhaseOutlet)
	} else if v.Params.RequireTwoPhase {
		return ThermoState{}, d, &ComponentError{
			Component: KindExpansionValve, Input: input, Law: "isenthalpic expansion",
			Wrapped: fmt.Errorf("%w: outlet is single phase at %.2f K", ErrNonPhysical, out.T),
		}
	}

	if v.Params.Orifice {
		d.Values[ValueMassFlow] = v.OrificeFlow(in, bc.P)
	} else {
		d.Values[ValueMassFlow] = bc.MassFlow
	}
	return out, d, nil
}

// OrificeFlow returns the mass flow through the orifice for the inlet state
// and the downstream pressure, kg/s.
func (v ExpansionValve) OrificeFlow(in ThermoState, pOut float64) float64 {
	dp := in.P - pOut
	if dp <= 0 {
		return 0
	}
	return v.Params.Discharge * v.Params.OrificeArea * math.Sqrt(2.0*in.Rho*dp)
}
