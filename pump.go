package r718

import (
	"fmt"
)

// Below this inlet pressure the pump is always flagged for cavitation risk, Pa.
const pumpCavitationPressure = 1500.0

// PumpParams configures the feed pump between the condenser and the generator.
type PumpParams struct {
	Efficiency   float64 `yaml:"efficiency"`    // isentropic efficiency, -
	NPSHRequired float64 `yaml:"npsh_required"` // m
	SuctionHead  float64 `yaml:"suction_head"`  // static liquid head above the pump inlet, m
	SuctionLoss  float64 `yaml:"suction_loss"`  // friction head loss of the suction line, m
}

func (p PumpParams) Validate() error {
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return invalidParam("pump.efficiency", p.Efficiency, "(0, 1]")
	}
	if p.NPSHRequired < 0 {
		return invalidParam("pump.npsh_required", p.NPSHRequired, ">= 0")
	}
	if p.SuctionLoss < 0 {
		return invalidParam("pump.suction_loss", p.SuctionLoss, ">= 0")
	}
	return nil
}

// Pump raises the condensate to the generator pressure.
type Pump struct {
	Provider PropertyProvider
	Params   PumpParams
}

func (Pump) Kind() Kind { return KindPump }

/*
Solves the pump.

	Args:
		in: inlet state (condenser outlet)
		bc: bc.P is the generator pressure, bc.MassFlow the primary flow, kg/s

	Returns:
		outlet state, diagnostics, error

	Notes:
		h_out = h_in + (h_s - h_in) / eta, with h_s at (P_out, s_in).
		NPSH_a = (P_in - P_sat(T_in)) / (rho g) + z_suction - h_loss.
*/
func (p Pump) Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error) {
	d := newDiagnostics(KindPump)
	input := fmt.Sprintf("P_in=%.1f Pa, P_out=%.1f Pa", in.P, bc.P)

	if bc.P <= in.P {
		d.raise(FlagInvalidPressureRise)
		return ThermoState{}, d, &ComponentError{
			Component: KindPump, Input: input, Law: "pressure rise",
			Wrapped: fmt.Errorf("%w: outlet pressure does not exceed inlet pressure", ErrNonPhysical),
		}
	}
	if in.TwoPhase() && in.X > 0 {
		d.raise(FlagTwoPhaseInlet)
	}

	pSat, err := SaturationPressure(p.Provider, in.T)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindPump, Input: input, Law: "suction saturation", Wrapped: err}
	}
	npshA := (in.P-pSat)/(in.Rho*getG()) + p.Params.SuctionHead - p.Params.SuctionLoss
	d.Values[ValueNPSHa] = npshA
	d.Values[ValueNPSHr] = p.Params.NPSHRequired
	if npshA < p.Params.NPSHRequired || in.P < pumpCavitationPressure {
		d.raise(FlagCavitation)
	}

	iso, err := p.Provider.Resolve(PropP, bc.P, PropS, in.S)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindPump, Input: input, Law: "isentropic compression", Wrapped: err}
	}
	h := in.H + (iso.H-in.H)/p.Params.Efficiency

	out, err := p.Provider.Resolve(PropP, bc.P, PropH, h)
	if err != nil {
		return ThermoState{}, d, &ComponentError{Component: KindPump, Input: input, Law: "outlet state", Wrapped: err}
	}

	d.Values[ValueWork] = bc.MassFlow * (h - in.H)
	d.Values[ValueMassFlow] = bc.MassFlow
	return out, d, nil
}
