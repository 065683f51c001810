package r718

import (
	"fmt"
	"math"
)

// SinglePhase is the quality sentinel of a state outside the saturation dome.
const SinglePhase = -1.0

// ThermoState is one resolved point of the cycle. It is produced by a
// PropertyProvider and passed between components by value.
type ThermoState struct {
	P   float64 // pressure, Pa
	T   float64 // temperature, K
	H   float64 // specific enthalpy, J/kg
	S   float64 // specific entropy, J/kg K
	X   float64 // quality, -, or SinglePhase
	Rho float64 // density, kg/m3
}

// TwoPhase reports whether the state lies inside the saturation dome.
func (s ThermoState) TwoPhase() bool {
	return s.X >= 0 && s.X <= 1
}

// Validate checks the physical invariants of a resolved state.
func (s ThermoState) Validate() error {
	switch {
	case !(s.P > 0) || math.IsInf(s.P, 0):
		return fmt.Errorf("%w: pressure %g Pa", ErrNonPhysical, s.P)
	case !(s.T > 0) || math.IsInf(s.T, 0):
		return fmt.Errorf("%w: temperature %g K", ErrNonPhysical, s.T)
	case !(s.Rho > 0) || math.IsInf(s.Rho, 0):
		return fmt.Errorf("%w: density %g kg/m3", ErrNonPhysical, s.Rho)
	case math.IsNaN(s.H) || math.IsNaN(s.S):
		return fmt.Errorf("%w: enthalpy or entropy is NaN", ErrNonPhysical)
	case s.X != SinglePhase && !s.TwoPhase():
		return fmt.Errorf("%w: quality %g outside [0,1]", ErrNonPhysical, s.X)
	}
	return nil
}

func (s ThermoState) String() string {
	if s.TwoPhase() {
		return fmt.Sprintf("P=%.1f Pa T=%.2f K h=%.1f J/kg s=%.2f J/kgK x=%.4f rho=%.4g kg/m3", s.P, s.T, s.H, s.S, s.X, s.Rho)
	}
	return fmt.Sprintf("P=%.1f Pa T=%.2f K h=%.1f J/kg s=%.2f J/kgK rho=%.4g kg/m3", s.P, s.T, s.H, s.S, s.Rho)
}
