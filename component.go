package r718

import (
	"strings"
)

// Kind tags a component model.
type Kind int

const (
	KindPump Kind = iota + 1
	KindGenerator
	KindExpansionValve
	KindEvaporator
	KindEjector
	KindCondenser
)

func (k Kind) String() string {
	switch k {
	case KindPump:
		return "pump"
	case KindGenerator:
		return "generator"
	case KindExpansionValve:
		return "expansion_valve"
	case KindEvaporator:
		return "evaporator"
	case KindEjector:
		return "ejector"
	case KindCondenser:
		return "condenser"
	default:
		return "unknown"
	}
}

// Boundary is what the coupler imposes on a component besides its inlet.
type Boundary struct {
	P        float64 // outlet pressure, Pa
	MassFlow float64 // kg/s
}

// Component maps an inlet state to an outlet state. Implementations hold only
// immutable parameters and are safe for concurrent use. The ejector takes two
// inlets and a back pressure and is solved through Ejector.Solve and Ejector.Forward.
type Component interface {
	Kind() Kind
	Solve(in ThermoState, bc Boundary) (ThermoState, Diagnostics, error)
}

// Flag is a diagnostic bit raised by a component solve.
type Flag uint32

const (
	FlagCavitation Flag = 1 << iota
	FlagTwoPhaseInlet
	FlagInvalidPressureRise
	FlagInsufficientSolar
	FlagTwoPhaseOutlet
	FlagDeepVacuum
	FlagInvalidPressureDrop
	FlagIncompleteEvaporation
	FlagIncompleteCondensation
	FlagInvalidLMTD
	FlagThermalMismatch
	FlagShock
	FlagInsufficientRecovery
	FlagInsufficientHeating

	// cycle level, see Result.Flags
	FlagLowCOP
	FlagLowEntrainment
)

var flagNames = []struct {
	f    Flag
	name string
}{
	{FlagCavitation, "cavitation"},
	{FlagTwoPhaseInlet, "two_phase_inlet"},
	{FlagInvalidPressureRise, "invalid_pressure_rise"},
	{FlagInsufficientSolar, "insufficient_solar"},
	{FlagTwoPhaseOutlet, "two_phase_outlet"},
	{FlagDeepVacuum, "deep_vacuum"},
	{FlagInvalidPressureDrop, "invalid_pressure_drop"},
	{FlagIncompleteEvaporation, "incomplete_evaporation"},
	{FlagIncompleteCondensation, "incomplete_condensation"},
	{FlagInvalidLMTD, "invalid_lmtd"},
	{FlagThermalMismatch, "thermal_mismatch"},
	{FlagShock, "shock"},
	{FlagInsufficientRecovery, "insufficient_recovery"},
	{FlagInsufficientHeating, "insufficient_heating"},
	{FlagLowCOP, "low_cop"},
	{FlagLowEntrainment, "low_entrainment"},
}

func (f Flag) Has(g Flag) bool {
	return f&g != 0
}

func (f Flag) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.f) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// Keys of Diagnostics.Values.
const (
	ValueHeat         = "Q"         // W
	ValueWork         = "W"         // W
	ValueMassFlow     = "mass_flow" // kg/s
	ValueNPSHa        = "NPSHa"     // m
	ValueNPSHr        = "NPSHr"     // m
	ValueLMTD         = "LMTD"      // K
	ValueHeatKA       = "Q_KA"      // W
	ValueK            = "K"         // W/m2 K
	ValueAreaRequired = "A_req"     // m2
	ValueResidual     = "residual"  // -
	ValueSolar        = "Q_solar"   // W
	ValueTStagnation  = "T_stag"    // K
	ValueWallTemp     = "T_wall"    // K
	ValueHCond        = "h_cond"    // W/m2 K
	ValueHAir         = "h_air"     // W/m2 K
	ValueMachMix      = "mach_mix"  // -
	ValueMachShock    = "mach_post_shock"
	ValuePShock       = "p_post_shock"  // Pa
	ValuePRecovery    = "p_recovery"    // Pa
	ValuePCritBack    = "p_crit_back"   // Pa
	ValuePMaxBack     = "p_max_back"    // Pa
	ValuePMix         = "p_mix"         // Pa
	ValueEntropyShock = "ds_shock"      // J/kg K
)

// Diagnostics is produced fresh by every solve.
type Diagnostics struct {
	Component Kind
	Flags     Flag
	Values    map[string]float64
}

func newDiagnostics(k Kind) Diagnostics {
	return Diagnostics{Component: k, Values: make(map[string]float64)}
}

func (d *Diagnostics) raise(f Flag) {
	d.Flags |= f
}
