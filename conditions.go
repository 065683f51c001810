package r718

import (
	"fmt"
)

// Conditions is the operating point of a run. Temperatures are saturation
// temperatures of the refrigerant.
type Conditions struct {
	TGen            float64 `yaml:"t_gen"`            // generator, K
	TCond           float64 `yaml:"t_cond"`           // condenser, K
	TEvap           float64 `yaml:"t_evap"`           // evaporator, K
	CoolingCapacity float64 `yaml:"cooling_capacity"` // W, 0 runs the cycle from PrimaryFlow
	PrimaryFlow     float64 `yaml:"primary_flow"`     // kg/s, used when CoolingCapacity is 0
}

// Direct reports whether the run holds the primary flow instead of dimensioning
// the flows to the cooling capacity.
func (c Conditions) Direct() bool {
	return c.CoolingCapacity == 0
}

func (c Conditions) Validate() error {
	switch {
	case c.TEvap < TriplePointTemp:
		return invalidParam("conditions.t_evap", c.TEvap, ">= 273.16 K")
	case c.TCond <= c.TEvap:
		return invalidParam("conditions.t_cond", c.TCond, "> t_evap")
	case c.TGen <= c.TCond:
		return invalidParam("conditions.t_gen", c.TGen, "> t_cond")
	case c.TGen > maxSaturationTemp:
		return invalidParam("conditions.t_gen", c.TGen, "<= 623.15 K")
	case !(c.CoolingCapacity >= 0):
		return invalidParam("conditions.cooling_capacity", c.CoolingCapacity, ">= 0")
	case !(c.PrimaryFlow >= 0):
		return invalidParam("conditions.primary_flow", c.PrimaryFlow, ">= 0")
	case c.Direct() && c.PrimaryFlow == 0:
		return invalidParam("conditions.primary_flow", c.PrimaryFlow, "> 0 when cooling_capacity is 0")
	}
	return nil
}

/*
Computes the saturation pressures of the three pressure levels.

	Args:
		pp: property provider

	Returns:
		(1) generator pressure, Pa
		(2) condenser pressure, Pa
		(3) evaporator pressure, Pa
		(4) error
*/
func (c Conditions) pressures(pp PropertyProvider) (pGen, pCond, pEvap float64, err error) {
	if pGen, err = SaturationPressure(pp, c.TGen); err != nil {
		return 0, 0, 0, fmt.Errorf("generator pressure: %w", err)
	}
	if pCond, err = SaturationPressure(pp, c.TCond); err != nil {
		return 0, 0, 0, fmt.Errorf("condenser pressure: %w", err)
	}
	if pEvap, err = SaturationPressure(pp, c.TEvap); err != nil {
		return 0, 0, 0, fmt.Errorf("evaporator pressure: %w", err)
	}
	return pGen, pCond, pEvap, nil
}
