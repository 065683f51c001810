package r718

import (
	"fmt"
	"strings"
)

// Stage is a step of the coupler's escalation from fixed pressures to the full ejector model.
type Stage int

const (
	StageFixedPressure Stage = iota + 1 // saturation pressures, assumed entrainment
	StageHeatExchanger                  // pressures driven by the heat-exchanger residuals
	StageShock                          // entrainment from the ejector design mode
)

func (s Stage) String() string {
	switch s {
	case StageFixedPressure:
		return "fixed_pressure"
	case StageHeatExchanger:
		return "heat_exchanger"
	case StageShock:
		return "shock"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ParseStage accepts a stage name or its number.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "fixed_pressure":
		return StageFixedPressure, nil
	case "2", "heat_exchanger":
		return StageHeatExchanger, nil
	case "3", "shock":
		return StageShock, nil
	}
	return 0, fmt.Errorf("%w: unknown stage %q", ErrInvalidParameter, s)
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Regime classifies the ejector operating point.
type Regime int

const (
	RegimeUnknown     Regime = iota // not classified, the recovery pass failed
	RegimeCritical                  // double choking, entrainment independent of the back pressure
	RegimeSubcritical               // single choking, entrainment falls with the back pressure
	RegimeMalfunction               // back flow into the suction
)

func (r Regime) String() string {
	switch r {
	case RegimeCritical:
		return "critical"
	case RegimeSubcritical:
		return "subcritical"
	case RegimeMalfunction:
		return "malfunction"
	default:
		return "unknown"
	}
}
