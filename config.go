package r718

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SolverParams controls the coupler.
type SolverParams struct {
	MaxIterations      int     `yaml:"max_iterations"`      // per stage
	Tolerance          float64 `yaml:"tolerance"`           // bound on the max-norm of the residual vector
	Damping            float64 `yaml:"damping"`             // Newton step factor, (0,1]
	MaxStep            float64 `yaml:"max_step"`            // relative pressure change per iteration
	FinalStage         Stage   `yaml:"final_stage"`         // last stage entered
	FixedPressures     bool    `yaml:"fixed_pressures"`     // skips the heat-exchanger stage
	AssumedEntrainment float64 `yaml:"assumed_entrainment"` // mu of the stages before the ejector design mode
}

func (s SolverParams) Validate() error {
	switch {
	case s.MaxIterations <= 0:
		return invalidParam("solver.max_iterations", float64(s.MaxIterations), "> 0")
	case !(s.Tolerance > 0):
		return invalidParam("solver.tolerance", s.Tolerance, "> 0")
	case s.Damping <= 0 || s.Damping > 1:
		return invalidParam("solver.damping", s.Damping, "in (0,1]")
	case !(s.MaxStep > 0):
		return invalidParam("solver.max_step", s.MaxStep, "> 0")
	case s.FinalStage < StageFixedPressure || s.FinalStage > StageShock:
		return invalidParam("solver.final_stage", float64(s.FinalStage), "1..3")
	case !(s.AssumedEntrainment > 0):
		return invalidParam("solver.assumed_entrainment", s.AssumedEntrainment, "> 0")
	}
	return nil
}

// Config is the complete input of a run. All temperatures are in K and all pressures in Pa.
type Config struct {
	Conditions Conditions       `yaml:"conditions"`
	Pump       PumpParams       `yaml:"pump"`
	Generator  GeneratorParams  `yaml:"generator"`
	Valve      ValveParams      `yaml:"valve"`
	Evaporator EvaporatorParams `yaml:"evaporator"`
	Condenser  CondenserParams  `yaml:"condenser"`
	Ejector    EjectorParams    `yaml:"ejector"`
	Solver     SolverParams     `yaml:"solver"`
}

// DefaultConfig returns the 12 kW design point.
func DefaultConfig() Config {
	return Config{
		Conditions: Conditions{
			TGen:            toKelvin(100.0),
			TCond:           toKelvin(35.0),
			TEvap:           toKelvin(10.0),
			CoolingCapacity: 12.0e3,
		},
		Pump: PumpParams{
			Efficiency:   0.7,
			NPSHRequired: 2.0,
			SuctionHead:  3.0,
			SuctionLoss:  0.5,
		},
		Generator: GeneratorParams{
			Mode:              GeneratorTargetOutlet,
			Superheat:         0.0,
			CollectorArea:     100.0,
			OpticalEfficiency: 0.75,
			Irradiance:        800.0,
			Geometry: CollectorGeometry{
				Tilt:    0.5235987755982988, // 30 deg
				Azimuth: 0.0,
				Albedo:  0.2,
			},
			LossCoefficient: 1.5,
			Emissivity:      0.1,
			AmbientTemp:     toKelvin(30.0),
			AbsorberOffset:  10.0,
			HeatExchanger: HeatExchanger{
				Enabled: true,
				K:       250.0,
				Area:    6.0,
				TIn:     toKelvin(130.0),
				TOut:    toKelvin(110.0),
			},
		},
		Valve: ValveParams{
			Discharge:       0.8,
			OrificeArea:     1.0e-6,
			RequireTwoPhase: true,
		},
		Evaporator: EvaporatorParams{
			Superheat: 0.0,
			HeatExchanger: HeatExchanger{
				Enabled: true,
				K:       500.0,
				TIn:     toKelvin(18.0),
				TOut:    toKelvin(13.0),
			},
		},
		Condenser: CondenserParams{
			Subcooling:     0.0,
			Height:         0.5,
			WallResistance: 1.0e-4,
			FinFactor:      10.0,
			AirIn:          toKelvin(27.0),
			AirOut:         toKelvin(32.0),
			AirHumidity:    0.5,
		},
		Ejector: EjectorParams{
			NozzleEfficiency:   0.85,
			SuctionEfficiency:  0.85,
			MixingEfficiency:   1.0,
			DiffuserEfficiency: 0.85,
			AreaRatio:          45.0,
			Mixing:             ConstantPressure,
			Gamma:              1.33,
			GasConstant:        461.5,
		},
		Solver: SolverParams{
			MaxIterations:      200,
			Tolerance:          1.0e-6,
			Damping:            1.0,
			MaxStep:            0.2,
			FinalStage:         StageShock,
			AssumedEntrainment: 0.3,
		},
	}
}

// Validate checks every parameter group and joins the failures.
func (c Config) Validate() error {
	return errors.Join(
		c.Conditions.Validate(),
		c.Pump.Validate(),
		c.Generator.Validate(),
		c.Valve.Validate(),
		c.Evaporator.Validate(),
		c.Condenser.Validate(),
		c.Ejector.Validate(),
		c.Solver.Validate(),
	)
}

/*
Loads a configuration file.

	Args:
		path: YAML file; keys it omits keep their DefaultConfig values

	Returns:
		validated Config, error
*/
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
