package r718

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpansionValve_Isenthalpic(t *testing.T) {
	v := ExpansionValve{Provider: IAPWS97{}}
	inlets := []ThermoState{
		resolve(t, PropP, pCondDesign, PropQ, 0),
		resolve(t, PropP, pCondDesign, PropT, 300.0),
		resolve(t, PropP, 2.0e4, PropQ, 0),
		resolve(t, PropP, 2.0e4, PropQ, 0.3),
		resolve(t, PropP, pGenDesign, PropT, 340.0),
	}
	outlets := []float64{pEvapDesign, 2000.0, 3000.0, 0.9 * pCondDesign}
	for _, in := range inlets {
		for _, p := range outlets {
			if p >= in.P {
				continue
			}
			out, _, err := v.Solve(in, Boundary{P: p, MassFlow: 0.005})
			require.NoError(t, err)
			assert.Equal(t, in.H, out.H)
			assert.Equal(t, p, out.P)
		}
	}
}

func TestExpansionValve_DesignPoint(t *testing.T) {
	v := ExpansionValve{Provider: IAPWS97{}, Params: ValveParams{RequireTwoPhase: true}}
	in := resolve(t, PropP, pCondDesign, PropQ, 0)

	out, d, err := v.Solve(in, Boundary{P: pEvapDesign, MassFlow: 0.005})
	require.NoError(t, err)
	assert.Equal(t, in.H, out.H)
	assert.True(t, out.TwoPhase())
	assert.True(t, d.Flags.Has(FlagTwoPhaseOutlet))
	assert.False(t, d.Flags.Has(FlagDeepVacuum))
	assert.InDelta(t, 283.15, out.T, 1e-3)

	// flash fraction of 35 degree C condensate throttled to 10 degree C
	assert.InDelta(t, 0.042, out.X, 0.005)
}

func TestExpansionValve_Flags(t *testing.T) {
	in := resolve(t, PropP, pCondDesign, PropQ, 0)

	v := ExpansionValve{Provider: IAPWS97{}}
	_, d, err := v.Solve(in, Boundary{P: 1000.0, MassFlow: 0.005})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagDeepVacuum))

	// no drop: the outlet stays liquid
	_, d, err = v.Solve(in, Boundary{P: 8000.0, MassFlow: 0.005})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagInvalidPressureDrop))
	assert.False(t, d.Flags.Has(FlagTwoPhaseOutlet))

	v.Params.RequireTwoPhase = true
	_, _, err = v.Solve(in, Boundary{P: 8000.0, MassFlow: 0.005})
	assert.ErrorIs(t, err, ErrNonPhysical)
}

func TestExpansionValve_OrificeFlow(t *testing.T) {
	v := ExpansionValve{Provider: IAPWS97{}, Params: ValveParams{Orifice: true, Discharge: 0.8, OrificeArea: 1.0e-6}}
	require.NoError(t, v.Params.Validate())
	in := resolve(t, PropP, pCondDesign, PropQ, 0)

	dp := in.P - pEvapDesign
	want := 0.8 * 1.0e-6 * math.Sqrt(2.0*in.Rho*dp)
	assert.InEpsilon(t, want, v.OrificeFlow(in, pEvapDesign), 1e-12)
	assert.Equal(t, 0.0, v.OrificeFlow(in, in.P))

	_, d, err := v.Solve(in, Boundary{P: pEvapDesign, MassFlow: 1})
	require.NoError(t, err)
	assert.InEpsilon(t, want, d.Values[ValueMassFlow], 1e-12)

	v.Params.Discharge = 1.5
	assert.ErrorIs(t, v.Params.Validate(), ErrInvalidParameter)
}
