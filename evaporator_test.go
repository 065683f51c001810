package r718

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valveOutlet(t *testing.T) ThermoState {
	t.Helper()
	in := resolve(t, PropP, pCondDesign, PropQ, 0)
	return resolve(t, PropP, pEvapDesign, PropH, in.H)
}

func TestEvaporator_Solve(t *testing.T) {
	e := Evaporator{Provider: IAPWS97{}, Params: EvaporatorParams{}}
	in := valveOutlet(t)
	m := 0.005

	out, d, err := e.Solve(in, Boundary{P: pEvapDesign, MassFlow: m})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.X)
	assert.InEpsilon(t, m*(out.H-in.H), d.Values[ValueHeat], 1e-12)
	assert.NotContains(t, d.Values, ValueResidual)

	e.Params.Superheat = 5.0
	sh, _, err := e.Solve(in, Boundary{P: pEvapDesign, MassFlow: m})
	require.NoError(t, err)
	assert.InDelta(t, out.T+5.0, sh.T, 1e-9)
	assert.Equal(t, SinglePhase, sh.X)
	assert.Greater(t, sh.H, out.H)
}

func TestEvaporator_HeatExchanger(t *testing.T) {
	hx := DefaultConfig().Evaporator.HeatExchanger
	e := Evaporator{Provider: IAPWS97{}, Params: EvaporatorParams{HeatExchanger: hx}}
	in := valveOutlet(t)
	m := 0.005

	// unsized: nothing transferred, the required area is reported
	_, d, err := e.Solve(in, Boundary{P: pEvapDesign, MassFlow: m})
	require.NoError(t, err)
	q := d.Values[ValueHeat]
	lmtd := (8.0 - 3.0) / math.Log(8.0/3.0)
	assert.InEpsilon(t, lmtd, d.Values[ValueLMTD], 1e-6)
	assert.InEpsilon(t, q/(hx.K*lmtd), d.Values[ValueAreaRequired], 1e-6)
	assert.Equal(t, -1.0, d.Values[ValueResidual])
	assert.True(t, d.Flags.Has(FlagThermalMismatch))

	// sized for this duty
	e.Params.HeatExchanger.Area = d.Values[ValueAreaRequired]
	_, d, err = e.Solve(in, Boundary{P: pEvapDesign, MassFlow: m})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d.Values[ValueResidual], 1e-9)
	assert.False(t, d.Flags.Has(FlagThermalMismatch))

	// a higher pressure narrows the approach and the exchanger falls short
	_, d, err = e.Solve(resolve(t, PropP, 1400.0, PropH, in.H), Boundary{P: 1400.0, MassFlow: m})
	require.NoError(t, err)
	assert.Less(t, d.Values[ValueResidual], 0.0)
}

func TestEvaporator_InvalidLMTD(t *testing.T) {
	hx := HeatExchanger{Enabled: true, K: 500, Area: 10, TIn: 282.0, TOut: 281.0}
	e := Evaporator{Provider: IAPWS97{}, Params: EvaporatorParams{HeatExchanger: hx}}

	_, d, err := e.Solve(valveOutlet(t), Boundary{P: pEvapDesign, MassFlow: 0.005})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagInvalidLMTD))
	assert.Equal(t, 0.0, d.Values[ValueHeatKA])
	assert.Equal(t, -1.0, d.Values[ValueResidual])
}

func TestEvaporator_IncompleteEvaporation(t *testing.T) {
	e := Evaporator{Provider: IAPWS97{}}
	in := resolve(t, PropP, pEvapDesign, PropQ, 1)

	_, d, err := e.Solve(in, Boundary{P: pEvapDesign, MassFlow: 0.005})
	assert.ErrorIs(t, err, ErrNonPhysical)
	assert.True(t, d.Flags.Has(FlagIncompleteEvaporation))
}
