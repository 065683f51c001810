package r718

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturation pressures of the design point, Pa.
var (
	pCondDesign = saturationPressure(308.15) // 35 degree C, about 5628 Pa
	pEvapDesign = saturationPressure(283.15) // 10 degree C, about 1228 Pa
	pGenDesign  = saturationPressure(373.15) // 100 degree C, about 101418 Pa
)

func resolve(t *testing.T, a Property, va float64, b Property, vb float64) ThermoState {
	t.Helper()
	st, err := IAPWS97{}.Resolve(a, va, b, vb)
	require.NoError(t, err)
	return st
}

func TestFlag_String(t *testing.T) {
	assert.Equal(t, "", Flag(0).String())
	assert.Equal(t, "cavitation", FlagCavitation.String())
	assert.Equal(t, "two_phase_outlet|deep_vacuum", (FlagTwoPhaseOutlet | FlagDeepVacuum).String())
	assert.True(t, (FlagShock | FlagInsufficientRecovery).Has(FlagShock))
	assert.False(t, FlagShock.Has(FlagInsufficientRecovery))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "expansion_valve", KindExpansionValve.String())
	assert.Equal(t, "unknown", Kind(0).String())

	var c Component = Condenser{}
	assert.Equal(t, KindCondenser, c.Kind())
}

func TestSystemState_SolveComponent(t *testing.T) {
	cyc := newCycle(IAPWS97{}, DefaultConfig())
	s := newSystemState()
	p1 := resolve(t, PropP, pCondDesign, PropQ, 0)

	for _, c := range []Component{cyc.pump, cyc.generator, cyc.valve, cyc.evap, cyc.cond} {
		assert.NotEqual(t, KindEjector, c.Kind())
	}

	p4, err := s.solve(cyc.pump, p1, Boundary{P: pGenDesign, MassFlow: 0.01})
	require.NoError(t, err)
	assert.Greater(t, p4.P, p1.P)
	require.Contains(t, s.diags, KindPump)
	assert.Equal(t, KindPump, s.diags[KindPump].Component)
	assert.Greater(t, s.diags[KindPump].Values[ValueWork], 0.0)

	// diagnostics of a failed solve are kept
	_, err = s.solve(cyc.valve, p1, Boundary{P: 500.0, MassFlow: 0.005})
	assert.ErrorIs(t, err, ErrPropertyLookup)
	assert.Equal(t, KindExpansionValve, s.diags[KindExpansionValve].Component)
}

// A property failure keeps its concrete type through the component wrapper.
func TestComponentError_KeepsPropertyError(t *testing.T) {
	in := resolve(t, PropP, pCondDesign, PropQ, 0)
	v := ExpansionValve{Provider: IAPWS97{}, Params: ValveParams{RequireTwoPhase: true}}

	_, _, err := v.Solve(in, Boundary{P: 500.0, MassFlow: 0.005})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPropertyLookup)

	var ce *ComponentError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindExpansionValve, ce.Component)
	assert.Equal(t, "isenthalpic expansion", ce.Law)

	var pe *PropertyError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PropP, pe.A)
	assert.Equal(t, 500.0, pe.VA)
}
