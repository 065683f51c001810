package r718

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ejectorFixture struct {
	ej                 Ejector
	primary, secondary ThermoState
	mPri               float64
}

func newEjectorFixture(t *testing.T, mode MixingMode) ejectorFixture {
	t.Helper()
	prm := DefaultConfig().Ejector
	prm.Mixing = mode
	return ejectorFixture{
		ej:        Ejector{Provider: IAPWS97{}, Params: prm},
		primary:   resolve(t, PropP, pGenDesign, PropQ, 1),
		secondary: resolve(t, PropP, pEvapDesign, PropQ, 1),
		mPri:      0.01,
	}
}

func (f ejectorFixture) solve(pb float64) (EjectorResult, error) {
	return f.ej.Solve(f.primary, f.secondary, pb, f.mPri)
}

// envelope returns the critical and maximum back pressures.
func (f ejectorFixture) envelope(t *testing.T) (float64, float64) {
	t.Helper()
	res, err := f.solve(pEvapDesign)
	require.NoError(t, err)
	require.Equal(t, RegimeCritical, res.Regime)
	require.Greater(t, res.CriticalBackPressure, pEvapDesign)
	require.GreaterOrEqual(t, res.MaxBackPressure, res.CriticalBackPressure)
	return res.CriticalBackPressure, res.MaxBackPressure
}

func TestCriticalRatio(t *testing.T) {
	assert.InDelta(t, 0.5283, criticalRatio(1.4), 1e-4)
	assert.InDelta(t, 0.5404, criticalRatio(1.33), 1e-4)
}

func TestExpand(t *testing.T) {
	pp := IAPWS97{}
	in := resolve(t, PropP, pGenDesign, PropQ, 1)

	j, err := expand(pp, in, 0.5*pGenDesign, 0.85)
	require.NoError(t, err)
	is := resolve(t, PropP, 0.5*pGenDesign, PropS, in.S)
	assert.InEpsilon(t, math.Sqrt(2.0*0.85*(in.H-is.H)), j.c, 1e-12)
	assert.InEpsilon(t, j.state.Rho*j.c, j.g, 1e-12)
	// losses raise the entropy
	assert.Greater(t, j.state.S, in.S)

	_, err = expand(pp, in, pGenDesign, 0.85)
	assert.ErrorIs(t, err, ErrSupersonicInfeasible)
}

func TestNormalShock(t *testing.T) {
	pp := IAPWS97{}
	in := resolve(t, PropP, pGenDesign, PropQ, 1)
	up, err := expand(pp, in, 2000.0, 0.85)
	require.NoError(t, err)

	down, shock, err := normalShock(pp, up, in.H)
	require.NoError(t, err)
	require.True(t, shock)
	assert.Less(t, down.c, up.c)
	assert.Greater(t, down.state.P, up.state.P)
	assert.GreaterOrEqual(t, down.state.S, up.state.S)

	// mass, momentum and energy across the shock
	assert.InEpsilon(t, up.g, down.g, 1e-6)
	assert.InEpsilon(t, up.state.P+up.g*up.c, down.state.P+down.g*down.c, 1e-6)
	assert.InDelta(t, up.state.H+0.5*up.c*up.c, down.state.H+0.5*down.c*down.c, 1e-3)

	// a stream at rest passes unchanged
	rest := stagnant(in)
	same, shock, err := normalShock(pp, rest, in.H)
	require.NoError(t, err)
	assert.False(t, shock)
	assert.Equal(t, rest, same)
}

func TestDiffuse(t *testing.T) {
	pp := IAPWS97{}
	st := resolve(t, PropP, 3000.0, PropT, 300.0)
	j := jet{state: st, c: 200.0, g: st.Rho * 200.0}

	ideal, err := diffuse(pp, j, 1.0)
	require.NoError(t, err)
	lossy, err := diffuse(pp, j, 0.8)
	require.NoError(t, err)
	assert.Greater(t, ideal, lossy)
	assert.Greater(t, lossy, st.P)

	at, err := pp.Resolve(PropP, ideal, PropS, st.S)
	require.NoError(t, err)
	assert.InDelta(t, st.H+0.5*200.0*200.0, at.H, 1e-2)

	p, err := diffuse(pp, stagnant(st), 0.8)
	require.NoError(t, err)
	assert.Equal(t, st.P, p)
}

func TestEjector_CriticalPlateau(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	pCrit, _ := f.envelope(t)

	lo, err := f.solve(0.5 * pCrit)
	require.NoError(t, err)
	hi, err := f.solve(0.9 * pCrit)
	require.NoError(t, err)

	assert.Equal(t, RegimeCritical, lo.Regime)
	assert.Equal(t, RegimeCritical, hi.Regime)
	assert.Greater(t, lo.Entrainment, 0.0)
	assert.InDelta(t, lo.Entrainment, hi.Entrainment, 1e-12)
	assert.InEpsilon(t, lo.Entrainment*f.mPri, lo.MassSecondary, 1e-12)

	// the outlet carries the stagnation enthalpy of the mixture at the back pressure
	h0 := (f.primary.H + lo.Entrainment*f.secondary.H) / (1.0 + lo.Entrainment)
	assert.InDelta(t, h0, lo.Outlet.H, 1e-6)
	assert.Equal(t, 0.5*pCrit, lo.Outlet.P)

	assert.InEpsilon(t, f.ej.Params.AreaRatio*lo.ThroatArea, lo.MixingArea, 1e-12)
	assert.InEpsilon(t, pEvapDesign*criticalRatio(f.ej.Params.Gamma), lo.MixingPressure, 1e-12)
	assert.Equal(t, pCrit, lo.Diagnostics.Values[ValuePCritBack])
	assert.Equal(t, KindEjector, lo.Diagnostics.Component)
}

func TestEjector_SubcriticalMonotone(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	pCrit, pMax := f.envelope(t)
	require.Greater(t, pMax, pCrit)

	const n = 8
	prev := math.Inf(1)
	for i := 1; i < n; i++ {
		pb := pCrit + (pMax-pCrit)*float64(i)/float64(n)
		res, err := f.solve(pb)
		require.NoError(t, err, "back pressure %.1f Pa", pb)
		assert.Equal(t, RegimeSubcritical, res.Regime)
		assert.GreaterOrEqual(t, res.Entrainment, 0.0)
		assert.LessOrEqual(t, res.Entrainment, prev*(1.0+1e-9)+1e-12, "back pressure %.1f Pa", pb)
		assert.InDelta(t, pb, res.Diagnostics.Values[ValuePRecovery], 1e-4*pb)
		prev = res.Entrainment
	}
}

func TestEjector_Malfunction(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	_, pMax := f.envelope(t)

	res, err := f.solve(1.2 * pMax)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEjectorMalfunction)
	assert.Equal(t, RegimeMalfunction, res.Regime)

	var ee *EjectorError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1.2*pMax, ee.BackPressure)
	assert.Equal(t, pMax, ee.MaxBackPressure)
	assert.Less(t, ee.CriticalBackPressure, ee.MaxBackPressure)
}

func TestEjector_MalfunctionAtMaxBackPressure(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	pCrit, pMax := f.envelope(t)
	require.Greater(t, pMax, pCrit)

	res, err := f.solve(pMax)
	assert.ErrorIs(t, err, ErrEjectorMalfunction)
	assert.Equal(t, RegimeMalfunction, res.Regime)

	below, err := f.solve(pMax - 1e-3*(pMax-pCrit))
	require.NoError(t, err)
	assert.Equal(t, RegimeSubcritical, below.Regime)
}

func TestEjector_ConstantArea(t *testing.T) {
	f := newEjectorFixture(t, ConstantArea)
	pCrit, pMax := f.envelope(t)

	res, err := f.solve(0.5 * pCrit)
	require.NoError(t, err)
	assert.Equal(t, RegimeCritical, res.Regime)
	assert.Greater(t, res.Entrainment, 0.0)

	h0 := (f.primary.H + res.Entrainment*f.secondary.H) / (1.0 + res.Entrainment)
	assert.InDelta(t, h0, res.Outlet.H, 1e-6)

	_, err = f.solve(1.2 * pMax)
	assert.ErrorIs(t, err, ErrEjectorMalfunction)
}

func TestEjector_InvalidInlets(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)

	_, err := f.ej.Solve(f.secondary, f.primary, pCondDesign, f.mPri)
	assert.ErrorIs(t, err, ErrSupersonicInfeasible)
	var ce *ComponentError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindEjector, ce.Component)

	_, err = f.ej.Solve(f.primary, f.secondary, pCondDesign, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	f.ej.Params.Mixing = ""
	_, err = f.solve(pCondDesign)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEjector_Forward(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	pCrit, _ := f.envelope(t)
	mu := 0.3

	res, err := f.ej.Forward(f.primary, f.secondary, pCondDesign, f.mPri, mu)
	require.NoError(t, err)
	assert.Equal(t, mu, res.Entrainment)
	assert.InEpsilon(t, mu*f.mPri, res.MassSecondary, 1e-12)
	assert.Equal(t, pCondDesign, res.Outlet.P)
	h0 := (f.primary.H + mu*f.secondary.H) / (1.0 + mu)
	assert.InDelta(t, h0, res.Outlet.H, 1e-6)

	// recovery below the back pressure is reported, not fatal
	low, err := f.ej.Forward(f.primary, f.secondary, 0.5*pCrit, f.mPri, mu)
	require.NoError(t, err)
	assert.False(t, low.Diagnostics.Flags.Has(FlagInsufficientRecovery))
	assert.Equal(t, RegimeCritical, low.Regime)

	high, err := f.ej.Forward(f.primary, f.secondary, 3.0*pCondDesign, f.mPri, mu)
	require.NoError(t, err)
	assert.True(t, high.Diagnostics.Flags.Has(FlagInsufficientRecovery))
	assert.Equal(t, RegimeSubcritical, high.Regime)

	_, err = f.ej.Forward(f.primary, f.secondary, pCondDesign, f.mPri, -0.1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// lowPressureProvider refuses (P, S) lookups below a pressure floor.
type lowPressureProvider struct {
	IAPWS97
	floor float64
}

func (l lowPressureProvider) Resolve(a Property, va float64, b Property, vb float64) (ThermoState, error) {
	if a == PropP && b == PropS && va < l.floor {
		return ThermoState{}, &PropertyError{A: a, VA: va, B: b, VB: vb, Reason: "below floor"}
	}
	return l.IAPWS97.Resolve(a, va, b, vb)
}

func TestEjector_ForwardFailedPass(t *testing.T) {
	f := newEjectorFixture(t, ConstantPressure)
	// the suction expands below the floor, the nozzle throat does not
	f.ej.Provider = lowPressureProvider{floor: pEvapDesign}
	mu := 0.3

	res, err := f.ej.Forward(f.primary, f.secondary, pCondDesign, f.mPri, mu)
	require.NoError(t, err)
	assert.Equal(t, RegimeUnknown, res.Regime)
	assert.Equal(t, "unknown", res.Regime.String())
	assert.True(t, res.Diagnostics.Flags.Has(FlagInsufficientRecovery))
	assert.Zero(t, res.CriticalBackPressure)
	assert.Equal(t, res.Outlet, res.Mixed)

	h0 := (f.primary.H + mu*f.secondary.H) / (1.0 + mu)
	assert.InDelta(t, h0, res.Outlet.H, 1e-6)
	assert.Equal(t, pCondDesign, res.Outlet.P)
}
