package r718

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPump() Pump {
	return Pump{Provider: IAPWS97{}, Params: DefaultConfig().Pump}
}

func TestPump_Solve(t *testing.T) {
	p := newTestPump()
	in := resolve(t, PropP, pCondDesign, PropQ, 0)
	m := 0.01

	out, d, err := p.Solve(in, Boundary{P: pGenDesign, MassFlow: m})
	require.NoError(t, err)
	assert.Equal(t, KindPump, d.Component)

	assert.Equal(t, pGenDesign, out.P)
	assert.Equal(t, SinglePhase, out.X)
	assert.Greater(t, out.H, in.H)
	assert.GreaterOrEqual(t, out.S, in.S)

	// incompressible estimate of the work, v dP / eta
	vdp := (pGenDesign - in.P) / in.Rho
	assert.InEpsilon(t, vdp/p.Params.Efficiency, out.H-in.H, 0.02)
	assert.InEpsilon(t, m*(out.H-in.H), d.Values[ValueWork], 1e-9)

	// saturated liquid: NPSH_a is the static head minus the line loss
	assert.InDelta(t, p.Params.SuctionHead-p.Params.SuctionLoss, d.Values[ValueNPSHa], 1e-3)
	assert.False(t, d.Flags.Has(FlagCavitation))
	assert.False(t, d.Flags.Has(FlagTwoPhaseInlet))
}

func TestPump_Cavitation(t *testing.T) {
	p := newTestPump()

	// below 1500 Pa the flag is always raised
	in := resolve(t, PropP, pEvapDesign, PropQ, 0)
	_, d, err := p.Solve(in, Boundary{P: pGenDesign, MassFlow: 0.01})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagCavitation))

	// not enough static head
	p.Params.SuctionHead = 1.0
	in = resolve(t, PropP, pCondDesign, PropQ, 0)
	_, d, err = p.Solve(in, Boundary{P: pGenDesign, MassFlow: 0.01})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagCavitation))
	assert.Less(t, d.Values[ValueNPSHa], d.Values[ValueNPSHr])
}

func TestPump_TwoPhaseInlet(t *testing.T) {
	in := resolve(t, PropP, pCondDesign, PropQ, 0.01)
	_, d, err := newTestPump().Solve(in, Boundary{P: pGenDesign, MassFlow: 0.01})
	require.NoError(t, err)
	assert.True(t, d.Flags.Has(FlagTwoPhaseInlet))
}

func TestPump_InvalidPressureRise(t *testing.T) {
	in := resolve(t, PropP, pCondDesign, PropQ, 0)
	_, d, err := newTestPump().Solve(in, Boundary{P: 0.5 * pCondDesign, MassFlow: 0.01})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonPhysical)
	assert.True(t, d.Flags.Has(FlagInvalidPressureRise))
}
