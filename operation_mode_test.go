package r718

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	for in, want := range map[string]Stage{
		"1":               StageFixedPressure,
		"fixed_pressure":  StageFixedPressure,
		"2":               StageHeatExchanger,
		" Heat_Exchanger": StageHeatExchanger,
		"3":               StageShock,
		"SHOCK":           StageShock,
	} {
		got, err := ParseStage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStage("4")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestStage_Text(t *testing.T) {
	for _, s := range []Stage{StageFixedPressure, StageHeatExchanger, StageShock} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back Stage
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	assert.Equal(t, "stage(7)", Stage(7).String())

	var s Stage
	assert.ErrorIs(t, s.UnmarshalText([]byte("warp")), ErrInvalidParameter)
}

func TestRegime_String(t *testing.T) {
	assert.Equal(t, "critical", RegimeCritical.String())
	assert.Equal(t, "subcritical", RegimeSubcritical.String())
	assert.Equal(t, "malfunction", RegimeMalfunction.String())
	assert.Equal(t, "unknown", RegimeUnknown.String())
	assert.Equal(t, "unknown", Regime(9).String())
	assert.Equal(t, RegimeUnknown, Regime(0))
}
