package r718

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointsCSV = `name,t_gen,t_cond,t_evap,cooling_kw,beam,diffuse,sun_altitude,sun_azimuth,t_amb
noon,373.15,308.15,283.15,12,750,120,60,0,303.15
afternoon,368.15,310.15,283.15,10,500,150,35,45,305.15
overcast,0,0,0,0,0,0,20,-30,0
`

func writePoints(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOperatingPoints(t *testing.T) {
	g := DefaultConfig().Generator.Geometry
	points, err := LoadOperatingPoints(writePoints(t, pointsCSV), g)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "noon", points[0].Name)
	assert.Equal(t, "afternoon", points[1].Name)
	assert.Equal(t, 310.15, points[1].TCond)
	assert.Equal(t, 10.0, points[1].CoolingKW)

	for _, op := range points {
		beam, sky, ground := CollectorIrradiance(SolarInput{
			Beam:        op.Beam,
			Diffuse:     op.Diffuse,
			SunAltitude: op.SunAltitude * math.Pi / 180.0,
			SunAzimuth:  op.SunAzimuth * math.Pi / 180.0,
		}, g)
		assert.InDelta(t, beam+sky+ground, op.PlaneIrradiance, 1e-9, op.Name)
	}
	assert.Greater(t, points[0].PlaneIrradiance, points[1].PlaneIrradiance)
	assert.Equal(t, 0.0, points[2].PlaneIrradiance)
}

func TestLoadOperatingPoints_Errors(t *testing.T) {
	g := DefaultConfig().Generator.Geometry

	_, err := LoadOperatingPoints(filepath.Join(t.TempDir(), "none.csv"), g)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadOperatingPoints(writePoints(t, "name,t_gen\n"), g)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = LoadOperatingPoints(writePoints(t, "name,t_gen\nbad,hot\n"), g)
	assert.Error(t, err)
}

func TestOperatingPoint_Apply(t *testing.T) {
	base := DefaultConfig()

	op := OperatingPoint{
		Name:            "noon",
		TCond:           310.15,
		CoolingKW:       10,
		Beam:            750,
		Diffuse:         120,
		SunAltitude:     60,
		SunAzimuth:      15,
		TAmb:            305.15,
		PlaneIrradiance: 812.5,
	}
	cfg := op.Apply(base)
	assert.Equal(t, 310.15, cfg.Conditions.TCond)
	assert.Equal(t, base.Conditions.TGen, cfg.Conditions.TGen)
	assert.Equal(t, base.Conditions.TEvap, cfg.Conditions.TEvap)
	assert.Equal(t, 10000.0, cfg.Conditions.CoolingCapacity)
	assert.Equal(t, 812.5, cfg.Generator.Irradiance)
	assert.Equal(t, 812.5, cfg.Generator.PlaneIrradiance())
	assert.InDelta(t, math.Pi/3, cfg.Generator.Sky.SunAltitude, 1e-12)
	assert.Equal(t, 305.15, cfg.Generator.AmbientTemp)

	// the base is a value and stays untouched
	assert.Equal(t, DefaultConfig(), base)

	// an empty point changes nothing
	assert.Equal(t, base, OperatingPoint{Name: "empty"}.Apply(base))
}
