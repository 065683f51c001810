package r718

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
)

// OperatingPoint is one row of an operating-point file. Zero fields keep the
// value of the base configuration.
type OperatingPoint struct {
	Name        string  `csv:"name"`
	TGen        float64 `csv:"t_gen"`        // K
	TCond       float64 `csv:"t_cond"`       // K
	TEvap       float64 `csv:"t_evap"`       // K
	CoolingKW   float64 `csv:"cooling_kw"`   // kW
	Beam        float64 `csv:"beam"`         // direct normal irradiance, W/m2
	Diffuse     float64 `csv:"diffuse"`      // horizontal sky diffuse irradiance, W/m2
	SunAltitude float64 `csv:"sun_altitude"` // deg
	SunAzimuth  float64 `csv:"sun_azimuth"`  // deg, south = 0, west positive
	TAmb        float64 `csv:"t_amb"`        // K

	// irradiance on the collector plane, W/m2, filled by LoadOperatingPoints
	PlaneIrradiance float64 `csv:"-"`
}

/*
Reads operating points from a CSV file.

	Args:
		path: CSV file with the columns name, t_gen, t_cond, t_evap, cooling_kw,
			beam, diffuse, sun_altitude, sun_azimuth, t_amb
		g: collector orientation used for the plane irradiance

	Returns:
		operating points in file order, error
*/
func LoadOperatingPoints(path string, g CollectorGeometry) ([]OperatingPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open operating points: %w", err)
	}
	defer file.Close()

	var rows []*OperatingPoint
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse operating points %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no operating points", ErrInvalidParameter, path)
	}

	n := len(rows)
	iDn := mat.NewVecDense(n, nil)
	iSky := mat.NewVecDense(n, nil)
	hSun := mat.NewVecDense(n, nil)
	aSun := mat.NewVecDense(n, nil)
	for i, r := range rows {
		iDn.SetVec(i, r.Beam)
		iSky.SetVec(i, r.Diffuse)
		hSun.SetVec(i, r.SunAltitude*math.Pi/180.0)
		aSun.SetVec(i, r.SunAzimuth*math.Pi/180.0)
	}
	plane, err := collectorIrradianceSeries(iDn, iSky, hSun, aSun, g)
	if err != nil {
		return nil, err
	}

	points := make([]OperatingPoint, n)
	for i, r := range rows {
		points[i] = *r
		points[i].PlaneIrradiance = plane.AtVec(i)
	}
	return points, nil
}

// Apply overlays the operating point onto cfg.
func (op OperatingPoint) Apply(cfg Config) Config {
	if op.TGen > 0 {
		cfg.Conditions.TGen = op.TGen
	}
	if op.TCond > 0 {
		cfg.Conditions.TCond = op.TCond
	}
	if op.TEvap > 0 {
		cfg.Conditions.TEvap = op.TEvap
	}
	if op.CoolingKW > 0 {
		cfg.Conditions.CoolingCapacity = op.CoolingKW * 1000.0
	}
	if op.Beam > 0 || op.Diffuse > 0 {
		cfg.Generator.Irradiance = op.PlaneIrradiance
		cfg.Generator.Sky = SolarInput{
			Beam:        op.Beam,
			Diffuse:     op.Diffuse,
			SunAltitude: op.SunAltitude * math.Pi / 180.0,
			SunAzimuth:  op.SunAzimuth * math.Pi / 180.0,
		}
	}
	if op.TAmb > 0 {
		cfg.Generator.AmbientTemp = op.TAmb
	}
	return cfg
}
