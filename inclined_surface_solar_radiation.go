package r718

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CollectorGeometry orients the solar collector that drives the generator.
type CollectorGeometry struct {
	Tilt    float64 `yaml:"tilt"`    // tilt from horizontal, rad, 0..pi
	Azimuth float64 `yaml:"azimuth"` // azimuth of the surface normal, rad, south = 0, west positive
	Albedo  float64 `yaml:"albedo"`  // ground reflectance, -
}

func (g CollectorGeometry) Validate() error {
	if g.Tilt < 0 || g.Tilt > math.Pi {
		return invalidParam("collector.tilt", g.Tilt, "0..pi")
	}
	if g.Albedo < 0 || g.Albedo > 1 {
		return invalidParam("collector.albedo", g.Albedo, "0..1")
	}
	return nil
}

// SolarInput is the sky state at one operating point.
type SolarInput struct {
	Beam        float64 `yaml:"beam"`         // direct normal irradiance, W/m2
	Diffuse     float64 `yaml:"diffuse"`      // horizontal sky diffuse irradiance, W/m2
	SunAltitude float64 `yaml:"sun_altitude"` // rad
	SunAzimuth  float64 `yaml:"sun_azimuth"`  // rad, south = 0, west positive
}

/*
Computes the irradiance on the collector plane.

	Args:
		in: sky state
		g: collector orientation

	Returns:
		(1) beam component, W/m2
		(2) sky diffuse component, W/m2
		(3) ground reflected component, W/m2
*/
func CollectorIrradiance(in SolarInput, g CollectorGeometry) (beam, sky, ground float64) {
	fSky := getFSky(g.Tilt)
	fGnd := 1.0 - fSky

	iHrz := math.Max(math.Sin(math.Max(in.SunAltitude, 0)), 0)*in.Beam + in.Diffuse

	beam = in.Beam * getCosIncidence(in.SunAltitude, in.SunAzimuth, g)
	sky = fSky * in.Diffuse
	ground = fGnd * g.Albedo * iHrz
	return beam, sky, ground
}

/*
Computes the view factor of a tilted plane to the sky.

	Args:
		beta: tilt, rad

	Returns:
		view factor to the sky, -
*/
func getFSky(beta float64) float64 {
	return (1.0 + math.Cos(beta)) / 2.0
}

/*
Computes the cosine of the solar incidence angle on the collector.

	Args:
		hSun: sun altitude, rad
		aSun: sun azimuth, rad
		g: collector orientation

	Returns:
		cosine of the incidence angle, clipped at 0 when the sun is behind the plane
*/
func getCosIncidence(hSun, aSun float64, g CollectorGeometry) float64 {
	if hSun <= 0 {
		return 0
	}
	cosH := math.Cos(hSun)
	sinH := math.Sin(hSun)
	cosB := math.Cos(g.Tilt)
	sinB := math.Sin(g.Tilt)

	// sun at zenith: azimuth undefined, only the tilt term remains
	if cosH == 0.0 {
		return math.Max(sinH*cosB, 0)
	}
	return math.Max(sinH*cosB+
		cosH*math.Sin(aSun)*sinB*math.Sin(g.Azimuth)+
		cosH*math.Cos(aSun)*sinB*math.Cos(g.Azimuth), 0)
}

/*
Computes the total collector-plane irradiance for a series of sky states.

	Args:
		iDn: direct normal irradiance, W/m2, [n]
		iSky: horizontal diffuse irradiance, W/m2, [n]
		hSun: sun altitude, rad, [n]
		aSun: sun azimuth, rad, [n]
		g: collector orientation

	Returns:
		total irradiance on the collector plane, W/m2, [n]
*/
func collectorIrradianceSeries(iDn, iSky, hSun, aSun *mat.VecDense, g CollectorGeometry) (*mat.VecDense, error) {
	n := iDn.Len()
	if iSky.Len() != n || hSun.Len() != n || aSun.Len() != n {
		return nil, fmt.Errorf("%w: irradiance series lengths differ", ErrInvalidParameter)
	}

	cos := mat.NewVecDense(n, nil)
	sinH := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		cos.SetVec(i, getCosIncidence(hSun.AtVec(i), aSun.AtVec(i), g))
		sinH.SetVec(i, math.Sin(math.Max(hSun.AtVec(i), 0)))
	}

	// beam on the plane
	var total mat.VecDense
	total.MulElemVec(iDn, cos)

	// sky diffuse
	total.AddScaledVec(&total, getFSky(g.Tilt), iSky)

	// ground reflected from the horizontal global irradiance
	var iHrz mat.VecDense
	iHrz.MulElemVec(sinH, iDn)
	iHrz.AddVec(&iHrz, iSky)
	total.AddScaledVec(&total, (1.0-getFSky(g.Tilt))*g.Albedo, &iHrz)

	return &total, nil
}
