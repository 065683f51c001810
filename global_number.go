package r718

// standard gravity, m/s2
func getG() float64 {
	return 9.80665
}

// specific heat of dry air, J/kg K
func getCA() float64 {
	return 1005.0
}

// gas constant of dry air, J/kg K
func getRAir() float64 {
	return 287.055
}

// Stefan-Boltzmann constant, W/m2 K4
func getSgm() float64 {
	return 5.67e-8
}

// atmospheric pressure, Pa
func getPAtm() float64 {
	return 101325.0
}

// conversion from degree C to K
func toKelvin(theta float64) float64 {
	return theta + 273.15
}
