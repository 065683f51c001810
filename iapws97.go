package r718

import (
	"math"
)

// IAPWS Industrial Formulation 1997 for water and steam, regions 1, 2 and 4.

// specific gas constant of water, J/kg K
const rWater = 461.526

// Region 1 (compressed liquid) reducing values and coefficients.
const (
	r1PStar = 16.53e6 // Pa
	r1TStar = 1386.0  // K
)

var r1I = [34]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3,
	3, 3, 4, 4, 4, 5, 8, 8, 21, 23, 29, 30, 31, 32,
}

var r1J = [34]int{
	-2, -1, 0, 1, 2, 3, 4, 5, -9, -7, -1, 0, 1, 3, -3, 0, 1, 3, 17, -4,
	0, 6, -5, -2, 10, -8, -11, -6, -29, -31, -38, -39, -40, -41,
}

var r1N = [34]float64{
	0.14632971213167, -0.84548187169114, -0.37563603672040e1, 0.33855169168385e1,
	-0.95791963387872, 0.15772038513228, -0.16616417199501e-1, 0.81214629983568e-3,
	0.28319080123804e-3, -0.60706301565874e-3, -0.18990068218419e-1, -0.32529748770505e-1,
	-0.21841717175414e-1, -0.52838357969930e-4, -0.47184321073267e-3, -0.30001780793026e-3,
	0.47661393906987e-4, -0.44141845330846e-5, -0.72694996297594e-15, -0.31679644845054e-4,
	-0.28270797985312e-5, -0.85205128120103e-9, -0.22425281908000e-5, -0.65171222895601e-6,
	-0.14341729937924e-12, -0.40516996860117e-6, -0.12734301741641e-8, -0.17424871230634e-9,
	-0.68762131295531e-18, 0.14478307828521e-19, 0.26335781662795e-22, -0.11947622640071e-22,
	0.18228094581404e-23, -0.93537087292458e-25,
}

// Region 2 (vapour) reducing values and coefficients.
const (
	r2PStar = 1.0e6 // Pa
	r2TStar = 540.0 // K
)

var r2J0 = [9]int{0, 1, -5, -4, -3, -2, -1, 2, 3}

var r2N0 = [9]float64{
	-0.96927686500217e1, 0.10086655968018e2, -0.56087911283020e-2,
	0.71452738081455e-1, -0.40710498223928, 0.14240819171444e1,
	-0.43839511319450e1, -0.28408632460772, 0.21268463753307e-1,
}

var r2I = [43]int{
	1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4, 5, 6,
	6, 6, 7, 7, 7, 8, 8, 9, 10, 10, 10, 16, 16, 18, 20, 20, 20, 21, 22, 23,
	24, 24, 24,
}

var r2J = [43]int{
	0, 1, 2, 3, 6, 1, 2, 4, 7, 36, 0, 1, 3, 6, 35, 1, 2, 3, 7, 3,
	16, 35, 0, 11, 25, 8, 36, 13, 4, 10, 14, 29, 50, 57, 20, 35, 48, 21, 53, 39,
	26, 40, 58,
}

var r2N = [43]float64{
	-0.17731742473213e-2, -0.17834862292358e-1, -0.45996013696365e-1, -0.57581259083432e-1,
	-0.50325278727930e-1, -0.33032641670203e-4, -0.18948987516315e-3, -0.39392777243355e-2,
	-0.43797295650573e-1, -0.26674547914087e-4, 0.20481737692309e-7, 0.43870667284435e-6,
	-0.32277677238570e-4, -0.15033924542148e-2, -0.40668253562649e-1, -0.78847309559367e-9,
	0.12790717852285e-7, 0.48225372718507e-6, 0.22922076337661e-5, -0.16714766451061e-10,
	-0.21171472321355e-2, -0.23895741934104e2, -0.59059564324270e-17, -0.12621808899101e-5,
	-0.38946842435739e-1, 0.11256211360459e-10, -0.82311340897998e1, 0.19809712802088e-7,
	0.10406965210174e-18, -0.10234747095929e-12, -0.10018179379511e-8, -0.80882908646985e-10,
	0.10693031879409, -0.33662250574171, 0.89185845355421e-24, 0.30629316876232e-12,
	-0.42002467698208e-5, -0.59056029685639e-25, 0.37826947613457e-5, -0.12768608934681e-14,
	0.73087610595061e-28, 0.55414715350778e-16, -0.94369707241210e-6,
}

// Region 4 (saturation line) coefficients.
var r4N = [10]float64{
	0.11670521452767e4, -0.72421316703206e6, -0.17073846940092e2,
	0.12020824702470e5, -0.32325550322333e7, 0.14915108613530e2,
	-0.48232657361591e4, 0.40511340542057e6, -0.23855557567849,
	0.65017534844798e3,
}

// Single-phase properties at (p, T).
type phaseProps struct {
	v  float64 // specific volume, m3/kg
	h  float64 // J/kg
	s  float64 // J/kg K
	cp float64 // J/kg K
}

// powi raises x to an integer power.
func powi(x float64, n int) float64 {
	if n < 0 {
		return 1.0 / powi(x, -n)
	}
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}

/*
Evaluates the Region 1 Gibbs equation for volume, enthalpy, entropy and isobaric heat capacity.

	Args:
		p: pressure, Pa
		t: temperature, K

	Returns:
		phaseProps

	Notes:
		IAPWS-IF97 eq.7 and Table 3.
*/
func region1(p, t float64) phaseProps {
	pi := p / r1PStar
	tau := r1TStar / t
	a := 7.1 - pi
	b := tau - 1.222

	var g, gp, gt, gtt float64
	for k := range r1N {
		i, j, n := r1I[k], r1J[k], r1N[k]
		ai := powi(a, i)
		bj := powi(b, j)
		g += n * ai * bj
		if i != 0 {
			gp -= n * float64(i) * powi(a, i-1) * bj
		}
		if j != 0 {
			bj1 := powi(b, j-1)
			gt += n * ai * float64(j) * bj1
			if j != 1 {
				gtt += n * ai * float64(j*(j-1)) * powi(b, j-2)
			}
		}
	}

	return phaseProps{
		v:  rWater * t / p * pi * gp,
		h:  rWater * t * tau * gt,
		s:  rWater * (tau*gt - g),
		cp: -rWater * tau * tau * gtt,
	}
}

/*
Evaluates the Region 2 Gibbs equation (ideal-gas part plus residual part).

	Args:
		p: pressure, Pa
		t: temperature, K

	Returns:
		phaseProps

	Notes:
		IAPWS-IF97 eq.15, Tables 10 and 11.
*/
func region2(p, t float64) phaseProps {
	pi := p / r2PStar
	tau := r2TStar / t

	g0 := math.Log(pi)
	var g0t, g0tt float64
	for k := range r2N0 {
		j, n := r2J0[k], r2N0[k]
		g0 += n * powi(tau, j)
		if j != 0 {
			g0t += n * float64(j) * powi(tau, j-1)
			if j != 1 {
				g0tt += n * float64(j*(j-1)) * powi(tau, j-2)
			}
		}
	}

	b := tau - 0.5
	var gr, grp, grt, grtt float64
	for k := range r2N {
		i, j, n := r2I[k], r2J[k], r2N[k]
		pii := powi(pi, i)
		bj := powi(b, j)
		gr += n * pii * bj
		grp += n * float64(i) * powi(pi, i-1) * bj
		if j != 0 {
			grt += n * pii * float64(j) * powi(b, j-1)
			if j != 1 {
				grtt += n * pii * float64(j*(j-1)) * powi(b, j-2)
			}
		}
	}

	gt := g0t + grt
	return phaseProps{
		v:  rWater * t / p * pi * (1.0/pi + grp),
		h:  rWater * t * tau * gt,
		s:  rWater * (tau*gt - (g0 + gr)),
		cp: -rWater * tau * tau * (g0tt + grtt),
	}
}

/*
Computes the saturation pressure.

	Args:
		t: temperature, K

	Returns:
		saturation pressure, Pa

	Notes:
		IAPWS-IF97 eq.30, valid 273.15 K <= t <= 647.096 K.
*/
func saturationPressure(t float64) float64 {
	n := r4N
	theta := t + n[8]/(t-n[9])
	a := theta*theta + n[0]*theta + n[1]
	b := n[2]*theta*theta + n[3]*theta + n[4]
	c := n[5]*theta*theta + n[6]*theta + n[7]
	x := 2.0 * c / (-b + math.Sqrt(b*b-4.0*a*c))
	return x * x * x * x * 1.0e6
}

/*
Computes the saturation temperature.

	Args:
		p: pressure, Pa

	Returns:
		saturation temperature, K

	Notes:
		IAPWS-IF97 eq.31, valid 611.213 Pa <= p <= 22.064 MPa.
*/
func saturationTemperature(p float64) float64 {
	n := r4N
	beta := math.Pow(p/1.0e6, 0.25)
	e := beta*beta + n[2]*beta + n[5]
	f := n[0]*beta*beta + n[3]*beta + n[6]
	g := n[1]*beta*beta + n[4]*beta + n[7]
	d := 2.0 * g / (-f - math.Sqrt(f*f-4.0*e*g))
	return (n[9] + d - math.Sqrt((n[9]+d)*(n[9]+d)-4.0*(n[8]+n[9]*d))) / 2.0
}
