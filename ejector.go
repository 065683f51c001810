package r718

import (
	"errors"
	"fmt"
	"math"
)

// number of mixing pressures tried between choking and the suction pressure
const subcriticalGridPoints = 24

// EjectorParams configures the ejector. Mixing has no default.
type EjectorParams struct {
	NozzleEfficiency   float64    `yaml:"nozzle_efficiency"`   // eta_n, -
	SuctionEfficiency  float64    `yaml:"suction_efficiency"`  // eta_s, -
	MixingEfficiency   float64    `yaml:"mixing_efficiency"`   // phi_m, -
	DiffuserEfficiency float64    `yaml:"diffuser_efficiency"` // eta_d, -
	AreaRatio          float64    `yaml:"area_ratio"`          // A_mixing / A_throat, -
	Mixing             MixingMode `yaml:"mixing"`
	Gamma              float64    `yaml:"gamma"`        // -
	GasConstant        float64    `yaml:"gas_constant"` // J/kg K
}

func (p EjectorParams) Validate() error {
	for _, e := range []struct {
		name string
		v    float64
	}{
		{"ejector.nozzle_efficiency", p.NozzleEfficiency},
		{"ejector.suction_efficiency", p.SuctionEfficiency},
		{"ejector.mixing_efficiency", p.MixingEfficiency},
		{"ejector.diffuser_efficiency", p.DiffuserEfficiency},
	} {
		if e.v <= 0 || e.v > 1 {
			return invalidParam(e.name, e.v, "in (0,1]")
		}
	}
	switch {
	case p.AreaRatio <= 1:
		return invalidParam("ejector.area_ratio", p.AreaRatio, "> 1")
	case p.Gamma <= 1:
		return invalidParam("ejector.gamma", p.Gamma, "> 1")
	case p.GasConstant <= 0:
		return invalidParam("ejector.gas_constant", p.GasConstant, "> 0")
	}
	if p.Mixing != ConstantPressure && p.Mixing != ConstantArea {
		return fmt.Errorf("%w: ejector.mixing = %q, want %q or %q",
			ErrInvalidParameter, p.Mixing, ConstantPressure, ConstantArea)
	}
	return nil
}

// EjectorResult is the outcome of one ejector solve.
type EjectorResult struct {
	MassPrimary          float64     // kg/s
	MassSecondary        float64     // kg/s
	Entrainment          float64     // mu, -
	Outlet               ThermoState // diffuser outlet, point 7
	Mixed                ThermoState // mixing-section exit, point 6
	Regime               Regime
	CriticalBackPressure float64 // Pa
	MaxBackPressure      float64 // Pa
	MixingPressure       float64 // Pa
	ThroatArea           float64 // m2
	MixingArea           float64 // m2
	Diagnostics          Diagnostics
}

// Ejector entrains the evaporator vapour with the generator vapour and
// recompresses the mixture to the condenser pressure.
type Ejector struct {
	Provider PropertyProvider
	Params   EjectorParams
}

func (Ejector) Kind() Kind { return KindEjector }

// ejectorPass is one evaluation of mixing, shock and diffuser at a mixing pressure.
type ejectorPass struct {
	pMix    float64
	mu      float64
	primary jet
	suction jet
	mixed   jet
	shocked jet
	shock   bool
	pOut    float64
	h0      float64
}

// nozzle geometry fixed by the primary flow
type ejectorGeometry struct {
	throat     jet
	throatArea float64
	mixingArea float64
}

func (e Ejector) geometry(primary ThermoState, mPri float64) (ejectorGeometry, error) {
	r := criticalRatio(e.Params.Gamma)
	t, err := expand(e.Provider, primary, primary.P*r, e.Params.NozzleEfficiency)
	if err != nil {
		return ejectorGeometry{}, err
	}
	at := mPri / t.g
	return ejectorGeometry{throat: t, throatArea: at, mixingArea: e.Params.AreaRatio * at}, nil
}

/*
Evaluates the ejector downstream of the nozzles for one mixing pressure.

	Args:
		primary, secondary: stagnation states at the nozzle inlets
		geo: nozzle geometry
		mPri: primary mass flow, kg/s
		pMix: mixing pressure, Pa
		mu: entrainment ratio, -

	Returns:
		ejectorPass, error

	Notes:
		A secondary stream with mu = 0 or pMix >= its own pressure carries no flow.
*/
func (e Ejector) pass(primary, secondary ThermoState, geo ejectorGeometry, mPri, pMix, mu float64) (ejectorPass, error) {
	prm := e.Params
	pj, err := expand(e.Provider, primary, pMix, prm.NozzleEfficiency)
	if err != nil {
		return ejectorPass{}, err
	}
	sj := stagnant(secondary)
	if mu > 0 && pMix < secondary.P {
		sj, err = expand(e.Provider, secondary, pMix, prm.SuctionEfficiency)
		if err != nil {
			return ejectorPass{}, err
		}
	}

	h0 := (primary.H + mu*secondary.H) / (1.0 + mu)
	var mixed jet
	switch prm.Mixing {
	case ConstantArea:
		mixed, err = mixConstantArea(e.Provider, pj, sj, mPri, mu*mPri, geo.mixingArea, prm.MixingEfficiency, h0)
	default:
		mixed, err = mixConstantPressure(e.Provider, pj, sj, mu, prm.MixingEfficiency, h0)
	}
	if err != nil {
		return ejectorPass{}, err
	}

	shocked, shock, err := normalShock(e.Provider, mixed, h0)
	if err != nil {
		return ejectorPass{}, err
	}
	pOut, err := diffuse(e.Provider, shocked, prm.DiffuserEfficiency)
	if err != nil {
		return ejectorPass{}, err
	}
	return ejectorPass{
		pMix:    pMix,
		mu:      mu,
		mixed:   mixed,
		shocked: shocked,
		shock:   shock,
		pOut:    pOut,
		primary: pj,
		suction: sj,
		h0:      h0,
	}, nil
}

func (e Ejector) checkInlets(primary, secondary ThermoState, backPressure, mPri float64) error {
	if err := e.Params.Validate(); err != nil {
		return err
	}
	if !(mPri > 0) {
		return invalidParam("ejector primary mass flow", mPri, "> 0")
	}
	if !(backPressure > 0) {
		return invalidParam("ejector back pressure", backPressure, "> 0")
	}
	if secondary.P >= primary.P {
		return fmt.Errorf("%w: suction pressure %.1f Pa is not below the motive pressure %.1f Pa",
			ErrSupersonicInfeasible, secondary.P, primary.P)
	}
	return nil
}

func (e Ejector) wrap(input, law string, err error) error {
	var ee *EjectorError
	if errors.As(err, &ee) {
		return err
	}
	return &ComponentError{Component: KindEjector, Input: input, Law: law, Wrapped: err}
}

func ejectorInput(primary, secondary ThermoState, backPressure, mPri float64) string {
	return fmt.Sprintf("P_p=%.1f Pa, P_s=%.1f Pa, P_b=%.1f Pa, m_p=%.5f kg/s", primary.P, secondary.P, backPressure, mPri)
}

/*
Solves the ejector in design mode: the entrainment ratio follows from the
geometry and the back pressure.

	Args:
		primary: generator outlet, point 5
		secondary: evaporator outlet, point 3
		backPressure: condenser pressure, Pa
		mPri: primary mass flow, kg/s

	Returns:
		EjectorResult, error

	Notes:
		Critical operation (Pb <= P_crit_back) keeps mu on the choked plateau.
		Between P_crit_back and P_max_back the mixing pressure rises until the
		diffuser recovers Pb. Above P_max_back the ejector malfunctions.
*/
func (e Ejector) Solve(primary, secondary ThermoState, backPressure, mPri float64) (EjectorResult, error) {
	d := newDiagnostics(KindEjector)
	res := EjectorResult{MassPrimary: mPri, Diagnostics: d}
	input := ejectorInput(primary, secondary, backPressure, mPri)
	wrap := func(law string, err error) error { return e.wrap(input, law, err) }
	if err := e.checkInlets(primary, secondary, backPressure, mPri); err != nil {
		return res, wrap("inlet", err)
	}
	prm := e.Params

	geo, err := e.geometry(primary, mPri)
	if err != nil {
		return res, wrap("nozzle throat", err)
	}
	res.ThroatArea = geo.throatArea
	res.MixingArea = geo.mixingArea

	// choked secondary at the critical mixing pressure
	pCrit := secondary.P * criticalRatio(prm.Gamma)
	pjCrit, err := expand(e.Provider, primary, pCrit, prm.NozzleEfficiency)
	if err != nil {
		return res, wrap("primary nozzle", err)
	}
	sjCrit, err := expand(e.Provider, secondary, pCrit, prm.SuctionEfficiency)
	if err != nil {
		return res, wrap("suction nozzle", err)
	}
	plume := mPri / pjCrit.g
	if plume >= geo.mixingArea {
		return res, wrap("mixing", fmt.Errorf("%w: primary plume %.4g m2 fills the mixing area %.4g m2",
			ErrNonPhysical, plume, geo.mixingArea))
	}
	muCrit := sjCrit.g * (geo.mixingArea - plume) / mPri
	if !(muCrit > 0) {
		return res, wrap("mixing", fmt.Errorf("%w: entrainment ratio %g", ErrNonPhysical, muCrit))
	}

	critical, err := e.pass(primary, secondary, geo, mPri, pCrit, muCrit)
	if err != nil {
		return res, wrap("critical pass", err)
	}
	limit, err := e.pass(primary, secondary, geo, mPri, secondary.P, 0)
	if err != nil {
		return res, wrap("limit pass", err)
	}
	res.CriticalBackPressure = critical.pOut
	res.MaxBackPressure = math.Max(limit.pOut, critical.pOut)
	d.Values[ValuePCritBack] = res.CriticalBackPressure
	d.Values[ValuePMaxBack] = res.MaxBackPressure

	// entrainment below choking scales with the secondary mass flux
	entrainment := func(pMix float64) (float64, error) {
		if pMix >= secondary.P {
			return 0, nil
		}
		sj, err := expand(e.Provider, secondary, pMix, prm.SuctionEfficiency)
		if err != nil {
			return 0, err
		}
		return muCrit * math.Min(1.0, sj.g/sjCrit.g), nil
	}
	at := func(pMix float64) (ejectorPass, error) {
		mu, err := entrainment(pMix)
		if err != nil {
			return ejectorPass{}, err
		}
		return e.pass(primary, secondary, geo, mPri, pMix, mu)
	}

	var op ejectorPass
	switch {
	case backPressure <= res.CriticalBackPressure:
		res.Regime = RegimeCritical
		op = critical

	case backPressure >= res.MaxBackPressure:
		res.Regime = RegimeMalfunction
		res.Diagnostics = d
		return res, &EjectorError{
			Stage:                "diffuser",
			BackPressure:         backPressure,
			CriticalBackPressure: res.CriticalBackPressure,
			MaxBackPressure:      res.MaxBackPressure,
			Wrapped:              ErrEjectorMalfunction,
		}

	default:
		res.Regime = RegimeSubcritical
		op, err = e.subcritical(at, critical, limit, pCrit, secondary.P, backPressure)
		if err != nil {
			res.Diagnostics = d
			return res, wrap("subcritical search", err)
		}
	}

	if err := e.finish(&res, &d, op, backPressure, mPri); err != nil {
		return res, wrap("outlet", err)
	}
	return res, nil
}

/*
Finds the lowest mixing pressure whose diffuser exit pressure reaches the back pressure.

	Args:
		at: evaluates the ejector at a mixing pressure
		lo, hi: passes at the critical mixing pressure and at the suction pressure
		pLo, pHi: critical mixing pressure and suction pressure, Pa
		backPressure: Pa

	Returns:
		ejectorPass, error
*/
func (e Ejector) subcritical(at func(float64) (ejectorPass, error), lo, hi ejectorPass, pLo, pHi, backPressure float64) (ejectorPass, error) {
	prev := lo
	for i := 1; i <= subcriticalGridPoints; i++ {
		var cur ejectorPass
		if i == subcriticalGridPoints {
			cur = hi
		} else {
			var err error
			cur, err = at(pLo + (pHi-pLo)*float64(i)/float64(subcriticalGridPoints))
			if err != nil {
				return ejectorPass{}, err
			}
		}
		if cur.pOut >= backPressure {
			var found ejectorPass
			pm, err := brent(func(p float64) (float64, error) {
				ps, err := at(p)
				if err != nil {
					return 0, err
				}
				found = ps
				return ps.pOut - backPressure, nil
			}, prev.pMix, cur.pMix, 1.0e-7*pHi, 200)
			if err != nil {
				return ejectorPass{}, nonPhysicalRoot(err, "mixing pressure")
			}
			if found.pMix != pm {
				if found, err = at(pm); err != nil {
					return ejectorPass{}, err
				}
			}
			return found, nil
		}
		prev = cur
	}
	return hi, nil
}

// finish fills the result from the operating pass and resolves the outlet at the back pressure.
func (e Ejector) finish(res *EjectorResult, d *Diagnostics, op ejectorPass, backPressure, mPri float64) error {
	prm := e.Params
	out, err := e.Provider.Resolve(PropP, backPressure, PropH, op.h0)
	if err != nil {
		return err
	}
	res.Entrainment = op.mu
	res.MassSecondary = op.mu * mPri
	res.MixingPressure = op.pMix
	res.Mixed = op.mixed.state
	res.Outlet = out

	d.Values[ValuePMix] = op.pMix
	d.Values[ValuePRecovery] = op.pOut
	d.Values[ValueMassFlow] = mPri + res.MassSecondary
	if op.mixed.c > 0 {
		d.Values[ValueMachMix] = mach(op.mixed, prm.Gamma, prm.GasConstant)
	}
	if op.shock {
		d.raise(FlagShock)
		d.Values[ValuePShock] = op.shocked.state.P
		d.Values[ValueMachShock] = mach(op.shocked, prm.Gamma, prm.GasConstant)
		d.Values[ValueEntropyShock] = op.shocked.state.S - op.mixed.state.S
	}
	res.Diagnostics = *d
	return nil
}

/*
Solves the ejector in forward mode with an assumed entrainment ratio.

	Args:
		primary: generator outlet, point 5
		secondary: evaporator outlet, point 3
		backPressure: condenser pressure, Pa
		mPri: primary mass flow, kg/s
		mu: assumed entrainment ratio, -

	Returns:
		EjectorResult, error

	Notes:
		The outlet is (Pb, h0) with h0 = (h_p + mu h_s) / (1 + mu). The pressure
		the ejector could recover with this mu at the choked mixing pressure is
		reported, and FlagInsufficientRecovery is raised when it is below Pb or
		when that pass fails.
*/
func (e Ejector) Forward(primary, secondary ThermoState, backPressure, mPri, mu float64) (EjectorResult, error) {
	d := newDiagnostics(KindEjector)
	res := EjectorResult{MassPrimary: mPri, Diagnostics: d}
	input := ejectorInput(primary, secondary, backPressure, mPri)
	wrap := func(law string, err error) error { return e.wrap(input, law, err) }
	if err := e.checkInlets(primary, secondary, backPressure, mPri); err != nil {
		return res, wrap("inlet", err)
	}
	if mu < 0 {
		return res, wrap("inlet", invalidParam("ejector entrainment ratio", mu, ">= 0"))
	}

	geo, err := e.geometry(primary, mPri)
	if err != nil {
		return res, wrap("nozzle throat", err)
	}
	res.ThroatArea = geo.throatArea
	res.MixingArea = geo.mixingArea

	pCrit := secondary.P * criticalRatio(e.Params.Gamma)
	op, err := e.pass(primary, secondary, geo, mPri, pCrit, mu)
	switch {
	case err == nil:
		res.CriticalBackPressure = op.pOut
		d.Values[ValuePCritBack] = op.pOut
		if op.pOut < backPressure {
			d.raise(FlagInsufficientRecovery)
			res.Regime = RegimeSubcritical
		} else {
			res.Regime = RegimeCritical
		}
	default:
		// the recovery pass is a diagnostic here: nothing is recovered
		d.raise(FlagInsufficientRecovery)
		res.Regime = RegimeUnknown
		op = ejectorPass{pMix: pCrit, mu: mu, h0: (primary.H + mu*secondary.H) / (1.0 + mu)}
	}

	if err := e.finish(&res, &d, op, backPressure, mPri); err != nil {
		return res, wrap("outlet", err)
	}
	if op.mixed.c == 0 {
		res.Mixed = res.Outlet
	}
	return res, nil
}
