package r718

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Names of the coupler residuals.
const (
	ResidualCooling         = "cooling"
	ResidualEntrainmentMass = "entrainment_mass"
	ResidualLoopClosure     = "loop_closure"
	ResidualEnergy          = "energy"
	ResidualEvaporatorHX    = "evaporator_hx"
	ResidualCondenserHX     = "condenser_hx"
	ResidualMalfunction     = "ejector_malfunction"
)

// residualVector keeps the named, dimensionless residuals of one iteration in order.
type residualVector struct {
	names  []string
	values []float64
}

func (r *residualVector) reset() {
	r.names = r.names[:0]
	r.values = r.values[:0]
}

func (r *residualVector) add(name string, v float64) {
	r.names = append(r.names, name)
	r.values = append(r.values, v)
}

// max returns the max-norm and the name of the dominant residual.
func (r residualVector) max() (float64, string) {
	if len(r.values) == 0 {
		return 0, ""
	}
	abs := make([]float64, len(r.values))
	for i, v := range r.values {
		abs[i] = math.Abs(v)
		if math.IsNaN(v) {
			return math.NaN(), r.names[i]
		}
	}
	return floats.Norm(r.values, math.Inf(1)), r.names[floats.MaxIdx(abs)]
}

func (r residualVector) toMap() map[string]float64 {
	m := make(map[string]float64, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

// systemState is the working set of one coupler run.
type systemState struct {
	pGen, pCond, pEvap float64 // Pa
	mPri, mSec         float64 // kg/s
	mu                 float64 // entrainment ratio used by the current iteration

	// points 1..7 of the cycle at index 0..6
	points [7]ThermoState
	// condenser outlet of the current iteration, point 1'
	closure ThermoState

	diags   map[Kind]Diagnostics
	ejector EjectorResult

	qEvap, qGen, qCond, wPump float64 // W

	residuals residualVector
}

func newSystemState() *systemState {
	return &systemState{diags: make(map[Kind]Diagnostics)}
}

// solve runs one component and keeps its diagnostics, also on failure.
func (s *systemState) solve(c Component, in ThermoState, bc Boundary) (ThermoState, error) {
	out, d, err := c.Solve(in, bc)
	s.diags[c.Kind()] = d
	return out, err
}

// point returns cycle point n, 1..7.
func (s *systemState) point(n int) ThermoState {
	return s.points[n-1]
}

func (s *systemState) setPoint(n int, st ThermoState) {
	s.points[n-1] = st
}

func (s *systemState) cop() float64 {
	if s.qGen <= 0 {
		return 0
	}
	return s.qEvap / s.qGen
}

func (s *systemState) copTotal() float64 {
	if s.qGen+s.wPump <= 0 {
		return 0
	}
	return s.qEvap / (s.qGen + s.wPump)
}

// balances computes the duties from the state chain and the mass flows.
func (s *systemState) balances() {
	h1 := s.point(1).H
	s.qEvap = s.mSec * (s.point(3).H - s.point(2).H)
	s.qGen = s.mPri * (s.point(5).H - s.point(4).H)
	s.wPump = s.mPri * (s.point(4).H - h1)
	s.qCond = (s.mPri + s.mSec) * (s.point(7).H - s.closure.H)
}

/*
Fills the residual vector of the current iteration.

	Args:
		target: cooling capacity, W, 0 when the primary flow is held
		hx: true when the heat-exchanger residuals take part
		evapHX: true when the evaporator has a heat exchanger

	Notes:
		cooling = (Q_evap - Q_target) / Q_target, only with a target
		entrainment_mass = (mu m_pri - m_sec) / m_sec
		loop_closure = (h1' - h1) / |h1|
		energy = (Q_gen + W_pump + Q_evap - Q_cond) / Q_gen
*/
func (s *systemState) computeResiduals(target float64, hx, evapHX bool) {
	s.residuals.reset()
	if target > 0 {
		s.residuals.add(ResidualCooling, (s.qEvap-target)/target)
	}
	s.residuals.add(ResidualEntrainmentMass, (s.mu*s.mPri-s.mSec)/s.mSec)
	h1 := s.point(1).H
	s.residuals.add(ResidualLoopClosure, (s.closure.H-h1)/math.Abs(h1))
	s.residuals.add(ResidualEnergy, (s.qGen+s.wPump+s.qEvap-s.qCond)/s.qGen)
	if hx {
		if evapHX {
			s.residuals.add(ResidualEvaporatorHX, s.diags[KindEvaporator].Values[ValueResidual])
		}
		s.residuals.add(ResidualCondenserHX, s.diags[KindCondenser].Values[ValueResidual])
	}
}

// validate checks every state of the chain.
func (s *systemState) validate() error {
	for _, st := range s.points {
		if err := st.Validate(); err != nil {
			return err
		}
	}
	return s.closure.Validate()
}

// advance updates the mass flows by fixed point and closes the loop at point 1.
// Without a target the primary flow is held and the secondary follows mu.
func (s *systemState) advance(target float64) {
	if target > 0 {
		s.mSec = target / (s.point(3).H - s.point(2).H)
		s.mPri = s.mSec / s.mu
	} else {
		s.mSec = s.mu * s.mPri
	}
	s.setPoint(1, s.closure)
}
