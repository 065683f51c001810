package r718

// HistoryRow is one coupler iteration.
type HistoryRow struct {
	Stage         Stage   `csv:"stage"`
	Iteration     int     `csv:"iteration"`
	PEvap         float64 `csv:"p_evap"`         // Pa
	PCond         float64 `csv:"p_cond"`         // Pa
	MassPrimary   float64 `csv:"m_pri"`          // kg/s
	MassSecondary float64 `csv:"m_sec"`          // kg/s
	Entrainment   float64 `csv:"mu"`             // -
	COP           float64 `csv:"cop"`            // -
	MaxResidual   float64 `csv:"max_residual"`   // -
	Dominant      string  `csv:"dominant"`       // name of the largest residual
	Regime        string  `csv:"ejector_regime"` // empty before the ejector design mode
}

// recorder collects the iteration history of one run.
type recorder struct {
	rows []HistoryRow
}

func newRecorder(capacity int) *recorder {
	return &recorder{rows: make([]HistoryRow, 0, capacity)}
}

// record appends the working set after an iteration.
func (r *recorder) record(stage Stage, iteration int, s *systemState) {
	maxRes, dominant := s.residuals.max()
	row := HistoryRow{
		Stage:         stage,
		Iteration:     iteration,
		PEvap:         s.pEvap,
		PCond:         s.pCond,
		MassPrimary:   s.mPri,
		MassSecondary: s.mSec,
		Entrainment:   s.mu,
		COP:           s.cop(),
		MaxResidual:   maxRes,
		Dominant:      dominant,
	}
	if stage == StageShock {
		row.Regime = s.ejector.Regime.String()
	}
	r.rows = append(r.rows, row)
}

// history returns a copy of the collected rows.
func (r *recorder) history() []HistoryRow {
	out := make([]HistoryRow, len(r.rows))
	copy(out, r.rows)
	return out
}
