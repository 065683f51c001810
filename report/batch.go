package report

import (
	"io"

	"github.com/gocarina/gocsv"

	"r718"
)

type batchRow struct {
	Name            string  `csv:"name"`
	TGen            float64 `csv:"t_gen"`
	TCond           float64 `csv:"t_cond"`
	TEvap           float64 `csv:"t_evap"`
	CoolingKW       float64 `csv:"cooling_kw"`
	PlaneIrradiance float64 `csv:"plane_irradiance"`
	Stage           string  `csv:"stage"`
	Iterations      int     `csv:"iterations"`
	PEvap           float64 `csv:"p_evap"`
	PCond           float64 `csv:"p_cond"`
	Entrainment     float64 `csv:"mu"`
	Regime          string  `csv:"ejector_regime"`
	QGen            float64 `csv:"q_gen"`
	COP             float64 `csv:"cop"`
	COPTotal        float64 `csv:"cop_total"`
	Error           string  `csv:"error"`
}

// WriteBatch writes one row per operating point. Failed points keep their
// inputs and carry the error text.
func WriteBatch(w io.Writer, results []r718.BatchResult) error {
	rows := make([]batchRow, 0, len(results))
	for _, br := range results {
		row := batchRow{
			Name:            br.Point.Name,
			PlaneIrradiance: br.Point.PlaneIrradiance,
		}
		if br.Err != nil {
			row.TGen = br.Point.TGen
			row.TCond = br.Point.TCond
			row.TEvap = br.Point.TEvap
			row.CoolingKW = br.Point.CoolingKW
			row.Error = br.Err.Error()
			rows = append(rows, row)
			continue
		}
		res := br.Result
		row.TGen = res.Conditions.TGen
		row.TCond = res.Conditions.TCond
		row.TEvap = res.Conditions.TEvap
		row.CoolingKW = res.Conditions.CoolingCapacity / 1000.0
		row.Stage = res.Stage.String()
		row.Iterations = res.TotalIterations
		row.PEvap = res.PEvap
		row.PCond = res.PCond
		row.Entrainment = res.Entrainment
		if res.Stage == r718.StageShock {
			row.Regime = res.Ejector.Regime.String()
		}
		row.QGen = res.QGen
		row.COP = res.COP
		row.COPTotal = res.COPTotal
		rows = append(rows, row)
	}
	return gocsv.Marshal(rows, w)
}
