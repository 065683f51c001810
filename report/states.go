// Package report renders simulation results as CSV tables, text summaries and
// P-h diagrams. The simulation core never formats output itself.
package report

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"r718"
)

// names of the cycle points 1..7
var locations = [7]string{
	"condenser outlet",
	"valve outlet",
	"evaporator outlet",
	"pump outlet",
	"generator outlet",
	"mixing exit",
	"diffuser outlet",
}

// Location names cycle point n, 1..7.
func Location(n int) string {
	if n < 1 || n > len(locations) {
		return ""
	}
	return locations[n-1]
}

type stateRow struct {
	Point    int     `csv:"point"`
	Location string  `csv:"location"`
	P        float64 `csv:"p_pa"`
	T        float64 `csv:"t_k"`
	H        float64 `csv:"h_j_kg"`
	S        float64 `csv:"s_j_kgk"`
	X        string  `csv:"x"` // empty outside the saturation dome
	Rho      float64 `csv:"rho_kg_m3"`
}

// WriteStates writes the state table of points 1..7.
func WriteStates(w io.Writer, res r718.Result) error {
	rows := make([]stateRow, 0, len(res.States))
	for i, st := range res.States {
		x := ""
		if st.TwoPhase() {
			x = strconv.FormatFloat(st.X, 'f', 6, 64)
		}
		rows = append(rows, stateRow{
			Point:    i + 1,
			Location: locations[i],
			P:        st.P,
			T:        st.T,
			H:        st.H,
			S:        st.S,
			X:        x,
			Rho:      st.Rho,
		})
	}
	return gocsv.Marshal(rows, w)
}

// WriteHistory writes one row per coupler iteration.
func WriteHistory(w io.Writer, res r718.Result) error {
	rows := res.History
	if rows == nil {
		rows = []r718.HistoryRow{}
	}
	return gocsv.Marshal(rows, w)
}
