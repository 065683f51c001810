package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"r718"
)

func runFixedPressure(t *testing.T) r718.Result {
	t.Helper()
	cfg := r718.DefaultConfig()
	cfg.Solver.FinalStage = r718.StageFixedPressure
	res, err := r718.NewCoupler(cfg).Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "condenser outlet", Location(1))
	assert.Equal(t, "diffuser outlet", Location(7))
	assert.Empty(t, Location(0))
	assert.Empty(t, Location(8))
}

func TestWriteStates(t *testing.T) {
	res := runFixedPressure(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStates(&buf, res))
	assert.True(t, strings.HasPrefix(buf.String(), "point,location,p_pa,t_k,h_j_kg,s_j_kgk,x,rho_kg_m3\n"))

	var rows []stateRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 7)
	for i, row := range rows {
		st := res.State(i + 1)
		assert.Equal(t, i+1, row.Point)
		assert.Equal(t, Location(i+1), row.Location)
		assert.Equal(t, st.P, row.P)
		assert.Equal(t, st.H, row.H)
	}
	// valve outlet inside the dome, pump outlet subcooled
	assert.NotEmpty(t, rows[1].X)
	assert.Empty(t, rows[3].X)
}

func TestWriteHistory(t *testing.T) {
	res := runFixedPressure(t)

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, res))
	var rows []r718.HistoryRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, len(res.History))
	assert.Equal(t, r718.StageFixedPressure, rows[0].Stage)
	assert.Equal(t, res.History[len(rows)-1].Dominant, rows[len(rows)-1].Dominant)

	buf.Reset()
	require.NoError(t, WriteHistory(&buf, r718.Result{}))
	assert.Contains(t, buf.String(), "stage,iteration")
}

func TestWriteBatch(t *testing.T) {
	ok := r718.Result{
		Conditions:      r718.DefaultConfig().Conditions,
		Stage:           r718.StageShock,
		TotalIterations: 42,
		Entrainment:     0.31,
		COP:             0.29,
		Ejector:         r718.EjectorResult{Regime: r718.RegimeSubcritical},
	}
	results := []r718.BatchResult{
		{Point: r718.OperatingPoint{Name: "noon", PlaneIrradiance: 810}, Result: ok},
		{Point: r718.OperatingPoint{Name: "broken", TCond: 290}, Err: errors.New("conditions rejected")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, results))
	var rows []batchRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "noon", rows[0].Name)
	assert.Equal(t, 12.0, rows[0].CoolingKW)
	assert.Equal(t, 810.0, rows[0].PlaneIrradiance)
	assert.Equal(t, "shock", rows[0].Stage)
	assert.Equal(t, "subcritical", rows[0].Regime)
	assert.Equal(t, 42, rows[0].Iterations)
	assert.Empty(t, rows[0].Error)

	assert.Equal(t, "broken", rows[1].Name)
	assert.Equal(t, 290.0, rows[1].TCond)
	assert.Equal(t, "conditions rejected", rows[1].Error)
	assert.Empty(t, rows[1].Stage)
}

func TestSummary(t *testing.T) {
	res := runFixedPressure(t)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, res))
	out := buf.String()
	assert.Contains(t, out, res.RunID.String())
	assert.Contains(t, out, "fixed_pressure")
	assert.Contains(t, out, "COP / COP_total")
	assert.NotContains(t, out, "ejector regime")

	res.Stage = r718.StageShock
	res.Ejector.Regime = r718.RegimeCritical
	buf.Reset()
	require.NoError(t, Summary(&buf, res))
	assert.Contains(t, buf.String(), "ejector regime")
	assert.Contains(t, buf.String(), "critical")
}

func TestPHDiagram(t *testing.T) {
	res := runFixedPressure(t)

	p, err := PHDiagram(r718.IAPWS97{}, res)
	require.NoError(t, err)
	assert.Equal(t, "R718 ejector cycle", p.Title.Text)

	path := filepath.Join(t.TempDir(), "ph.png")
	require.NoError(t, SavePHDiagram(path, r718.IAPWS97{}, res))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
