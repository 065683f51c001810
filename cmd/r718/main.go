package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"r718"
	"r718/report"
)

type runOpts struct {
	config      string
	stage       string
	statesPath  string
	historyPath string
	plotPath    string
}

type batchOpts struct {
	config  string
	points  string
	workers int
	out     string
}

type stateOpts struct {
	p, t, h, s, q float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with fresh flag values.
func newRootCmd() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
		ro       runOpts
		bo       batchOpts
		so       stateOpts
	)

	root := &cobra.Command{
		Use:   "r718",
		Short: "Steady-state simulator of a solar-driven R718 ejector refrigeration cycle",
		Long: `r718 closes the mass and energy balances of a water ejector chiller driven by a
solar collector and reports the state points, the ejector regime and the COP.

Examples:
  r718 run --config cfg.yaml --stage 3 --states out.csv --history hist.csv --plot ph.png
  r718 batch --config cfg.yaml --points points.csv --workers 4 --out batch.csv
  r718 state --p 1227 --q 0.5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel, logJSON)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Solve one operating point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), ro)
		},
	}
	runCmd.Flags().StringVarP(&ro.config, "config", "c", "", "YAML configuration (defaults to the built-in design point)")
	runCmd.Flags().StringVar(&ro.stage, "stage", "", "final coupler stage: 1, 2, 3 or its name")
	runCmd.Flags().StringVar(&ro.statesPath, "states", "", "write the state points to a CSV file")
	runCmd.Flags().StringVar(&ro.historyPath, "history", "", "write the iteration history to a CSV file")
	runCmd.Flags().StringVar(&ro.plotPath, "plot", "", "save the P-h diagram (png, svg or pdf)")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Solve the operating points of a CSV file in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batch(cmd.Context(), cmd.OutOrStdout(), bo)
		},
	}
	batchCmd.Flags().StringVarP(&bo.config, "config", "c", "", "YAML base configuration")
	batchCmd.Flags().StringVar(&bo.points, "points", "", "CSV file of operating points")
	batchCmd.Flags().IntVarP(&bo.workers, "workers", "w", 0, "concurrent runs (0 = GOMAXPROCS)")
	batchCmd.Flags().StringVarP(&bo.out, "out", "o", "", "write the batch table to a CSV file instead of stdout")
	_ = batchCmd.MarkFlagRequired("points")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Resolve a water state from two properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return state(cmd, so)
		},
	}
	stateCmd.Flags().Float64Var(&so.p, "p", 0, "pressure, Pa")
	stateCmd.Flags().Float64Var(&so.t, "t", 0, "temperature, K")
	stateCmd.Flags().Float64Var(&so.h, "h", 0, "specific enthalpy, J/kg")
	stateCmd.Flags().Float64Var(&so.s, "s", 0, "specific entropy, J/kg K")
	stateCmd.Flags().Float64Var(&so.q, "q", 0, "quality, -")

	root.AddCommand(runCmd, batchCmd, stateCmd)
	return root
}

func setupLogger(level string, asJSON bool) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lv)
	logrus.SetOutput(os.Stderr)
	if asJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func loadConfig(path string) (r718.Config, error) {
	if path == "" {
		return r718.DefaultConfig(), nil
	}
	return r718.LoadConfig(path)
}

func run(ctx context.Context, out io.Writer, o runOpts) error {
	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}
	if o.stage != "" {
		st, err := r718.ParseStage(o.stage)
		if err != nil {
			return err
		}
		cfg.Solver.FinalStage = st
	}

	start := time.Now()
	res, err := r718.NewCoupler(cfg).Run(ctx)
	if err != nil {
		return err
	}
	logrus.WithField("elapsed", time.Since(start)).Info("run finished")

	if err := report.Summary(out, res); err != nil {
		return err
	}
	if o.statesPath != "" {
		if err := writeFile(o.statesPath, func(w io.Writer) error { return report.WriteStates(w, res) }); err != nil {
			return err
		}
	}
	if o.historyPath != "" {
		if err := writeFile(o.historyPath, func(w io.Writer) error { return report.WriteHistory(w, res) }); err != nil {
			return err
		}
	}
	if o.plotPath != "" {
		logrus.WithField("path", o.plotPath).Info("saving P-h diagram")
		if err := report.SavePHDiagram(o.plotPath, r718.IAPWS97{}, res); err != nil {
			return err
		}
	}
	return nil
}

func batch(ctx context.Context, out io.Writer, o batchOpts) error {
	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}
	points, err := r718.LoadOperatingPoints(o.points, cfg.Generator.Geometry)
	if err != nil {
		return err
	}

	start := time.Now()
	results := r718.RunBatch(ctx, cfg, points, o.workers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logrus.WithField("point", r.Point.Name).WithError(r.Err).Warn("operating point failed")
		}
	}
	logrus.WithFields(logrus.Fields{
		"points":  len(points),
		"failed":  failed,
		"elapsed": time.Since(start),
	}).Info("batch finished")

	if o.out == "" {
		return report.WriteBatch(out, results)
	}
	return writeFile(o.out, func(w io.Writer) error { return report.WriteBatch(w, results) })
}

func state(cmd *cobra.Command, o stateOpts) error {
	given := []struct {
		flag string
		prop r718.Property
		v    float64
	}{
		{"p", r718.PropP, o.p},
		{"t", r718.PropT, o.t},
		{"h", r718.PropH, o.h},
		{"s", r718.PropS, o.s},
		{"q", r718.PropQ, o.q},
	}
	var props []r718.Property
	var vals []float64
	for _, g := range given {
		if cmd.Flags().Changed(g.flag) {
			props = append(props, g.prop)
			vals = append(vals, g.v)
		}
	}
	if len(props) != 2 {
		return fmt.Errorf("%w: give exactly two of --p --t --h --s --q, got %d", r718.ErrInvalidParameter, len(props))
	}
	st, err := r718.IAPWS97{}.Resolve(props[0], vals[0], props[1], vals[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), st)
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.WithField("path", path).Info("saved")
	return f.Close()
}
