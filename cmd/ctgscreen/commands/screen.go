// SPDX-License-Identifier: MIT

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctgflow/caseio"
	"github.com/katalvlaran/ctgflow/config"
	"github.com/katalvlaran/ctgflow/engine"
	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/violation"
)

type screenFlags struct {
	casePath    string
	configPath  string
	output      string
	metricsPath string
	workers     int
	cost        float64
	noScreening bool
	logLevel    string
	logFormat   string
}

func newScreenCmd() *cobra.Command {
	f := &screenFlags{}
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen every interval of a case and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScreen(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.casePath, "case", "c", "", "path to the YAML case (required)")
	fl.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fl.StringVarP(&f.output, "output", "o", "-", "report destination, - for stdout")
	fl.StringVar(&f.metricsPath, "metrics-out", "", "write Prometheus metrics in text format to this file")
	fl.IntVarP(&f.workers, "workers", "w", 0, "interval workers (0 = config or GOMAXPROCS)")
	fl.Float64Var(&f.cost, "cost", -1, "violation cost per unit per hour (overrides config)")
	fl.BoolVar(&f.noScreening, "no-screening", false, "disable the bound pre-filter")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (overrides config)")
	fl.StringVar(&f.logFormat, "log-format", "", "log format, text or json (overrides config)")
	_ = cmd.MarkFlagRequired("case")
	return cmd
}

// resolveConfig layers flags over the config file over defaults.
func resolveConfig(cmd *cobra.Command, f *screenFlags) (config.Config, error) {
	cfg := config.Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if cmd.Flags().Changed("cost") {
		cfg.ViolationCost = f.cost
	}
	if f.noScreening {
		cfg.BoundScreening = false
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
	return cfg, cfg.Validate()
}

func runScreen(cmd *cobra.Command, f *screenFlags) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	c, err := caseio.Load(f.casePath)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	eng, err := engine.New(c.Network,
		engine.FromConfig(cfg),
		engine.WithLogger(logger),
		engine.WithMetrics(reg),
	)
	if err != nil {
		return err
	}
	rep, err := eng.Run(cmd.Context(), c.States)
	if err != nil {
		return err
	}
	if f.metricsPath != "" {
		if err := prometheus.WriteToTextfile(f.metricsPath, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if f.output != "-" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summarize(c.Network, rep))
}

// worstJSON is a worst record with indices resolved to UIDs.
type worstJSON struct {
	Category    violation.Category `json:"category"`
	Value       float64            `json:"value"`
	Interval    int                `json:"interval"`
	Contingency string             `json:"contingency,omitempty"`
	Branch      string             `json:"branch,omitempty"`
	FromBus     string             `json:"from_bus"`
	ToBus       string             `json:"to_bus"`
}

type reportJSON struct {
	RunID                   string           `json:"run_id"`
	Feasible                bool             `json:"feasible"`
	TotalPenalty            float64          `json:"total_penalty"`
	Worst                   []worstJSON      `json:"worst"`
	Contingencies           []string         `json:"contingencies"`
	Penalty                 [][]float64      `json:"penalty"`
	BaseDisconnected        []bool           `json:"base_disconnected"`
	ContingencyDisconnected [][]bool         `json:"contingency_disconnected"`
	Outcomes                []engine.Outcome `json:"outcomes"`
}

func summarize(net *network.Network, rep *engine.Report) reportJSON {
	out := reportJSON{
		RunID:                   rep.RunID.String(),
		Feasible:                rep.Feasible(),
		TotalPenalty:            rep.TotalPenalty(),
		Worst:                   []worstJSON{},
		Penalty:                 rep.Penalty,
		BaseDisconnected:        rep.BaseDisconnected,
		ContingencyDisconnected: rep.ContingencyDisconnected,
		Outcomes:                rep.Outcomes,
	}
	for _, c := range net.Contingencies() {
		out.Contingencies = append(out.Contingencies, c.UID)
	}
	buses := net.Buses()
	for _, r := range rep.Records() {
		w := worstJSON{
			Category: r.Category,
			Value:    r.Value,
			Interval: r.Interval,
			FromBus:  buses[r.From].UID,
			ToBus:    buses[r.To].UID,
		}
		if r.Contingency >= 0 {
			w.Contingency = net.Contingencies()[r.Contingency].UID
		}
		if r.Branch >= 0 {
			w.Branch = net.Branches()[r.Branch].UID
		}
		out.Worst = append(out.Worst, w)
	}
	return out
}
