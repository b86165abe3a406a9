// Command fhir-etl runs the FHIR bundle ETL pipeline: bronze ingestion,
// silver flattening and validation, and gold aggregation, with optional
// persistence to an embedded DuckDB file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	fhiretl "github.com/gofhir/etl"
	"github.com/gofhir/etl/config"
	"github.com/gofhir/etl/engine"
	"github.com/gofhir/etl/reporting"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	dbPath    string
	asOf      string
	workers   int
	noPersist bool
	output    string
	verbose   bool
	quiet     bool
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:     "fhir-etl [input-dir]",
		Short:   "Transform FHIR Bundle JSON files through bronze, silver and gold layers",
		Args:    cobra.MaximumNArgs(1),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flags.dbPath, "db", "", "DuckDB database file (default from config)")
	cmd.Flags().StringVar(&flags.asOf, "as-of", "", "reference date for age computation, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "parallel bundle parsers (default NumCPU)")
	cmd.Flags().BoolVar(&flags.noPersist, "no-persist", false, "skip writing tables to the database")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "report format: text or json")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "errors only")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags cliFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.asOf != "" {
		cfg.AsOf = flags.asOf
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.noPersist {
		cfg.Persist = false
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel, flags)

	pipeline := engine.New(log, cfg.Options()...)
	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Output == "json" {
		return printJSON(out, result)
	}
	printText(out, result)
	return nil
}

func newLogger(level string, flags cliFlags) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if flags.verbose {
		lvl = zerolog.DebugLevel
	}
	if flags.quiet {
		lvl = zerolog.ErrorLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func printText(w io.Writer, result *engine.Result) {
	reporting.PrintBronzeSummary(w, result.BronzeTables())
	reporting.PrintSilverCounts(w, result.PatientSummary, result.ConditionSummary, result.ObservationSummary)

	reporting.PrintQuality(w, "Patient", result.PatientSummary)
	reporting.PrintValidation(w, "Patient", result.PatientReport)

	reporting.PrintQuality(w, "Condition", result.ConditionSummary)
	reporting.PrintValidation(w, "Condition", result.ConditionReport)

	reporting.PrintQuality(w, "Observation", result.ObservationSummary)
	reporting.PrintValidation(w, "Observation", result.ObservationReport)

	reporting.PrintGoldSummary(w, len(result.Gold))
}

func printJSON(w io.Writer, result *engine.Result) error {
	report := struct {
		RunID          string                    `json:"run_id"`
		BundleCount    int                       `json:"bundle_count"`
		ResourceCounts map[string]int            `json:"resource_counts"`
		Patients       *fhiretl.ValidationReport `json:"patients"`
		Conditions     *fhiretl.ValidationReport `json:"conditions"`
		Observations   *fhiretl.ValidationReport `json:"observations"`
		GoldRows       int                       `json:"gold_rows"`
		DurationMillis int64                     `json:"duration_ms"`
	}{
		RunID:          result.RunID.String(),
		BundleCount:    result.BundleCount,
		ResourceCounts: result.ResourceCounts,
		Patients:       result.PatientReport,
		Conditions:     result.ConditionReport,
		Observations:   result.ObservationReport,
		GoldRows:       len(result.Gold),
		DurationMillis: result.Duration.Milliseconds(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
