// Package engine orchestrates the full bronze, silver, gold pipeline run.
package engine

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	fhiretl "github.com/gofhir/etl"
	"github.com/gofhir/etl/bronze"
	"github.com/gofhir/etl/gold"
	"github.com/gofhir/etl/reporting"
	"github.com/gofhir/etl/rules"
	"github.com/gofhir/etl/silver"
	"github.com/gofhir/etl/store"
	"github.com/gofhir/etl/worker"
)

// Pipeline runs the medallion ETL over a directory of bundle files.
type Pipeline struct {
	opts    *fhiretl.Options
	log     zerolog.Logger
	metrics *fhiretl.Metrics
}

// Result carries everything one run produced.
type Result struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration

	BundleCount    int
	ResourceCounts map[string]int

	Patients     []silver.Patient
	Conditions   []silver.Condition
	Observations []silver.Observation

	PatientReport     *fhiretl.ValidationReport
	ConditionReport   *fhiretl.ValidationReport
	ObservationReport *fhiretl.ValidationReport

	PatientSummary     reporting.Summary
	ConditionSummary   reporting.Summary
	ObservationSummary reporting.Summary

	Gold []gold.ObservationsPerPatient
}

// BronzeTables maps schema-qualified bronze table names to their row
// counts, mirroring what a persisted run writes.
func (r *Result) BronzeTables() map[string]int {
	tables := make(map[string]int, len(r.ResourceCounts))
	for resourceType, count := range r.ResourceCounts {
		tables[store.SchemaBronze+"."+store.ResourceTable(resourceType)] = count
	}
	return tables
}

// TotalResources counts every ingested resource across types.
func (r *Result) TotalResources() int {
	total := 0
	for _, count := range r.ResourceCounts {
		total += count
	}
	return total
}

// New creates a pipeline with the given options.
func New(log zerolog.Logger, opts ...fhiretl.Option) *Pipeline {
	options := fhiretl.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Pipeline{
		opts:    options,
		log:     log.With().Str("component", "pipeline").Logger(),
		metrics: fhiretl.NewMetrics(),
	}
}

// Metrics exposes the run's performance counters.
func (p *Pipeline) Metrics() *fhiretl.Metrics {
	return p.metrics
}

// Run executes the pipeline end to end. A bundle file that fails to parse
// fails the whole run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
	log := p.log.With().Str("run_id", result.RunID.String()).Logger()
	log.Info().Str("input_dir", p.opts.InputDir).Msg("starting pipeline run")

	var db *store.DB
	if p.opts.Persist {
		var err error
		db, err = store.Open(p.opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
	}

	bundles, err := p.ingest(ctx)
	if err != nil {
		p.recordRun(ctx, db, result, "failed", err)
		return nil, err
	}
	result.BundleCount = len(bundles)
	result.ResourceCounts = bronze.CountByType(bundles)
	grouped := bronze.GroupByType(bundles)
	log.Info().
		Int("bundles", result.BundleCount).
		Int("resources", bronze.TotalResources(bundles)).
		Msg("bronze ingestion complete")

	if err := p.buildSilver(ctx, grouped, result); err != nil {
		p.recordRun(ctx, db, result, "failed", err)
		return nil, err
	}
	log.Info().
		Int("patients", len(result.Patients)).
		Int("conditions", len(result.Conditions)).
		Int("observations", len(result.Observations)).
		Msg("silver layer built")

	goldStart := time.Now()
	result.Gold = gold.BuildObservationsPerPatient(result.Patients, result.Observations, p.asOf())
	p.recordStage("gold_observations_per_patient", goldStart, len(result.Gold))

	if db != nil {
		if err := p.persist(ctx, db, grouped, result); err != nil {
			p.recordRun(ctx, db, result, "failed", err)
			return nil, err
		}
		log.Info().Str("database", p.opts.DatabasePath).Msg("run persisted")
	}

	result.Duration = time.Since(result.StartedAt)
	p.recordRun(ctx, db, result, "succeeded", nil)
	log.Info().Dur("duration", result.Duration).Msg("pipeline run complete")
	return result, nil
}

// ingest discovers and parses every bundle file, in file name order.
func (p *Pipeline) ingest(ctx context.Context) ([]*bronze.BundleFile, error) {
	paths, err := bronze.Discover(p.opts.InputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		p.log.Warn().Str("input_dir", p.opts.InputDir).Msg("no bundle files found")
		return nil, nil
	}

	pool := worker.NewPool(bronze.FileParser{}, p.opts.Workers)
	submitDone := make(chan struct{})
	go func() {
		defer close(submitDone)
		for i, path := range paths {
			if !pool.SubmitContext(ctx, worker.Job{ID: strconv.Itoa(i), Path: path}) {
				return
			}
		}
	}()

	// Drain results while jobs are still being submitted; the pool's
	// channels are bounded, so waiting for all submissions first could
	// stall on large directories.
	results := make([]*worker.JobResult, 0, len(paths))
	for len(results) < len(paths) {
		select {
		case <-ctx.Done():
			<-submitDone
			pool.Close()
			return nil, ctx.Err()
		case r := <-pool.Results():
			results = append(results, r)
		}
	}
	<-submitDone
	pool.Close()

	// Workers finish out of order; restore submission order so downstream
	// row order is deterministic.
	sort.Slice(results, func(i, j int) bool {
		a, _ := strconv.Atoi(results[i].ID)
		b, _ := strconv.Atoi(results[j].ID)
		return a < b
	})

	bundles := make([]*bronze.BundleFile, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			return nil, r.Error
		}
		bundles = append(bundles, r.Bundle)
		if p.opts.CollectMetrics {
			p.metrics.RecordBundle(time.Duration(r.Duration), len(r.Bundle.Resources))
		}
	}
	return bundles, nil
}

// buildSilver transforms and validates the three entities, concurrently when
// configured.
func (p *Pipeline) buildSilver(ctx context.Context, grouped map[string][]map[string]any, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	patientStage := func() {
		start := time.Now()
		result.Patients = rules.Validate(
			silver.TransformPatients(grouped[fhiretl.ResourcePatient.String()]),
			rules.PatientRules)
		p.recordStage("silver_patient", start, len(result.Patients))
	}
	conditionStage := func() {
		start := time.Now()
		result.Conditions = rules.Validate(
			silver.TransformConditions(grouped[fhiretl.ResourceCondition.String()]),
			rules.ConditionRules)
		p.recordStage("silver_condition", start, len(result.Conditions))
	}
	observationStage := func() {
		start := time.Now()
		result.Observations = rules.Validate(
			silver.TransformObservations(grouped[fhiretl.ResourceObservation.String()]),
			rules.ObservationRules)
		p.recordStage("silver_observation", start, len(result.Observations))
	}

	if p.opts.ParallelEntities {
		var wg sync.WaitGroup
		for _, stage := range []func(){patientStage, conditionStage, observationStage} {
			stage := stage
			wg.Add(1)
			go func() {
				defer wg.Done()
				stage()
			}()
		}
		wg.Wait()
	} else {
		patientStage()
		conditionStage()
		observationStage()
	}

	result.PatientReport = fhiretl.NewValidationReport(rules.ErrorLists(result.Patients))
	result.ConditionReport = fhiretl.NewValidationReport(rules.ErrorLists(result.Conditions))
	result.ObservationReport = fhiretl.NewValidationReport(rules.ErrorLists(result.Observations))

	result.PatientSummary = reporting.PatientSummary(result.Patients)
	result.ConditionSummary = reporting.ConditionSummary(result.Conditions)
	result.ObservationSummary = reporting.ObservationSummary(result.Observations)

	if p.opts.CollectMetrics {
		for _, report := range []*fhiretl.ValidationReport{
			result.PatientReport, result.ConditionReport, result.ObservationReport,
		} {
			p.metrics.RecordRows(report.ValidRecords, report.InvalidRecords)
		}
	}
	return nil
}

// persist writes the three layers and waits for every table to land.
func (p *Pipeline) persist(ctx context.Context, db *store.DB, grouped map[string][]map[string]any, result *Result) error {
	for resourceType, rows := range grouped {
		if _, err := db.SaveBronze(ctx, store.ResourceTable(resourceType), rows); err != nil {
			return err
		}
	}
	if _, err := db.SavePatients(ctx, result.Patients); err != nil {
		return err
	}
	if _, err := db.SaveConditions(ctx, result.Conditions); err != nil {
		return err
	}
	if _, err := db.SaveObservations(ctx, result.Observations); err != nil {
		return err
	}
	if _, err := db.SaveGold(ctx, result.Gold); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) recordRun(ctx context.Context, db *store.DB, result *Result, status string, runErr error) {
	if db == nil {
		return
	}
	record := store.RunRecord{
		RunID:      result.RunID.String(),
		StartedAt:  result.StartedAt,
		FinishedAt: time.Now(),
		InputDir:   p.opts.InputDir,
		Bundles:    result.BundleCount,
		Resources:  result.TotalResources(),
		Status:     status,
	}
	if runErr != nil {
		msg := runErr.Error()
		record.Error = &msg
	}
	if err := db.RecordRun(ctx, record); err != nil {
		p.log.Warn().Err(err).Msg("failed to record run")
	}
}

func (p *Pipeline) recordStage(name string, start time.Time, rows int) {
	if p.opts.CollectMetrics {
		p.metrics.RecordStage(name, time.Since(start), rows)
	}
}

func (p *Pipeline) asOf() time.Time {
	if p.opts.AsOf.IsZero() {
		return time.Now()
	}
	return p.opts.AsOf
}

