// Package fhiretl provides a batch ETL pipeline for FHIR Bundle JSON files.
//
// The pipeline follows the medallion layout: raw resources land in a bronze
// layer (one table per resource type), are flattened into typed silver tables
// (Patient, Observation, Condition), validated against declarative rule sets,
// and aggregated into a gold layer (observations per patient). Everything runs
// single-shot against a local directory of bundle files and one embedded
// DuckDB database file.
//
// # Quick Start
//
//	import (
//	    fe "github.com/gofhir/etl"
//	    "github.com/gofhir/etl/engine"
//	)
//
//	pipe := engine.New(logger,
//	    fe.WithInputDir("./data/EPS"),
//	    fe.WithDatabasePath("fhir.duckdb"),
//	)
//
//	result, err := pipe.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("validity: %.1f%%\n", result.PatientReport.ValidityRate*100)
//
// # Design
//
// Extraction is deliberately tolerant: every field extractor in pkg/fhir
// accepts arbitrary JSON shapes and degrades to nil on absent or malformed
// input, because upstream payloads are not guaranteed conformant. Row
// transformers in the silver package are pure, total functions: one bronze
// row always yields exactly one silver row. Data-quality problems are never
// raised as errors; they are recorded per row by the rules package, which
// evaluates each entity's declared rule list over the whole row set and
// annotates rows with the names of the rules they failed.
//
// # Layers
//
//   - bronze: bundle discovery, parsing, grouping by resource type
//   - silver: flattening into fixed, typed row schemas
//   - rules: declarative validation with per-row error lists
//   - gold: observations_per_patient aggregation with computed age
//   - store: persistence of all layers into one DuckDB file
//
// Bundle files are parsed in parallel by a worker pool; the three silver
// entities are independent and transformed concurrently. All core functions
// are pure, so re-running the pipeline over the same input and as-of date
// yields identical output.
package fhiretl
