// Package store persists pipeline output to an embedded DuckDB database.
// Tables are laid out in three schemas (bronze, silver, gold) plus an
// etl_runs bookkeeping table. Each run fully replaces the tables it writes,
// so re-running the pipeline over the same input is idempotent.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	fhiretl "github.com/gofhir/etl"
	"github.com/gofhir/etl/bronze"
	"github.com/gofhir/etl/gold"
	"github.com/gofhir/etl/silver"
)

// Schema names of the medallion layers.
const (
	SchemaBronze = "bronze"
	SchemaSilver = "silver"
	SchemaGold   = "gold"
)

// DB wraps a DuckDB database file.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) a DuckDB database at path and prepares the layer
// schemas and the etl_runs table.
func Open(path string) (*DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}
	s := &DB{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) init(ctx context.Context) error {
	stmts := []string{
		createSchemaSQL(SchemaBronze),
		createSchemaSQL(SchemaSilver),
		createSchemaSQL(SchemaGold),
		createRunsTableSQL(),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}
	return nil
}

// SaveBronze replaces one bronze resource table with rows. The raw resource
// object is stored as a JSON column next to its provenance fields.
func (s *DB) SaveBronze(ctx context.Context, table string, rows []map[string]any) (int, error) {
	if _, err := s.db.ExecContext(ctx, createBronzeTableSQL(table)); err != nil {
		return 0, fmt.Errorf("create %s.%s: %w", SchemaBronze, table, err)
	}
	insert := insertBronzeSQL(table)
	for _, row := range rows {
		resource, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode bronze row: %w", err)
		}
		_, err = s.db.ExecContext(ctx, insert,
			row[bronze.KeySourceFile],
			row[bronze.KeySourceBundle],
			row[bronze.KeyFullURL],
			string(resource),
		)
		if err != nil {
			return 0, fmt.Errorf("insert into %s.%s: %w", SchemaBronze, table, err)
		}
	}
	return len(rows), nil
}

// SavePatients replaces the silver patient table.
func (s *DB) SavePatients(ctx context.Context, rows []silver.Patient) (int, error) {
	if _, err := s.db.ExecContext(ctx, createPatientTableSQL()); err != nil {
		return 0, fmt.Errorf("create %s.patient: %w", SchemaSilver, err)
	}
	for _, p := range rows {
		errs, err := json.Marshal(p.ValidationErrors)
		if err != nil {
			return 0, err
		}
		_, err = s.db.ExecContext(ctx, insertPatientSQL(),
			p.ID, p.SourceFile, p.SourceBundle,
			p.FamilyName, p.GivenNames, p.FullName,
			p.BirthDate, p.Gender, p.Phone,
			p.AddressLine, p.City, p.PostalCode, p.Country,
			p.NationalityCode, p.IdentifierECI, p.IdentifierMR,
			string(errs),
		)
		if err != nil {
			return 0, fmt.Errorf("insert into %s.patient: %w", SchemaSilver, err)
		}
	}
	return len(rows), nil
}

// SaveConditions replaces the silver condition table.
func (s *DB) SaveConditions(ctx context.Context, rows []silver.Condition) (int, error) {
	if _, err := s.db.ExecContext(ctx, createConditionTableSQL()); err != nil {
		return 0, fmt.Errorf("create %s.condition: %w", SchemaSilver, err)
	}
	for _, c := range rows {
		errs, err := json.Marshal(c.ValidationErrors)
		if err != nil {
			return 0, err
		}
		_, err = s.db.ExecContext(ctx, insertConditionSQL(),
			c.ID, c.SourceFile, c.SourceBundle,
			c.PatientID, c.PatientDisplay,
			c.CategoryCode, c.CategoryDisplay,
			c.CodeSystem, c.Code, c.CodeDisplay, c.CodeText,
			c.OnsetDate, c.AbatementDate, c.AsserterDisplay,
			string(errs),
		)
		if err != nil {
			return 0, fmt.Errorf("insert into %s.condition: %w", SchemaSilver, err)
		}
	}
	return len(rows), nil
}

// SaveObservations replaces the silver observation table. The coding and
// component lists are stored as JSON columns.
func (s *DB) SaveObservations(ctx context.Context, rows []silver.Observation) (int, error) {
	if _, err := s.db.ExecContext(ctx, createObservationTableSQL()); err != nil {
		return 0, fmt.Errorf("create %s.observation: %w", SchemaSilver, err)
	}
	for _, o := range rows {
		nested, err := encodeObservationLists(o)
		if err != nil {
			return 0, err
		}
		_, err = s.db.ExecContext(ctx, insertObservationSQL(),
			o.ID, o.SourceFile, o.SourceBundle,
			o.Status, o.SubjectReference, o.SubjectID,
			o.EffectiveDateTime, o.Issued,
			o.CategoryText, o.CategorySystem, o.CategoryCode, o.CategoryDisplay,
			o.CodeText, o.CodeSystem, o.CodeCode, o.CodeDisplay,
			o.Type,
			o.QuantityValue, o.QuantityUnit, o.QuantitySystem, o.QuantityCode,
			o.ConceptText, o.ConceptSystem, o.ConceptCode, o.ConceptDisplay,
			o.String, o.Boolean, o.Integer, o.DateTime,
			nested.performerReferences, nested.performerIDs,
			nested.codeCodings, nested.categoryCodings, nested.components,
			o.ComponentCount,
			nested.validationErrors,
		)
		if err != nil {
			return 0, fmt.Errorf("insert into %s.observation: %w", SchemaSilver, err)
		}
	}
	return len(rows), nil
}

type observationLists struct {
	performerReferences string
	performerIDs        string
	codeCodings         string
	categoryCodings     string
	components          string
	validationErrors    string
}

func encodeObservationLists(o silver.Observation) (observationLists, error) {
	var out observationLists
	for _, enc := range []struct {
		dst *string
		src any
	}{
		{&out.performerReferences, o.PerformerReferences},
		{&out.performerIDs, o.PerformerIDs},
		{&out.codeCodings, o.CodeCodings},
		{&out.categoryCodings, o.CategoryCodings},
		{&out.components, o.Components},
		{&out.validationErrors, o.ValidationErrors},
	} {
		b, err := json.Marshal(enc.src)
		if err != nil {
			return out, fmt.Errorf("encode observation lists: %w", err)
		}
		*enc.dst = string(b)
	}
	return out, nil
}

// SaveGold replaces the gold observations_per_patient table.
func (s *DB) SaveGold(ctx context.Context, rows []gold.ObservationsPerPatient) (int, error) {
	if _, err := s.db.ExecContext(ctx, createGoldTableSQL()); err != nil {
		return 0, fmt.Errorf("create %s.observations_per_patient: %w", SchemaGold, err)
	}
	for _, g := range rows {
		_, err := s.db.ExecContext(ctx, insertGoldSQL(),
			g.PatientID, g.ObservationCount, g.BirthDate, g.PatientAgeYears,
		)
		if err != nil {
			return 0, fmt.Errorf("insert into %s.observations_per_patient: %w", SchemaGold, err)
		}
	}
	return len(rows), nil
}

// RunRecord is one row of the etl_runs bookkeeping table.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	Bundles    int
	Resources  int
	Status     string
	Error      *string
}

// RecordRun appends one run to the etl_runs table.
func (s *DB) RecordRun(ctx context.Context, run RunRecord) error {
	_, err := s.db.ExecContext(ctx, insertRunSQL(),
		run.RunID, run.StartedAt, run.FinishedAt,
		run.InputDir, run.Bundles, run.Resources,
		run.Status, run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// TableSummary returns row counts for every base table of a schema, keyed by
// schema-qualified name.
func (s *DB) TableSummary(ctx context.Context, schema string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, schema)
	if err != nil {
		return nil, fmt.Errorf("list tables of %s: %w", schema, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := make(map[string]int, len(names))
	for _, name := range names {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", qualifiedTable(schema, name))
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s.%s: %w", schema, name, err)
		}
		summary[schema+"."+name] = count
	}
	return summary, nil
}

// ResourceTable maps a resource type to its bronze table name.
func ResourceTable(resourceType string) string {
	if rt := fhiretl.ResourceType(resourceType); rt.IsValid() {
		return rt.BronzeTable()
	}
	return lowerASCII(resourceType)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
