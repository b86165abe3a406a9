package worker

import "github.com/gofhir/etl/bronze"

// Job represents one bundle file to be parsed by a worker.
type Job struct {
	// ID is a unique identifier for this job.
	ID string

	// Path is the bundle file to parse.
	Path string
}

// JobResult represents the outcome of one parse job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Bundle is the parsed bundle, nil when Error is set.
	Bundle *bronze.BundleFile

	// Error contains any error that occurred during parsing.
	Error error

	// Duration is the time taken to parse (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// TotalDuration is the total parse time across all jobs (in nanoseconds).
	TotalDuration int64
}

// HasErrors returns true if any job failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// Bundles returns the successfully parsed bundles in result order.
func (br *BatchResult) Bundles() []*bronze.BundleFile {
	bundles := make([]*bronze.BundleFile, 0, len(br.Results))
	for _, r := range br.Results {
		if r.Error == nil && r.Bundle != nil {
			bundles = append(bundles, r.Bundle)
		}
	}
	return bundles
}

// FirstError returns the first failure, or nil when every job succeeded.
func (br *BatchResult) FirstError() error {
	for _, r := range br.Results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
