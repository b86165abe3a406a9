// Package worker provides a worker pool for parallel bundle parsing.
//
// Parsing is the I/O-heavy step of ingestion, so fanning bundle files out
// across a pool of goroutines keeps multi-core machines busy while the rest
// of the pipeline stays sequential and deterministic.
//
// Example usage:
//
//	pool := worker.NewPool(bronze.FileParser{}, 4)
//
//	for i, path := range paths {
//	    pool.Submit(worker.Job{
//	        ID:   strconv.Itoa(i),
//	        Path: path,
//	    })
//	}
//
//	batch := pool.CloseAndWait()
//	if err := batch.FirstError(); err != nil {
//	    // Handle error
//	}
//	bundles := batch.Bundles()
package worker
