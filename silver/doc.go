// Package silver flattens bronze resource rows into typed, analysis-ready
// records. Each transform is a pure function over one bronze row: optional
// fields come out as nil pointers rather than errors, so a partially shaped
// resource still yields a row and the validation layer decides what to flag.
package silver
