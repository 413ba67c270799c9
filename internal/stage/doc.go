// Package stage holds the error taxonomy and the execution helper shared by
// the build pipeline stages.
//
// Stage errors are tagged with one of the exported sentinels via Wrap so the
// CLI and the history store can classify a failed build without string
// matching. Run wraps a stage function with context-scoped logging.
package stage
