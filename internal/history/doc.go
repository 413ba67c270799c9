// Package history records every catalog build in a SQLite database under the
// state directory.
//
// Each row captures the build id, outcome, catalog version, song count, the
// songs.json digest and the manifest timestamp. `istoki history` lists the
// rows; the publisher itself never reads them back, so a missing or cleared
// database only loses the audit trail.
package history
