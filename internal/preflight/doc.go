// Package preflight checks that a build can run before one is attempted.
//
// Checks cover the source workbook, the output and state directories, and the
// ntfy topic when notifications are enabled. Each check returns a Result the
// CLI renders as a status line; nothing here mutates the filesystem.
package preflight
