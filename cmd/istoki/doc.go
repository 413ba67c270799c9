// Package main hosts the istoki CLI entrypoint and command graph.
//
// The Cobra-based command tree builds and validates the song catalog, lists
// the publish history, checks the environment and scaffolds configuration. It centralizes
// configuration resolution and logger setup so subcommands only translate
// flags into pipeline options and render the outcome.
//
// Reports go to stdout; logs go to stderr.
package main
