// Package notifications delivers build outcomes via ntfy.
//
// The ntfy topic comes from the [notifications] section of config.toml. With
// no topic configured NewService returns a no-op so callers never need to
// check whether notifications are enabled. Unchanged rebuilds and dry runs
// are deliberately quiet; only events a maintainer would act on are sent.
package notifications
