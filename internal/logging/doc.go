// Package logging provides a unified logging interface for the estimator.
// It abstracts the underlying logging implementation so the sampling engine,
// the HTTP server and the CLI log through the same structured fields.
package logging
