// Package logging provides slog construction helpers and attribute shorthands
// used across Tushle. Components receive a logger tagged with a component
// field so API, store, and job logs can be filtered apart.
package logging
