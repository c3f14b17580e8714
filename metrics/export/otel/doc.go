// Package otel bridges admincore metrics into an OpenTelemetry meter as
// observable instruments. Snapshots are pulled on collection, so the engine
// pays no per-operation exporter cost.
package otel
