// Package internaldefs holds the shared metric name table used by the
// prometheus and otel exporters. It is internal to the export packages and
// not a stable API.
package internaldefs
