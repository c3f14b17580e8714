// Package vault provides the encrypted key-value persistence layer for the
// session state. Values are serialized to JSON, sealed with AES-256-GCM, and
// written to a pluggable [Medium] (in-memory, file, or Redis).
//
// # Fail-open reads
//
// Read never propagates decryption or decoding failures. A missing value,
// corrupt ciphertext, wrong secret, or malformed plaintext all log and report
// "no value". A damaged session cache must degrade to "not logged in", not
// crash the caller.
//
// # Architecture boundaries
//
// This package owns encryption and medium access. It does NOT know what an
// identity is — envelope semantics belong to the session package.
//
// # What this package must NOT do
//
//   - Return decrypt/parse failures as errors from Read.
//   - Interpret the plaintext beyond JSON decoding into the caller's value.
//   - Cache plaintext between calls.
package vault
