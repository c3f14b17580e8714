// Package admincore is the session and data-access core of the salon admin
// dashboard. It authenticates staff against a hosted auth provider, merges
// the provider session with the profile and salon rows into one [Identity],
// keeps that identity in an encrypted local vault across restarts, and hands
// UI surfaces a settled authenticated/unauthenticated view plus thin proxies
// for the servicios and usuarios resources.
//
// # Architecture boundaries
//
// admincore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types. State and plumbing live in subpackages: session (identity
// store + hydration), vault (encrypted persistence), provider (auth backend
// client), rest (resource proxies), catalog (optimistic list state),
// middleware (route guard).
//
// # What this package must NOT do
//
//   - Render anything. Tables, drawers, and forms belong to the consuming UI.
//   - Re-validate what the REST API validates server-side.
//   - Treat the vault secret as a confidentiality boundary (it ships with
//     the client; it deters casual inspection only).
//
// The Engine is an explicit dependency: construct one at startup through
// [Builder.Build] and pass it where needed. There is no package-level
// singleton.
package admincore
