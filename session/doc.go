// Package session holds the single source of truth for "who is currently
// authenticated". The [Store] keeps the merged [Identity] in memory, mirrors
// it into an encrypted vault envelope, and rehydrates it once at process
// start behind a monotonic readiness flag.
//
// # Readiness
//
// Ready reports false until the persisted envelope has been read back (or
// determined absent) exactly once. Consumers must treat "no identity while
// not ready" as indeterminate, never as logged out — that distinction is what
// keeps the route guard from bouncing a still-hydrating session to the login
// page.
//
// # Architecture boundaries
//
// This package owns identity state and the persisted envelope format. It does
// NOT talk to the auth provider, interpret tokens, or gate routes.
//
// # What this package must NOT do
//
//   - Flip Ready back to false after hydration.
//   - Block SetIdentity on persistence (durability is eventual).
//   - Leave envelope bytes behind after Clear.
package session
