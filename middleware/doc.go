// Package middleware exposes HTTP adapters that gate request handling on the
// session state held by an admincore.Engine.
//
// # Guards
//
//   - [Guard] — three-state gate: holds requests while the session is still
//     hydrating, redirects to the login page when no identity is present,
//     and passes through with the identity in context when signed in.
//   - [RequireRole] — role check layered on top of a Guard.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into session reads. It never signs
// users in or out and never talks to the provider; all state changes flow
// through the Engine.
package middleware
