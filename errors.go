package admincore

import "errors"

var (
	// ErrValidation marks input rejected before any network call. Unwrap
	// to [FieldErrors] for per-field messages.
	ErrValidation = errors.New("invalid input")
	// ErrSignInFailed is the generic user-facing sign-in failure. Wrong
	// password and unreachable provider are deliberately not distinguished.
	ErrSignInFailed = errors.New("sign in failed")
	// ErrProfileNotFound means the provider authenticated the user but no
	// profile row exists for them.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrSalonNotFound means the profile references a salon row that does
	// not exist.
	ErrSalonNotFound = errors.New("user salon not found")
	// ErrNotAuthenticated is returned by operations that need a current
	// identity when there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
