package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/salonhub/admincore"
)

// State is the guard's view of the session.
type State int

const (
	// StatePending means hydration has not completed; nothing is known yet.
	StatePending State = iota
	// StateUnauthenticated means hydration settled with no identity.
	StateUnauthenticated
	// StateAuthenticated means an identity is present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type identityContextKey struct{}

// IdentityFromContext returns the identity a Guard injected for the request.
func IdentityFromContext(ctx context.Context) (*admincore.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*admincore.Identity)
	return id, ok
}

// GuardOption configures a [Guard].
type GuardOption func(*Guard)

// WithOnRedirect registers fn to run when the session transitions into the
// unauthenticated state. It fires once per transition, not once per request,
// so repeated requests against a signed-out session produce one callback.
func WithOnRedirect(fn func(from State)) GuardOption {
	return func(g *Guard) {
		g.onRedirect = fn
	}
}

// Guard gates handlers on the engine's session state. While hydration is
// pending it answers 503 with a Retry-After hint rather than guessing, so a
// restored session is never bounced to the login page.
type Guard struct {
	engine     *admincore.Engine
	loginPath  string
	onRedirect func(from State)

	mu     sync.Mutex
	last   State
	cancel func()
}

// NewGuard builds a guard for engine and subscribes it to session changes.
// Call [Guard.Close] when the guard is discarded before the engine.
func NewGuard(engine *admincore.Engine, opts ...GuardOption) *Guard {
	g := &Guard{
		engine:    engine,
		loginPath: engine.Routes().LoginPath,
		last:      stateOf(engine.View()),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.cancel = engine.Session().Subscribe(func(view admincore.View) {
		g.observe(stateOf(view))
	})
	// A transition can land between the snapshot above and the Subscribe
	// call. Re-deriving the state now reconciles it: unchanged is a no-op,
	// changed is observed as a normal transition.
	g.observe(stateOf(engine.View()))
	return g
}

// Close unsubscribes the guard from session changes.
func (g *Guard) Close() {
	if g.cancel != nil {
		g.cancel()
	}
}

// State returns the guard's current session state.
func (g *Guard) State() State {
	return stateOf(g.engine.View())
}

// Middleware wraps next with the three-state gate.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		view := g.engine.View()
		switch stateOf(view) {
		case StatePending:
			w.Header().Set("Retry-After", "1")
			http.Error(w, "session loading", http.StatusServiceUnavailable)
		case StateUnauthenticated:
			http.Redirect(w, r, g.loginPath, http.StatusFound)
		default:
			ctx := context.WithValue(r.Context(), identityContextKey{}, view.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

// observe tracks state transitions. Entering StateUnauthenticated fires the
// redirect callback exactly once; re-observing the same state is a no-op.
func (g *Guard) observe(state State) {
	g.mu.Lock()
	prev := g.last
	g.last = state
	g.mu.Unlock()

	if state == prev || state != StateUnauthenticated {
		return
	}
	g.engine.Metrics().Inc(admincore.MetricGuardRedirect)
	if g.onRedirect != nil {
		g.onRedirect(prev)
	}
}

func stateOf(view admincore.View) State {
	switch {
	case view.Loading:
		return StatePending
	case view.Identity == nil:
		return StateUnauthenticated
	default:
		return StateAuthenticated
	}
}
