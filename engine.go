package admincore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salonhub/admincore/provider"
	"github.com/salonhub/admincore/rest"
	"github.com/salonhub/admincore/session"
	"github.com/salonhub/admincore/token"
	"github.com/salonhub/admincore/vault"

	"github.com/salonhub/admincore/internal/audit"
)

// Engine is the dashboard core: it owns the session store and its encrypted
// vault, the auth provider, and the REST proxies. Engines are built once via
// [Builder] and are safe for concurrent use.
type Engine struct {
	config  Config
	logger  *slog.Logger
	metrics *Metrics
	audit   *audit.Dispatcher

	vault     *vault.Store
	session   *session.Store
	auth      provider.AuthProvider
	directory provider.Directory
	servicios *rest.ServiciosClient
	usuarios  *rest.UsuariosClient
}

// Close shuts down the async audit dispatcher and waits for in-flight
// session persists. Call it on graceful shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.session != nil {
		e.session.Flush()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Hydrate starts the one-time session rehydration. Safe to call more than
// once; only the first call does anything.
func (e *Engine) Hydrate(ctx context.Context) {
	e.session.Hydrate(ctx)
}

// WaitReady blocks until rehydration has completed or ctx expires.
func (e *Engine) WaitReady(ctx context.Context) error {
	return e.session.WaitReady(ctx)
}

// Session exposes the underlying session store for subscribers and guards.
func (e *Engine) Session() *session.Store {
	return e.session
}

// View returns the current session snapshot.
func (e *Engine) View() View {
	return e.session.View()
}

// Servicios returns the service catalog proxy.
func (e *Engine) Servicios() *rest.ServiciosClient {
	return e.servicios
}

// Usuarios returns the user directory proxy.
func (e *Engine) Usuarios() *rest.UsuariosClient {
	return e.usuarios
}

// UsuariosForSalon lists the accounts scoped to the signed-in user's salon.
// It fails with [ErrNotAuthenticated] when no identity is present or the
// identity carries no salon binding.
func (e *Engine) UsuariosForSalon(ctx context.Context) ([]rest.Usuario, error) {
	identity := e.session.Identity()
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	if identity.PeluqueriaID == "" {
		return nil, fmt.Errorf("%w: identity has no salon", ErrNotAuthenticated)
	}
	return e.usuarios.ListBySalon(ctx, identity.PeluqueriaID)
}

// Routes returns the configured navigation destinations.
func (e *Engine) Routes() RoutesConfig {
	return e.config.Routes
}

// SessionExpired reports whether the current identity carries an access token
// that is past its expiry. Absent identity or an unparseable token counts as
// expired; a token with no exp claim never expires.
func (e *Engine) SessionExpired(now time.Time) bool {
	identity := e.session.Identity()
	if identity == nil || identity.Token == "" {
		return true
	}
	claims, err := token.Parse(identity.Token)
	if err != nil {
		return true
	}
	return claims.Expired(now)
}

// MetricsSnapshot returns a copy of all counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metrics exposes the engine's counters for collaborating packages and
// exporters. The result is nil-safe for Inc and Observe.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

// AuditDropped reports how many audit events the dispatcher discarded.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, identity *Identity, err error) {
	if e == nil || e.audit == nil {
		return
	}
	event := audit.Event{
		EventType: eventType,
		Success:   success,
	}
	if identity != nil {
		event.UserID = identity.ID
		event.Email = identity.Email
		event.SalonID = identity.PeluqueriaID
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.audit.Emit(ctx, event)
}

// bearerToken feeds the REST proxies. An empty string means no
// Authorization header is attached.
func (e *Engine) bearerToken() string {
	identity := e.session.Identity()
	if identity == nil {
		return ""
	}
	return identity.Token
}
