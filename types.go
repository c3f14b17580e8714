package admincore

import (
	"io"

	"github.com/salonhub/admincore/internal/audit"
	"github.com/salonhub/admincore/session"
)

// Identity is the authenticated user profile held by the session store.
type Identity = session.Identity

// View is a point-in-time snapshot of the session.
type View = session.View

// AuditEvent is a single audit record emitted by the engine.
type AuditEvent = audit.Event

// AuditSink receives audit events from the async dispatcher.
type AuditSink = audit.Sink

// Roles recognized by the dashboard.
const (
	RolCliente = "cliente"
	RolBarbero = "barbero"
	RolAdmin   = "admin"
)

// Audit event types emitted by the engine.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailure = "login_failure"
	AuditLogout       = "logout"
)

// NewChannelSink returns a sink that forwards events to a channel, mainly
// for tests.
func NewChannelSink(buf int) *audit.ChannelSink {
	return audit.NewChannelSink(buf)
}

// NewJSONWriterSink returns a sink that writes one JSON event per line.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
