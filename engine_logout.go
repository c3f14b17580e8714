package admincore

import (
	"context"
)

// Logout revokes the provider session and clears the local one. Provider
// revocation is best-effort: a dead backend must never trap the user in a
// signed-in dashboard, so the local clear always happens. The returned path
// is where the caller should navigate next.
func (e *Engine) Logout(ctx context.Context) (string, error) {
	if e == nil || e.session == nil {
		return "", ErrEngineNotReady
	}

	identity := e.session.Identity()

	if identity != nil && identity.Token != "" {
		if err := e.auth.SignOut(ctx, identity.Token); err != nil {
			e.logger.WarnContext(ctx, "provider sign-out failed, clearing local session anyway",
				"error", err)
		}
	}

	err := e.session.Clear(ctx)

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, err == nil, identity, err)

	return e.config.Routes.LandingPath, err
}
