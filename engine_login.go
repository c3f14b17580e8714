package admincore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/salonhub/admincore/provider"
)

// Login runs the full sign-in flow: validate the form, authenticate against
// the provider, resolve the profile and salon rows, merge everything into one
// identity and install it in the session store. On success the returned
// identity is a copy of what the store now holds.
//
// Failures leave the current session untouched: a user already signed in
// stays signed in when a second login attempt is rejected.
func (e *Engine) Login(ctx context.Context, email, password string) (*Identity, error) {
	if e == nil || e.auth == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics != nil && e.metrics.Enabled() {
		start = time.Now()
	}

	if err := ValidateCredentials(email, password); err != nil {
		e.metricInc(MetricLoginInvalid)
		return nil, err
	}

	sess, err := e.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, &Identity{Email: email}, err)
		return nil, fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}

	identity, err := e.resolveIdentity(ctx, sess)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, &Identity{ID: sess.UserID, Email: email}, err)
		return nil, err
	}

	e.session.SetIdentity(ctx, identity)

	e.metricInc(MetricLoginSuccess)
	if !start.IsZero() {
		e.metrics.Observe(MetricLoginLatency, time.Since(start))
	}
	e.emitAudit(ctx, AuditLoginSuccess, true, identity, nil)
	e.logger.InfoContext(ctx, "login succeeded",
		"user_id", identity.ID, "salon_id", identity.PeluqueriaID)

	return identity.Clone(), nil
}

// resolveIdentity merges the provider session with the profile and salon
// directory rows into the flat identity the dashboard works with.
func (e *Engine) resolveIdentity(ctx context.Context, sess *provider.Session) (*Identity, error) {
	profile, err := e.directory.ProfileByUserID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, provider.ErrRowNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrProfileNotFound, sess.UserID)
		}
		return nil, fmt.Errorf("profile lookup: %w", err)
	}

	identity := &Identity{
		ID:           sess.UserID,
		Email:        sess.Email,
		Token:        sess.AccessToken,
		CreatedAt:    sess.CreatedAt,
		Nombre:       stringField(profile, "nombre"),
		Telefono:     stringField(profile, "telefono"),
		Rol:          stringField(profile, "rol"),
		PeluqueriaID: stringField(profile, "peluqueria_id"),
	}
	if identity.Email == "" {
		identity.Email = stringField(profile, "email")
	}

	// The profile backend adds columns without notice; carry anything we do
	// not map into a named field so it survives the merge.
	for k, v := range profile {
		switch k {
		case "nombre", "telefono", "rol", "peluqueria_id", "email", "id":
			continue
		}
		if identity.Extra == nil {
			identity.Extra = make(map[string]any)
		}
		identity.Extra[k] = v
	}

	if identity.PeluqueriaID != "" {
		salon, err := e.directory.SalonByID(ctx, identity.PeluqueriaID)
		if err != nil {
			if errors.Is(err, provider.ErrRowNotFound) {
				return nil, fmt.Errorf("%w: salon %s", ErrSalonNotFound, identity.PeluqueriaID)
			}
			return nil, fmt.Errorf("salon lookup: %w", err)
		}
		identity.Peluqueria = stringField(salon, "nombre")
	}

	return identity, nil
}

// stringField reads a loosely typed directory column. Numeric IDs come back
// from JSON as float64 and are rendered without a fraction.
func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
