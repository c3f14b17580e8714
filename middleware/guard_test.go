package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/salonhub/admincore"
	"github.com/salonhub/admincore/provider"
	"github.com/salonhub/admincore/vault"
)

type fakeProvider struct{}

func (fakeProvider) SignInWithPassword(context.Context, string, string) (*provider.Session, error) {
	return &provider.Session{AccessToken: "T", UserID: "u1", Email: "ana@acme.test"}, nil
}

func (fakeProvider) SignOut(context.Context, string) error { return nil }

type fakeDirectory struct{}

func (fakeDirectory) ProfileByUserID(context.Context, string) (map[string]any, error) {
	return map[string]any{
		"nombre":        "Ana",
		"rol":           admincore.RolAdmin,
		"peluqueria_id": "7",
	}, nil
}

func (fakeDirectory) SalonByID(context.Context, string) (map[string]any, error) {
	return map[string]any{"nombre": "Acme"}, nil
}

func newGuardedEngine(t *testing.T) *admincore.Engine {
	t.Helper()

	cfg := admincore.DefaultConfig()
	cfg.Provider.URL = "http://provider.test"
	cfg.API.BaseURL = "http://api.test"

	engine, err := admincore.New().
		WithConfig(cfg).
		WithMedium(vault.NewMemoryMedium()).
		WithProvider(fakeProvider{}).
		WithDirectory(fakeDirectory{}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardHoldsWhilePending(t *testing.T) {
	engine := newGuardedEngine(t)
	guard := NewGuard(engine)
	defer guard.Close()

	if got := guard.State(); got != StatePending {
		t.Fatalf("State() = %v, want pending", got)
	}

	rec := httptest.NewRecorder()
	guard.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After hint")
	}
}

func TestGuardRedirectsWhenUnauthenticated(t *testing.T) {
	engine := newGuardedEngine(t)
	guard := NewGuard(engine)
	defer guard.Close()

	engine.Hydrate(context.Background())
	if err := engine.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}

	rec := httptest.NewRecorder()
	guard.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestGuardPassesAuthenticatedWithIdentity(t *testing.T) {
	engine := newGuardedEngine(t)
	guard := NewGuard(engine)
	defer guard.Close()

	engine.Hydrate(context.Background())
	if err := engine.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
	if _, err := engine.Login(context.Background(), "ana@acme.test", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	var seen *admincore.Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	guard.Middleware(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.ID != "u1" {
		t.Errorf("injected identity = %+v, want u1", seen)
	}
}

func TestGuardRedirectFiresOncePerTransition(t *testing.T) {
	engine := newGuardedEngine(t)

	var fired atomic.Int64
	guard := NewGuard(engine, WithOnRedirect(func(from State) {
		fired.Add(1)
	}))
	defer guard.Close()

	engine.Hydrate(context.Background())
	if err := engine.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}

	// Several requests against the same signed-out session: still one callback.
	for range 3 {
		rec := httptest.NewRecorder()
		guard.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))
	}

	waitFor(t, func() bool { return fired.Load() == 1 })

	if _, err := engine.Login(context.Background(), "ana@acme.test", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := engine.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	waitFor(t, func() bool { return fired.Load() == 2 })

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[admincore.MetricGuardRedirect]; got != 2 {
		t.Errorf("MetricGuardRedirect = %d, want 2", got)
	}
}

func TestGuardReconcilesTransitionDuringConstruction(t *testing.T) {
	// A session settling between the guard's first snapshot and its
	// subscription must still be observed; the tracked state may not stay
	// pending once hydration has finished.
	for range 25 {
		engine := newGuardedEngine(t)
		engine.Hydrate(context.Background())

		guard := NewGuard(engine)
		if err := engine.WaitReady(context.Background()); err != nil {
			t.Fatalf("WaitReady() error = %v", err)
		}

		waitFor(t, func() bool {
			guard.mu.Lock()
			last := guard.last
			guard.mu.Unlock()
			return last == StateUnauthenticated
		})
		guard.Close()
	}
}

func TestRequireRole(t *testing.T) {
	engine := newGuardedEngine(t)
	guard := NewGuard(engine)
	defer guard.Close()

	engine.Hydrate(context.Background())
	if err := engine.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
	if _, err := engine.Login(context.Background(), "ana@acme.test", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	adminOnly := guard.Middleware(RequireRole(admincore.RolAdmin)(okHandler()))
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("admin route status = %d, want 200", rec.Code)
	}

	barberOnly := guard.Middleware(RequireRole(admincore.RolBarbero)(okHandler()))
	rec = httptest.NewRecorder()
	barberOnly.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agenda", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("barber route status = %d, want 403", rec.Code)
	}

	bare := RequireRole(admincore.RolAdmin)(okHandler())
	rec = httptest.NewRecorder()
	bare.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("unguarded status = %d, want 403", rec.Code)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}
