// Command admind serves the salon admin dashboard API: login/logout, the
// guarded service and user endpoints, and a Prometheus metrics endpoint.
//
// Configuration is environment-driven (see ConfigFromEnv in the admincore
// package). Additional daemon settings:
//
//	ADMIND_ADDR        listen address (default :8080)
//	ADMIND_REDIS_ADDR  back the session vault with Redis
//	ADMIND_STATE_FILE  back the session vault with a local file
//	ADMIND_AUDIT_LOG   append audit events as JSON lines to this file
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/salonhub/admincore"
	"github.com/salonhub/admincore/metrics/export/prometheus"
	"github.com/salonhub/admincore/middleware"
	"github.com/salonhub/admincore/rest"
	"github.com/salonhub/admincore/vault"
)

type daemonConfig struct {
	Addr      string `env:"ADMIND_ADDR" envDefault:":8080"`
	RedisAddr string `env:"ADMIND_REDIS_ADDR"`
	StateFile string `env:"ADMIND_STATE_FILE"`
	AuditLog  string `env:"ADMIND_AUDIT_LOG"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("admind exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	var dc daemonConfig
	if err := env.Parse(&dc); err != nil {
		return err
	}

	cfg, err := admincore.ConfigFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	builder := admincore.New().
		WithConfig(cfg).
		WithLogger(logger)

	if dc.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: dc.RedisAddr})
		defer client.Close()
		builder.WithRedis(client)
	} else if dc.StateFile != "" {
		medium, err := vault.NewFileMedium(dc.StateFile)
		if err != nil {
			return err
		}
		builder.WithMedium(medium)
	}

	if dc.AuditLog != "" {
		f, err := os.OpenFile(dc.AuditLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()
		builder.WithAuditSink(admincore.NewJSONWriterSink(f))
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.Hydrate(ctx)

	guard := middleware.NewGuard(engine)
	defer guard.Close()

	srv := &http.Server{
		Addr:              dc.Addr,
		Handler:           routes(engine, guard),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admind listening", "addr", dc.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func routes(engine *admincore.Engine, guard *middleware.Guard) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", handleLogin(engine))
	mux.HandleFunc("POST /logout", handleLogout(engine))
	mux.Handle("GET /metrics", prometheus.NewPrometheusExporter(engine).Handler())

	staff := func(h http.Handler) http.Handler {
		return guard.Middleware(middleware.RequireRole(admincore.RolBarbero, admincore.RolAdmin)(h))
	}
	admin := func(h http.Handler) http.Handler {
		return guard.Middleware(middleware.RequireRole(admincore.RolAdmin)(h))
	}

	mux.Handle("GET /servicios", staff(http.HandlerFunc(handleListServicios(engine))))
	mux.Handle("POST /servicios", admin(http.HandlerFunc(handleCreateServicio(engine))))
	mux.Handle("PUT /servicios/{id}", admin(http.HandlerFunc(handleUpdateServicio(engine))))
	mux.Handle("DELETE /servicios/{id}", admin(http.HandlerFunc(handleDeleteServicio(engine))))

	mux.Handle("GET /usuarios", admin(http.HandlerFunc(handleListUsuarios(engine))))
	mux.Handle("POST /usuarios", admin(http.HandlerFunc(handleCreateUsuario(engine))))
	mux.Handle("PUT /usuarios/{id}", admin(http.HandlerFunc(handleUpdateUsuario(engine))))
	mux.Handle("DELETE /usuarios/{id}", admin(http.HandlerFunc(handleDeleteUsuario(engine))))

	return mux
}

func handleLogin(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		identity, err := engine.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, admincore.ErrValidation) {
				status = http.StatusUnprocessableEntity
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, http.StatusOK, identity)
	}
}

func handleLogout(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := engine.Logout(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"redirect": path})
	}
}

func handleListServicios(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		servicios, err := engine.Servicios().List(r.Context())
		if err != nil {
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, servicios)
	}
}

func handleCreateServicio(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.ServicioInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		servicio, err := engine.Servicios().Create(r.Context(), in)
		if err != nil {
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, servicio)
	}
}

func handleUpdateServicio(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.ServicioInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		servicio, err := engine.Servicios().Update(r.Context(), r.PathValue("id"), in)
		if err != nil {
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, servicio)
	}
}

func handleDeleteServicio(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Servicios().Delete(r.Context(), r.PathValue("id")); err != nil {
			proxyError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListUsuarios(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usuarios, err := engine.UsuariosForSalon(r.Context())
		if err != nil {
			if errors.Is(err, admincore.ErrNotAuthenticated) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, usuarios)
	}
}

func handleCreateUsuario(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.UsuarioInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := admincore.ValidateUserForm(userForm(in)); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		usuario, err := engine.Usuarios().Create(r.Context(), in)
		if err != nil {
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, usuario)
	}
}

func handleUpdateUsuario(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.UsuarioInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := admincore.ValidateUserUpdate(userForm(in)); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		usuario, err := engine.Usuarios().Update(r.Context(), r.PathValue("id"), in)
		if err != nil {
			proxyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, usuario)
	}
}

func handleDeleteUsuario(engine *admincore.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Usuarios().Delete(r.Context(), r.PathValue("id")); err != nil {
			proxyError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func userForm(in rest.UsuarioInput) admincore.UserForm {
	return admincore.UserForm{
		Nombre:   in.Nombre,
		Email:    in.Email,
		Telefono: in.Telefono,
		Rol:      in.Rol,
		Password: in.Password,
	}
}

// proxyError relays the upstream status when the failure was a clean API
// rejection, and falls back to 502 for transport problems.
func proxyError(w http.ResponseWriter, err error) {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
		return
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
