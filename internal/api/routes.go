package api

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *AuthHandler
	Espacios  *EspacioHandler
	Vehiculos *VehiculoHandler
}

// Authenticator wraps the routes that need a session. *auth.Tokens implements it.
type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

func NewRouter(h Handlers, authn Authenticator, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(logger))

	// Public endpoints
	r.HandleFunc("/api/auth/registro", h.Auth.Register).Methods("POST")
	r.HandleFunc("/api/auth/activar/{token}", h.Auth.Activate).Methods("GET")
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/api/auth/recuperar", h.Auth.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/restablecer", h.Auth.ResetPassword).Methods("POST")

	r.HandleFunc("/api/espacios", h.Espacios.Search).Methods("GET")
	r.HandleFunc("/api/espacios/{id:[0-9]+}", h.Espacios.Get).Methods("GET")
	r.HandleFunc("/api/espacios/{id:[0-9]+}/horarios", h.Espacios.Schedules).Methods("GET")
	r.HandleFunc("/api/espacios/{id:[0-9]+}/tarifas", h.Espacios.Rates).Methods("GET")
	r.HandleFunc("/api/tipos-vehiculo", h.Vehiculos.VehicleTypes).Methods("GET")

	// Session endpoints (protected)
	private := r.PathPrefix("/api").Subrouter()
	private.Use(authn.Middleware)
	private.HandleFunc("/espacios", h.Espacios.Create).Methods("POST")
	private.HandleFunc("/espacios/usuario/{id:[0-9]+}", h.Espacios.ListByUser).Methods("GET")
	private.HandleFunc("/espacios/{id:[0-9]+}", h.Espacios.Update).Methods("PUT")
	private.HandleFunc("/espacios/{id:[0-9]+}/mapa", h.Espacios.UpdateLayout).Methods("PUT")
	private.HandleFunc("/espacios/{id:[0-9]+}", h.Espacios.Delete).Methods("DELETE")

	private.HandleFunc("/vehiculos", h.Vehiculos.List).Methods("GET")
	private.HandleFunc("/vehiculos", h.Vehiculos.Create).Methods("POST")
	private.HandleFunc("/vehiculos/{id:[0-9]+}", h.Vehiculos.Update).Methods("PUT")
	private.HandleFunc("/vehiculos/{id:[0-9]+}", h.Vehiculos.Delete).Methods("DELETE")
	private.HandleFunc("/estadisticas/usuario/{id:[0-9]+}", h.Vehiculos.Statistics).Methods("GET")

	return r
}

// WithCORS allows the listed origins to call the API from a browser.
func WithCORS(next http.Handler, origins []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(next)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
