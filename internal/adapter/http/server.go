package adapthttp

import (
	"net/http"

	"bodymetrics/internal/app"
	"bodymetrics/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the application services the HTTP adapter drives.
type Services struct {
	Users        *app.UserService
	Types        *app.MeasurementTypeService
	Measurements *app.MeasurementService
	Goals        *app.GoalService
	Progress     *app.ProgressService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc      Services
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	webDir   string
}

// New creates a Server wired to the given application services. mm and
// gatherer may be nil, which disables request metrics and /metrics.
func New(svc Services, mm *metrics.Manager, gatherer prometheus.Gatherer, webDir string) *Server {
	return &Server{svc: svc, metrics: mm, gatherer: gatherer, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods("GET")

	api.HandleFunc("/users", s.handleUsersList).Methods("GET")
	api.HandleFunc("/users", s.handleUsersCreate).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}", s.handleUsersUpdate).Methods("PUT")
	api.HandleFunc("/users/{id:[0-9]+}", s.handleUsersDelete).Methods("DELETE")
	api.HandleFunc("/users/{id:[0-9]+}/measurement-type-order", s.handleTypeOrderGet).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}/measurement-type-order", s.handleTypeOrderSet).Methods("PUT")

	api.HandleFunc("/measurement-types", s.handleTypesList).Methods("GET")
	api.HandleFunc("/measurement-types", s.handleTypesCreate).Methods("POST")
	api.HandleFunc("/measurement-types/{id:[0-9]+}", s.handleTypesUpdate).Methods("PUT")
	api.HandleFunc("/measurement-types/{id:[0-9]+}", s.handleTypesDelete).Methods("DELETE")

	api.HandleFunc("/measurements", s.handleMeasurementsList).Methods("GET")
	api.HandleFunc("/measurements", s.handleMeasurementsCreate).Methods("POST")
	api.HandleFunc("/measurements/{id:[0-9]+}", s.handleMeasurementsUpdate).Methods("PUT", "PATCH")
	api.HandleFunc("/measurements/{id:[0-9]+}", s.handleMeasurementsDelete).Methods("DELETE")

	api.HandleFunc("/goals", s.handleGoalsList).Methods("GET")
	api.HandleFunc("/goals", s.handleGoalsCreate).Methods("POST")
	api.HandleFunc("/goals/{id:[0-9]+}", s.handleGoalsUpdate).Methods("PUT")
	api.HandleFunc("/goals/{id:[0-9]+}", s.handleGoalsDelete).Methods("DELETE")

	api.HandleFunc("/progress", s.handleProgress).Methods("GET")
	api.HandleFunc("/progress/{typeId:[0-9]+}/chart", s.handleProgressChart).Methods("GET")
	api.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	r.PathPrefix("/").Handler(spaFromDisk(s.webDir)).Methods("GET", "HEAD")

	r.Use(s.panicRecovery)
	r.Use(s.loggingMiddleware)
	r.Use(s.requestMetrics)
	r.Use(withNoCache)
	return r
}
