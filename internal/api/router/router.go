package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thewellnesslondon/wellness-connect/internal/http/handlers"
	httpmiddleware "github.com/thewellnesslondon/wellness-connect/internal/http/middleware"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	Qualification   *handlers.QualificationHandler
	Scheduling      *handlers.SchedulingHandler
	MetricsHandler  http.Handler
	StaffAuthSecret string
}

// New creates the Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(api chi.Router) {
			if cfg.Qualification != nil {
				api.Post("/qualification/analyze", cfg.Qualification.Analyze)
			}
			if cfg.Scheduling != nil {
				api.Route("/appointments", func(appt chi.Router) {
					appt.Get("/availability", cfg.Scheduling.Availability)
					appt.Post("/", cfg.Scheduling.Book)
					appt.Post("/{id}/reschedule", cfg.Scheduling.Reschedule)
					appt.Post("/{id}/cancel", cfg.Scheduling.Cancel)
				})
			}
		})
	})

	// Staff endpoints behind JWT auth
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))
		if cfg.Qualification != nil {
			admin.Get("/qualification/leads", cfg.Qualification.QualifiedLeads)
			admin.Get("/qualification/{subjectID}/report", cfg.Qualification.Report)
		}
		if cfg.Scheduling != nil {
			admin.Get("/schedule/{date}", cfg.Scheduling.DailySchedule)
		}
	})

	return r
}
