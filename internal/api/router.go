package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	API     *API
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	a := cfg.API

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(a.LoggingMiddleware)

	// Health and metrics
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/login", a.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(a.Authenticate)
				r.Get("/profile", a.handleGetProfile)
				r.Put("/profile", a.handleUpdateProfile)
				r.Get("/notifications", a.handleListNotifications)
				r.Put("/notifications/{id}", a.handleMarkNotificationRead)
			})
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", a.handleSearchDoctors)

			r.Group(func(r chi.Router) {
				r.Use(a.Authenticate)
				r.Post("/apply", a.handleApplyDoctor)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.Authenticate, a.RequireDoctor)
				r.Put("/profile", a.handleUpdateDoctorProfile)
				r.Get("/appointments/list", a.handleDoctorAppointments)
				r.Put("/appointments/{id}", a.handleUpdateAppointmentStatus)
			})

			r.Get("/{id}", a.handleGetDoctor)
			r.Get("/{id}/slots", a.handleDoctorSlots)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Use(a.Authenticate)
			r.Post("/", a.handleBookAppointment)
			r.Get("/my-appointments", a.handleMyAppointments)
			r.Put("/{id}/cancel", a.handleCancelAppointment)
			r.Put("/{id}/reschedule", a.handleRescheduleAppointment)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(a.Authenticate, a.RequireAdmin)
			r.Get("/users", a.handleAdminListUsers)
			r.Get("/doctors", a.handleAdminListDoctors)
			r.Put("/doctors/{id}/status", a.handleAdminReviewDoctor)
			r.Get("/appointments", a.handleAdminListAppointments)
			r.Get("/stats", a.handleAdminStats)
		})
	})

	return r
}
