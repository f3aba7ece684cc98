package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/xavierca1/cohort-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	Leads      *LeadHandler
	Activities *ActivityHandler
	FollowUps  *FollowUpHandler
	Analytics  *AnalyticsHandler
	Gallabox   *GallaboxHandler
	Webhooks   *WebhookHandler
	Health     *HealthHandler

	// FormsLimiter é opcional; limita o POST público do Google Forms.
	FormsLimiter *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(30 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	if h := cfg.Leads; h != nil {
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Get("/{id}/activities", h.ListActivities)
		})
	}

	if h := cfg.Activities; h != nil {
		r.Post("/activities", h.Create)
		r.Put("/activities/{id}", h.Update)
		r.Delete("/activities/{id}", h.Delete)
	}

	if h := cfg.FollowUps; h != nil {
		r.Get("/follow-ups", h.List)
		r.Post("/follow-ups", h.Create)
		r.Put("/follow-ups", h.Update)
	}

	if h := cfg.Analytics; h != nil {
		r.Get("/analytics/funnel", h.Funnel)
		r.Get("/analytics/conversion", h.Conversion)
		r.Get("/analytics/dashboard", h.Dashboard)
	}

	if h := cfg.Gallabox; h != nil {
		r.Post("/gallabox/send-message", h.SendMessage)
		r.Post("/gallabox/campaign", h.CreateCampaign)
	}

	if h := cfg.Webhooks; h != nil {
		r.Post("/webhooks/gallabox", h.Gallabox)
		r.Get("/webhooks/google-forms", h.GoogleFormsPing)
		r.Group(func(r chi.Router) {
			if cfg.FormsLimiter != nil {
				r.Use(cfg.FormsLimiter.Middleware)
			}
			r.Post("/webhooks/google-forms", h.GoogleForms)
		})
	}

	return r
}
