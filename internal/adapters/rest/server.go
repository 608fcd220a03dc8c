package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// ServerConfig - параметры HTTP-сервера.
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

// Handlers - обработчики всех маршрутов.
type Handlers struct {
	Properties *PropertyHandler
	Images     *ImageHandler
	Leads      *LeadHandler
	Ops        *OpsHandler
	Media      *MediaHandler
}

func NewServer(cfg ServerConfig, handlers Handlers, accessPolicy port.AccessPolicyPort, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, handlers, accessPolicy, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// NewRouter собирает маршруты. Все ops-маршруты проходят через одну политику доступа.
func NewRouter(cfg ServerConfig, h Handlers, accessPolicy port.AccessPolicyPort, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Ops-Key", "X-Trace-ID"},
			ExposedHeaders:   []string{"X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, OkResponse{Ok: true})
	})
	r.Get("/media/*", h.Media.ServeMedia)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/properties", h.Properties.FindProperties)
		r.Post("/properties", h.Properties.SubmitListing)
		r.Get("/properties/{propertyID}", h.Properties.GetPropertyDetails)
		r.Get("/properties/{propertyID}/images", h.Properties.ListPropertyImages)
		r.Post("/properties/{propertyID}/images", h.Images.UploadPropertyImage)
		r.Post("/uploads/hero", h.Images.UploadHeroImage)
		r.Post("/leads", h.Leads.CaptureLead)

		r.Route("/ops", func(r chi.Router) {
			if h.Ops.sessionsEnabled() {
				r.Post("/session", h.Ops.Login)
				r.Delete("/session", h.Ops.Logout)
			}

			r.With(OpsAccess(accessPolicy, "")).Get("/health", h.Ops.Health)
			r.With(OpsAccess(accessPolicy, domain.CapabilityReadLeads)).Get("/leads", h.Ops.ListLeads)
			r.With(OpsAccess(accessPolicy, domain.CapabilityReviewListings)).Get("/properties", h.Ops.ListProperties)
			r.With(OpsAccess(accessPolicy, domain.CapabilityVerifyListings)).Patch("/properties/{propertyID}/verification", h.Ops.SetVerification)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
