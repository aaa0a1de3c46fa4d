package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jobportal/portal/docs"
	"github.com/jobportal/portal/internal/api/handler"
	"github.com/jobportal/portal/internal/api/middleware"
	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

// Deps are the collaborators the shell server routes to.
type Deps struct {
	Auth  ports.AuthService
	Jobs  ports.JobService
	Store ports.SessionStore
	Log   zerolog.Logger

	// Ready lists the dependencies /health/ready pings. The session store is
	// always included.
	Ready map[string]handler.Pinger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "jobportal_shell",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/shell/events"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Store)
	profileHandler := handler.NewProfileHandler(deps.Auth)
	shellHandler := handler.NewShellHandler(deps.Store, deps.Log)
	jobHandler := handler.NewJobHandler(deps.Jobs)
	applicationHandler := handler.NewApplicationHandler(deps.Jobs)
	sessionMiddleware := middleware.Session(deps.Store)

	ready := map[string]handler.Pinger{"session": deps.Store}
	for name, p := range deps.Ready {
		ready[name] = p
	}

	// --- Health checks, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session ---
	e.POST("/auth/:role/login", authHandler.Login)
	e.POST("/auth/:role/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Layout shell ---
	e.GET("/shell", shellHandler.Shell)
	e.GET("/shell/events", shellHandler.Events)

	// --- Public job board ---
	e.GET("/jobs", jobHandler.List)
	e.GET("/jobs/:id", jobHandler.Get)

	// --- Employer area ---
	admin := e.Group("/admin", sessionMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/profile", profileHandler.Get)
	admin.PUT("/profile", profileHandler.Update)
	admin.POST("/profile/picture", profileHandler.UploadPicture)
	admin.GET("/jobs", jobHandler.Mine)
	admin.POST("/jobs", jobHandler.Post)
	admin.PUT("/jobs/:id", jobHandler.Update)
	admin.PATCH("/jobs/:id/active", jobHandler.SetActive)
	admin.DELETE("/jobs/:id", jobHandler.Delete)
	admin.GET("/jobs/:id/applications", applicationHandler.ForJob)
	admin.GET("/applications", applicationHandler.All)
	admin.PUT("/applications/:id/status", applicationHandler.UpdateStatus)
	admin.POST("/applications/status", applicationHandler.BulkUpdateStatus)

	// --- Job seeker area ---
	employee := e.Group("/employee", sessionMiddleware, middleware.RBAC(domain.RoleEmployee))
	employee.GET("/profile", profileHandler.Get)
	employee.PUT("/profile", profileHandler.Update)
	employee.POST("/profile/picture", profileHandler.UploadPicture)
	employee.POST("/jobs/:jobId/apply", applicationHandler.Apply)
	employee.GET("/applications", applicationHandler.Mine)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "shell_http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/health")
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
