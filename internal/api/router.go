package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eyeclinic/clinic-system/docs"
	"github.com/eyeclinic/clinic-system/internal/api/handler"
	"github.com/eyeclinic/clinic-system/internal/api/middleware"
	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
	"github.com/eyeclinic/clinic-system/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Logger        zerolog.Logger
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Examinations  ports.ExaminationService
	Directory     ports.DirectoryService
	Gate          ports.AccessGate
	Health        []handlers.Dependency
	CORSOrigins   []string
	Cookie        handler.CookieConfig

	// MetricsRegisterer receives the HTTP request metrics. Nil means the
	// default Prometheus registerer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	reg := d.MetricsRegisterer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	examHandler := handler.NewExaminationHandler(d.Examinations)
	dirHandler := handler.NewDirectoryHandler(d.Directory)
	authMiddleware := middleware.Auth(d.Authenticator)

	// --- Health, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Optometrist portal ---
	opt := e.Group("/optometrist/api")
	opt.POST("/register", authHandler.RegisterOptometrist)
	opt.POST("/login", authHandler.LoginFor(domain.RoleOptometrist))
	opt.GET("/list", dirHandler.ListOptometrists)
	opt.POST("/exams/create", examHandler.Create,
		authMiddleware,
		middleware.RBAC(domain.RoleOptometrist),
		middleware.Allow(d.Gate, domain.ResourceExamination, domain.ActionCreate))
	opt.GET("/new-examination", dirHandler.NewExaminationContext,
		authMiddleware,
		middleware.RBAC(domain.RoleOptometrist),
		middleware.Allow(d.Gate, domain.ResourceExamination, domain.ActionCreate))
	opt.GET("/:id", dirHandler.GetOptometrist)

	// --- Doctor portal ---
	doc := e.Group("/doctor/api")
	doc.POST("/login", authHandler.LoginFor(domain.RoleDoctor))
	doc.GET("/list", dirHandler.ListDoctors,
		authMiddleware,
		middleware.Allow(d.Gate, domain.ResourceDoctorDirectory, domain.ActionList))
	doc.GET("/dashboard", examHandler.DoctorDashboard, authMiddleware, middleware.RBAC(domain.RoleDoctor))
	// Ownership of the examination is checked by the service once it is loaded.
	doc.POST("/exams/:id/consult", examHandler.Consult, authMiddleware, middleware.RBAC(domain.RoleDoctor))

	// --- Patient portal ---
	pat := e.Group("/patient/api")
	pat.POST("/register", authHandler.RegisterPatient)
	pat.POST("/login", authHandler.LoginFor(domain.RolePatient))
	pat.GET("/dashboard", examHandler.PatientDashboard, authMiddleware, middleware.RBAC(domain.RolePatient))

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
