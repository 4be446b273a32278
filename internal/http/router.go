package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/coursehub/internal/cache"
	"github.com/geocoder89/coursehub/internal/catalog"
	"github.com/geocoder89/coursehub/internal/config"
	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/geocoder89/coursehub/internal/http/handlers"
	"github.com/geocoder89/coursehub/internal/http/middlewares"
	"github.com/geocoder89/coursehub/internal/observability"
	"github.com/geocoder89/coursehub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Deps struct {
	Log     *slog.Logger
	Cfg     config.Config
	Session *session.Store
	Catalog *catalog.Store

	// Prom and Gatherer are optional; without them /metrics is not mounted.
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// Ping checks the storage backend for /readyz.
	Ping func(ctx context.Context) error
	// ShuttingDown flips /readyz to 503 while the server drains.
	ShuttingDown func() bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.Cfg.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Notices())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// ops
	h := handlers.NewHealthHandler(d.Ping, d.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// wire up handlers
	homeHandler := handlers.NewHomeHandler(d.Session, d.Catalog)
	sessionHandler := handlers.NewSessionHandler(d.Session)
	coursesHandler := handlers.NewCoursesHandler(d.Catalog, cache.New(d.Cfg.CatalogCacheTTL))
	myCoursesHandler := handlers.NewMyCoursesHandler(d.Catalog)
	adminHandler := handlers.NewAdminHandler(d.Catalog)

	guard := middlewares.NewSessionGuard(d.Session)

	limit := d.Cfg.AuthRateLimit
	if limit <= 0 {
		limit = 10
	}
	authLimiter := middlewares.NewRateLimiter(limit, d.Cfg.AuthRateWindow)

	r.GET("/", homeHandler.Home)

	// session routes
	r.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), sessionHandler.Login)
	r.POST("/signup", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), sessionHandler.SignUp)
	r.POST("/logout", sessionHandler.Logout)
	r.GET("/session", sessionHandler.Current)

	// catalog
	r.GET("/courses", coursesHandler.ListCourses)
	r.GET("/courses/:id", coursesHandler.GetCourseByID)

	// enrollments of the current session
	mine := r.Group("/my-courses", guard.RequireSession())
	{
		mine.GET("", myCoursesHandler.List)
		mine.POST("", myCoursesHandler.Enroll)
		mine.GET("/:courseId", myCoursesHandler.Get)
		mine.PATCH("/:courseId", myCoursesHandler.Update)
		mine.DELETE("/:courseId", myCoursesHandler.Unenroll)
	}

	admin := r.Group("/admin", guard.RequireSession(), guard.RequireRole(string(user.RoleAdmin)))
	{
		admin.GET("", adminHandler.Dashboard)
		admin.POST("/courses", adminHandler.CreateCourse)
	}

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusNotFound, "not_found", "Page not found", gin.H{"redirect": "/"})
	})

	return r
}
