package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/student-realestate/internal/config"
	"github.com/shinyyama/student-realestate/internal/handler"
	"github.com/shinyyama/student-realestate/internal/metrics"
	appmw "github.com/shinyyama/student-realestate/internal/middleware"
	"github.com/shinyyama/student-realestate/internal/service"
	"go.uber.org/zap"
)

type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Listings service.ListingService
	Contacts service.ContactService
	Blobs    handler.BlobReader
	DB       handler.Pinger
	// Auth guards moderation routes. Nil leaves every route open.
	Auth *appmw.AuthMiddleware
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func New(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(d.Log))
	e.Use(d.Metrics.Middleware())
	e.Use(echomw.CORSWithConfig(corsConfig(d.Config.AllowedOrigins)))
	e.Use(echomw.BodyLimit(d.Config.BodyLimit))

	listings := handler.NewListingHandler(d.Listings, d.Log)
	contacts := handler.NewContactHandler(d.Contacts, d.Log)
	uploads := handler.NewUploadHandler(d.Blobs, d.Log)
	health := handler.NewHealthHandler(d.DB)

	var admin []echo.MiddlewareFunc
	if d.Auth != nil {
		admin = append(admin, d.Auth.RequireAdmin)
	}

	e.GET("/healthz", health.Health)
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	e.GET("/uploads/*", uploads.Serve)

	// Literal segments are registered before /:id.
	re := e.Group("/real-estate")
	re.POST("/add", listings.Create)
	re.GET("/all", listings.ListAll, admin...)
	re.GET("/active", listings.ListActive)
	re.POST("/contact", contacts.Create)
	re.GET("/contacts", contacts.List, admin...)
	re.GET("/contacts/:id", contacts.Get, admin...)
	re.POST("/contacts/:id", contacts.SetStatus, admin...)
	re.DELETE("/contacts/:id", contacts.Delete, admin...)
	re.GET("/:id", listings.Get)
	re.POST("/:id", listings.SetStatus, admin...)
	re.DELETE("/:id", listings.Delete, admin...)

	return &Server{e: e, log: d.Log}
}

func corsConfig(origins []string) echomw.CORSConfig {
	cfg := echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}
	for _, o := range origins {
		if o == "*" {
			return cfg
		}
	}
	cfg.AllowCredentials = true
	return cfg
}

// errorHandler renders errors that escape handlers (unknown routes, wrong methods,
// body limit, panics) in the response envelope.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := handler.MsgInternal
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
				msg = m
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, handler.NewErrorResponse(msg))
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
