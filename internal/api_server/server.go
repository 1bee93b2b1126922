package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kubev2v/capacity-planner/internal/config"
	handlers "github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/pkg/log"
	"github.com/kubev2v/capacity-planner/pkg/metrics"
	"github.com/kubev2v/capacity-planner/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
	readHeaderTimeout       = 10 * time.Second
)

type Server struct {
	cfg      *config.Config
	planner  *service.PlannerService
	listener net.Listener
}

// New returns a new instance of a capacity-planner server.
func New(
	cfg *config.Config,
	planner *service.PlannerService,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		planner:  planner,
		listener: listener,
	}
}

// Handler builds the router. The metric middleware registers its collectors
// on the default registry.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		chiMiddleware.RequestID,
		middleware.RequestID,
		log.Logger(zap.L(), "http"),
		chiMiddleware.Recoverer,
		middleware.MaxBodySize(s.cfg.Service.MaxUploadSize),
	)

	h := handlers.NewServiceHandler(s.planner, handlers.WithMaxUploadSize(s.cfg.Service.MaxUploadSize))
	h.RegisterRoutes(router)

	return router
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	srv := http.Server{
		Addr:              s.cfg.Service.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
