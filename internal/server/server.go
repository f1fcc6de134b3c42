package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/illuzioner/chat-relay/internal/config"
	"github.com/illuzioner/chat-relay/internal/logger"
	"github.com/illuzioner/chat-relay/internal/metrics"
	"github.com/illuzioner/chat-relay/internal/provider/echo"
	"github.com/illuzioner/chat-relay/internal/provider/openai"
	"github.com/illuzioner/chat-relay/internal/relay"
	"github.com/illuzioner/chat-relay/internal/routing"
)

const defaultShutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	router *routing.Router
	relay  *relay.Relay
	logger *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	rt := routing.New()
	rt.Register("openai", openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.UpstreamTimeout))
	rt.Register("echo", echo.New())
	prov := rt.ProviderFor(cfg.Provider)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(corsHeaders(), requestLogger(log), recovery(log))

	srv := &Server{
		cfg:    cfg,
		engine: r,
		router: rt,
		logger: log,
		relay: relay.New(relay.Options{
			Provider:     prov,
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.Model,
			SystemPrompt: cfg.SystemPrompt,
			Logger:       log,
		}),
	}
	srv.registerRoutes()

	log.Info("relay configured",
		zap.String("provider", prov.Name()),
		zap.Strings("available", rt.Names()),
		zap.String("model", cfg.Model),
		zap.Bool("credential_set", cfg.OpenAIAPIKey != ""),
	)
	return srv
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.health)

	api := s.engine.Group("/api")
	api.POST("/chat", s.chat)
	api.OPTIONS("/chat", s.preflight)

	if s.cfg.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, relay.ErrorBody{Error: "Not found"})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, relay.ErrorBody{Error: "Method not allowed"})
	})
}

// Handler exposes the engine for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) chat(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.fail(c, relay.NewError(relay.MalformedRequestError, "Could not read request body", err))
		return
	}

	reply, err := s.relay.Handle(c.Request.Context(), raw)
	if err != nil {
		s.fail(c, err)
		return
	}
	metrics.ObserveRequest(http.StatusOK)
	c.JSON(http.StatusOK, reply)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := relay.StatusOf(err)
	metrics.ObserveRequest(status)

	var re *relay.Error
	if errors.As(err, &re) && re.Kind != relay.UpstreamError {
		// upstream failures are already logged by the relay
		logger.FromContext(c.Request.Context(), s.logger).Warn("chat request rejected",
			zap.Stringer("kind", re.Kind),
			zap.String("error", re.Message),
		)
	}
	c.JSON(status, relay.ErrorBody{Error: err.Error()})
}
