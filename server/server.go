package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/feeleurope/luxeagent/ai/agent"
	"github.com/feeleurope/luxeagent/ai/assistant"
	"github.com/feeleurope/luxeagent/ai/core/llm"
	"github.com/feeleurope/luxeagent/ai/lexicon"
	"github.com/feeleurope/luxeagent/ai/metrics"
	"github.com/feeleurope/luxeagent/ai/observability/logging"
	"github.com/feeleurope/luxeagent/ai/query"
	"github.com/feeleurope/luxeagent/ai/routing"
	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/plugin/websearch"
	apiv1 "github.com/feeleurope/luxeagent/server/router/api/v1"
	"github.com/feeleurope/luxeagent/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store
	Metrics *metrics.PrometheusExporter
	Agent   *agent.Agent

	echoServer *echo.Echo
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, lex *lexicon.Lexicon) (*Server, error) {
	if lex == nil {
		lex = lexicon.Default()
	}
	s := &Server{
		Profile: profile,
		Store:   store,
		Metrics: metrics.NewPrometheusExporter(metrics.DefaultConfig()),
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			req := c.Request()
			logger := slog.Default().With("request_id", requestID)
			c.SetRequest(req.WithContext(logging.ToContext(req.Context(), logger)))
		},
	}))
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	echoServer.Use(middleware.BodyLimit("1M"))
	s.echoServer = echoServer

	processor := query.NewProcessor(lex)
	llmService := s.newLLMService()
	s.Agent = agent.New(agent.Config{
		Catalog:        store,
		Classifier:     s.newClassifier(llmService),
		Responder:      s.newResponder(llmService),
		Searcher:       s.newSearcher(processor),
		Processor:      processor,
		Recorder:       s.Metrics,
		MaxQueryLength: profile.MaxQueryLength,
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, store, s.Agent, lex)
	apiV1Service.LoadRecorder = s.Metrics
	apiV1Service.RegisterRoutes(echoServer, s.agentRateLimiter()...)

	echoServer.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	return s, nil
}

// newLLMService creates the chat client shared by the classifier and the
// responder. Nil when no key is configured.
func (s *Server) newLLMService() llm.Service {
	if !s.Profile.IsAIEnabled() {
		slog.Info("AI features disabled, replies use templates only")
		return nil
	}
	svc, err := llm.NewService(&llm.Config{
		Provider: s.Profile.LLMProvider,
		Model:    s.Profile.LLMModel,
		APIKey:   s.Profile.LLMAPIKey,
		BaseURL:  s.Profile.LLMBaseURL,
		Timeout:  s.Profile.LLMTimeout,
	})
	if err != nil {
		slog.Warn("Failed to initialize LLM service", "provider", s.Profile.LLMProvider, "error", err)
		return nil
	}
	slog.Info("LLM service initialized", "provider", s.Profile.LLMProvider, "model", s.Profile.LLMModel)

	// Warmup is best-effort and must not delay startup.
	go func() {
		warmupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc.Warmup(warmupCtx)
	}()
	return svc
}

func (s *Server) newClassifier(svc llm.Service) agent.Classifier {
	if svc == nil {
		return nil
	}
	cached := routing.NewCachedClassifier(
		routing.NewLLMClassifier(svc, s.Profile.IntentModel, s.Metrics),
		routing.CacheConfig{TTL: s.Profile.ClassifierCacheTTL},
	)
	s.Metrics.RegisterCache("classifier", cached.Stats)
	return cached
}

func (s *Server) newResponder(svc llm.Service) agent.Responder {
	if svc == nil {
		return nil
	}
	return assistant.NewResponder(svc, s.Profile.LLMModel, s.Metrics)
}

func (s *Server) newSearcher(processor *query.Processor) agent.Searcher {
	if !s.Profile.IsSearchEnabled() {
		slog.Info("Web search disabled, no search API key")
		return nil
	}
	client := websearch.NewClient(websearch.Config{
		APIKey:   s.Profile.SearchAPIKey,
		EngineID: s.Profile.SearchEngineID,
		CacheTTL: s.Profile.SearchCacheTTL,
	}, processor)
	s.Metrics.RegisterCache("search", client.CacheStats)
	return client
}

// agentRateLimiter limits /api/agent per client IP when a rate is configured.
func (s *Server) agentRateLimiter() []echo.MiddlewareFunc {
	if s.Profile.RateLimit <= 0 {
		return nil
	}
	limiterStore := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.Profile.RateLimit),
		Burst:     max(1, int(s.Profile.RateLimit*2)),
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: limiterStore,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"detail": "too_many_requests"})
		},
	})}
}

// Handler exposes the echo router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}

	go func() {
		if err := s.echoServer.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}
	slog.Info("server stopped properly")
}
