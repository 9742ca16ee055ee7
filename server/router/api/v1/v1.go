package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yuin/goldmark"

	"github.com/feeleurope/luxeagent/ai/agent"
	"github.com/feeleurope/luxeagent/ai/lexicon"
	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

// Agent answers a product question.
type Agent interface {
	Handle(ctx context.Context, req agent.Request) (*agent.Response, error)
}

// Catalog is the product snapshot holder. *store.Store implements it.
type Catalog interface {
	store.Provider
	Reload(ctx context.Context) (store.LoadStats, error)
}

// CatalogLoadRecorder observes successful reloads, typically the metrics exporter.
type CatalogLoadRecorder interface {
	RecordCatalogLoad(stats store.LoadStats)
}

type APIV1Service struct {
	Profile  *profile.Profile
	Catalog  Catalog
	Agent    Agent
	Lexicon  *lexicon.Lexicon
	Markdown goldmark.Markdown
	// LoadRecorder may be nil.
	LoadRecorder CatalogLoadRecorder
}

func NewAPIV1Service(profile *profile.Profile, catalog Catalog, agent Agent, lex *lexicon.Lexicon) *APIV1Service {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &APIV1Service{
		Profile:  profile,
		Catalog:  catalog,
		Agent:    agent,
		Lexicon:  lex,
		Markdown: goldmark.New(),
	}
}

// RegisterRoutes mounts the REST API on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo, agentMiddleware ...echo.MiddlewareFunc) {
	corsHandler := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	})

	api := echoServer.Group("/api", corsHandler)
	api.GET("/health", s.Health)
	api.POST("/agent", s.PostAgent, agentMiddleware...)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:produit", s.GetProduct)
	api.POST("/normalize-famille", s.NormalizeFamille)

	if s.Profile.IsDev() {
		api.POST("/admin/reload", s.ReloadCatalog)
	}
}

// errorResponse keeps the {"detail": ...} error shape existing clients parse.
func errorResponse(c echo.Context, code int, detail string) error {
	return c.JSON(code, map[string]string{"detail": detail})
}
