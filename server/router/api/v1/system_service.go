package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feeleurope/luxeagent/ai/observability/logging"
)

// Health handles GET /api/health.
func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok":       true,
		"version":  s.Profile.Version,
		"products": s.Catalog.Snapshot().Len(),
	})
}

type normalizeFamilleRequest struct {
	Famille string `json:"famille"`
}

type normalizeFamilleResponse struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
}

// NormalizeFamille handles POST /api/normalize-famille.
func (s *APIV1Service) NormalizeFamille(c echo.Context) error {
	var req normalizeFamilleRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, normalizeFamilleResponse{
		Original:   req.Famille,
		Normalized: s.Lexicon.NormalizeFamily(req.Famille),
	})
}

// ReloadCatalog handles POST /api/admin/reload. Only mounted in dev mode.
func (s *APIV1Service) ReloadCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := s.Catalog.Reload(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("catalog reload failed", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "reload failed")
	}
	if s.LoadRecorder != nil {
		s.LoadRecorder.RecordCatalogLoad(stats)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"records":           stats.Records,
		"unique_references": stats.UniqueReferences,
		"unmapped_families": stats.UnmappedFamilies,
		"source":            stats.Source,
	})
}
