package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feeleurope/luxeagent/store"
)

const (
	maxPageLimit     = 500
	listCacheControl = "public, max-age=300"
)

// ProductPage is the paginated product list envelope.
type ProductPage struct {
	Items []store.Record `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

// ListProducts handles GET /api/products. Without both page and limit the
// whole (filtered) catalog is returned as a plain array.
func (s *APIV1Service) ListProducts(c echo.Context) error {
	page, err := optionalInt(c.QueryParam("page"), 1, 0)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "page must be an integer >= 1")
	}
	limit, err := optionalInt(c.QueryParam("limit"), 1, maxPageLimit)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "limit must be an integer between 1 and 500")
	}

	snap := s.Catalog.Snapshot()
	products := snap.Records
	if brand := c.QueryParam("brand"); brand != "" {
		products = snap.FilterByBrand(brand)
	}
	if slim, _ := strconv.ParseBool(c.QueryParam("slim")); slim {
		slimmed := make([]store.Record, len(products))
		for i, p := range products {
			slimmed[i] = p.Slim()
		}
		products = slimmed
	}
	if products == nil {
		products = []store.Record{}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, listCacheControl)
	if page == 0 || limit == 0 {
		return c.JSON(http.StatusOK, products)
	}

	total := len(products)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return c.JSON(http.StatusOK, ProductPage{
		Items: products[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	})
}

// GetProduct handles GET /api/products/:produit.
func (s *APIV1Service) GetProduct(c echo.Context) error {
	rec, ok := s.Catalog.Snapshot().FindByReference(c.Param("produit"))
	if !ok {
		return errorResponse(c, http.StatusNotFound, "商品未找到")
	}
	return c.JSON(http.StatusOK, rec)
}

// optionalInt parses an optional integer parameter. Empty returns 0. hi <= 0
// means unbounded.
func optionalInt(raw string, lo, hi int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < lo || (hi > 0 && n > hi) {
		return 0, strconv.ErrRange
	}
	return n, nil
}
