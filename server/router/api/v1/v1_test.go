package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeleurope/luxeagent/ai/agent"
	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

type fakeCatalog struct {
	snap      *store.Snapshot
	reloadErr error
	reloads   int
}

func (c *fakeCatalog) Snapshot() *store.Snapshot { return c.snap }

func (c *fakeCatalog) Reload(context.Context) (store.LoadStats, error) {
	c.reloads++
	if c.reloadErr != nil {
		return store.LoadStats{}, c.reloadErr
	}
	return store.LoadStats{Records: c.snap.Len(), UniqueReferences: c.snap.Len(), Source: "test"}, nil
}

type fakeLoadRecorder struct{ loads []store.LoadStats }

func (r *fakeLoadRecorder) RecordCatalogLoad(stats store.LoadStats) { r.loads = append(r.loads, stats) }

func newTestCatalog() *fakeCatalog {
	records := []store.Record{
		{"produit": "REF001", "designation": "Lady Dior Bag", "Marque": "Dior", "Prix_Vente": float64(5900), "Famille": "Bags", "internal_note": "x"},
		{"produit": "REF002", "designation": "Book Tote", "Marque": "dior ", "Prix_Vente": float64(3500)},
		{"produit": "GG001", "designation": "Jackie 1961", "Marque": "Gucci", "prix_achat": float64(2100)},
	}
	return &fakeCatalog{snap: store.NewSnapshot(records, "test", time.Now())}
}

func newTestServer(t *testing.T, mode string) (*echo.Echo, *fakeCatalog, *APIV1Service) {
	t.Helper()
	catalog := newTestCatalog()
	a := agent.New(agent.Config{Catalog: catalog})
	svc := NewAPIV1Service(&profile.Profile{Mode: mode, Version: "0.1.0"}, catalog, a, nil)
	e := echo.New()
	svc.RegisterRoutes(e)
	return e, catalog, svc
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	e, _, _ := newTestServer(t, "prod")

	rec := do(t, e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "0.1.0", body["version"])
	assert.Equal(t, float64(3), body["products"])
}

func TestPostAgent(t *testing.T) {
	e, _, _ := newTestServer(t, "prod")

	t.Run("empty query", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent", `{"query":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "query_required", decode[map[string]string](t, rec)["detail"])
	})

	t.Run("bad body", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too long is not an http error", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent", `{"query":"`+strings.Repeat("a", 301)+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, agent.IntentError, decode[map[string]any](t, rec)["intent"])
	})

	t.Run("lookup", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent", `{"query":"REF001"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "query_price", body["intent"])
		assert.Equal(t, "REF001", body["reference"])
		assert.Equal(t, float64(5900), body["price"])
		assert.Equal(t, true, body["matched"])
		assert.Equal(t, false, body["online"])
		assert.NotContains(t, body, "messageHtml")
	})

	t.Run("query from messages", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent", `{"messages":[{"role":"user","content":"gg001"},{"role":"user","content":42}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "GG001", decode[map[string]any](t, rec)["reference"])
	})

	t.Run("render html", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/api/agent?render=html", `{"query":"REF001"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Contains(t, body["messageHtml"], "<strong>Lady Dior Bag</strong>")
	})
}

func TestListProducts(t *testing.T) {
	e, _, _ := newTestServer(t, "prod")

	t.Run("all", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/products", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, max-age=300", rec.Header().Get(echo.HeaderCacheControl))
		assert.Len(t, decode[[]map[string]any](t, rec), 3)
	})

	t.Run("brand and slim", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/products?brand=DIOR&slim=true", "")
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]map[string]any](t, rec)
		require.Len(t, items, 2)
		assert.NotContains(t, items[0], "internal_note")
		assert.Equal(t, "Bags", items[0]["Famille"])
	})

	t.Run("unknown brand", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/products?brand=chanel", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("paginated", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/products?page=2&limit=2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[ProductPage](t, rec)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Pages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "GG001", page.Items[0].Reference())
	})

	t.Run("page past the end", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/api/products?page=9&limit=2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[ProductPage](t, rec).Items)
	})

	for _, target := range []string{"/api/products?limit=501&page=1", "/api/products?page=0&limit=1", "/api/products?limit=x"} {
		t.Run("invalid "+target, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, target, "").Code)
		})
	}
}

func TestGetProduct(t *testing.T) {
	e, _, _ := newTestServer(t, "prod")

	rec := do(t, e, http.MethodGet, "/api/products/ref002", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book Tote", decode[map[string]any](t, rec)["designation"])

	rec = do(t, e, http.MethodGet, "/api/products/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "商品未找到", decode[map[string]string](t, rec)["detail"])
}

func TestNormalizeFamille(t *testing.T) {
	e, _, _ := newTestServer(t, "prod")

	rec := do(t, e, http.MethodPost, "/api/normalize-famille", `{"famille":"Sacs à main"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Sacs à main", body["original"])
	assert.Equal(t, "Bags", body["normalized"])
}

func TestReloadCatalog(t *testing.T) {
	t.Run("prod has no admin route", func(t *testing.T) {
		e, catalog, _ := newTestServer(t, "prod")
		rec := do(t, e, http.MethodPost, "/api/admin/reload", "")
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rec.Code)
		assert.Zero(t, catalog.reloads)
	})

	t.Run("dev", func(t *testing.T) {
		e, catalog, svc := newTestServer(t, "dev")
		recorder := &fakeLoadRecorder{}
		svc.LoadRecorder = recorder

		rec := do(t, e, http.MethodPost, "/api/admin/reload", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(3), decode[map[string]any](t, rec)["records"])
		assert.Equal(t, 1, catalog.reloads)
		assert.Len(t, recorder.loads, 1)

		catalog.reloadErr = errors.New("disk gone")
		rec = do(t, e, http.MethodPost, "/api/admin/reload", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Len(t, recorder.loads, 1)
	})
}
