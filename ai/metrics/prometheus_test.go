package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeleurope/luxeagent/ai/cache"
	"github.com/feeleurope/luxeagent/ai/core/llm"
	"github.com/feeleurope/luxeagent/store"
)

func TestPrometheusExporter(t *testing.T) {
	exporter := NewPrometheusExporter(DefaultConfig())

	t.Run("RecordAgentRequest", func(t *testing.T) {
		exporter.RecordAgentRequest("query_price", 100*time.Millisecond, true)
		exporter.RecordAgentRequest("query_price", 200*time.Millisecond, true)
		exporter.RecordAgentRequest("chat", 150*time.Millisecond, false)

		assert.Equal(t, 2.0, testutil.ToFloat64(exporter.agentRequests.WithLabelValues("query_price", "matched")))
		assert.Equal(t, 1.0, testutil.ToFloat64(exporter.agentRequests.WithLabelValues("chat", "unmatched")))
	})

	t.Run("TrackActive", func(t *testing.T) {
		done := exporter.TrackActive()
		assert.Equal(t, 1.0, testutil.ToFloat64(exporter.agentActive))
		done()
		assert.Equal(t, 0.0, testutil.ToFloat64(exporter.agentActive))
	})

	t.Run("RecordCollaboratorFailure", func(t *testing.T) {
		exporter.RecordCollaboratorFailure("search")
		exporter.RecordCollaboratorFailure("search")
		assert.Equal(t, 2.0, testutil.ToFloat64(exporter.collaboratorFailures.WithLabelValues("search")))
	})

	t.Run("RecordLLMCall", func(t *testing.T) {
		exporter.RecordLLMCall("classify", &llm.CallStats{
			Model:            "deepseek-chat",
			PromptTokens:     100,
			CompletionTokens: 20,
			CacheReadTokens:  80,
			TotalDurationMs:  500,
		}, nil)
		exporter.RecordLLMCall("respond", nil, errors.New("timeout"))

		assert.Equal(t, 1.0, testutil.ToFloat64(exporter.llmCalls.WithLabelValues("classify", "success")))
		assert.Equal(t, 1.0, testutil.ToFloat64(exporter.llmCalls.WithLabelValues("respond", "error")))
		assert.Equal(t, 100.0, testutil.ToFloat64(exporter.llmTokensUsed.WithLabelValues("deepseek-chat", "prompt")))
		assert.Equal(t, 80.0, testutil.ToFloat64(exporter.llmTokensCached.WithLabelValues("deepseek-chat")))
	})

	t.Run("RecordCatalogLoad", func(t *testing.T) {
		exporter.RecordCatalogLoad(store.LoadStats{Records: 42, UnmappedFamilies: 3, Duration: time.Second})
		exporter.RecordCatalogLoad(store.LoadStats{Records: 40, UnmappedFamilies: 1})

		assert.Equal(t, 40.0, testutil.ToFloat64(exporter.catalogRecords))
		assert.Equal(t, 4.0, testutil.ToFloat64(exporter.catalogUnmapped))
	})
}

func TestPrometheusExporter_RegisterCache(t *testing.T) {
	exporter := NewPrometheusExporter(DefaultConfig())
	c := cache.New[string, int](10, time.Minute)
	c.Set("a", 1)
	c.Get("a")
	c.Get("b")

	exporter.RegisterCache("intent", c.Stats)
	exporter.RegisterCache("intent", c.Stats)

	families, err := exporter.GetRegistry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["luxeagent_cache_hits_total"])
	assert.Equal(t, 1.0, values["luxeagent_cache_misses_total"])
	assert.Equal(t, 1.0, values["luxeagent_cache_entries"])
}

func TestPrometheusExporterHandler(t *testing.T) {
	exporter := NewPrometheusExporter(DefaultConfig())

	exporter.RecordAgentRequest("query_price", 100*time.Millisecond, true)
	exporter.RecordCollaboratorFailure("responder")
	exporter.RecordLLMCall("classify", &llm.CallStats{Model: "deepseek-chat", PromptTokens: 10}, nil)
	exporter.RecordCatalogLoad(store.LoadStats{Records: 1})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	exporter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, name := range []string{
		"luxeagent_agent_requests_total",
		"luxeagent_agent_collaborator_failures_total",
		"luxeagent_llm_tokens_total",
		"luxeagent_catalog_records",
	} {
		assert.Contains(t, body, name)
	}
}
