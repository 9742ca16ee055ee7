package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeleurope/luxeagent/ai/assistant"
	"github.com/feeleurope/luxeagent/ai/routing"
	"github.com/feeleurope/luxeagent/plugin/websearch"
	"github.com/feeleurope/luxeagent/store"
)

type fakeCatalog struct {
	snap *store.Snapshot
}

func (c fakeCatalog) Snapshot() *store.Snapshot { return c.snap }

func newCatalog(records ...store.Record) fakeCatalog {
	return fakeCatalog{snap: store.NewSnapshot(records, "test", time.Now())}
}

func testCatalog() fakeCatalog {
	return newCatalog(
		store.Record{"produit": "REF001", "designation": "Lady Dior Bag", "Marque": "dior", "Prix_Vente": float64(5900), "Lien_Externe": "https://www.dior.com/fr_fr/lady"},
		store.Record{"produit": "REF002", "designation": "Dior Book Tote", "Marque": "dior", "Prix_Vente": float64(3500)},
		store.Record{"produit": "GG001", "designation": "Gucci Jackie 1961", "Marque": "gucci", "prix_achat": float64(2100)},
	)
}

type fakeClassifier struct {
	mu       sync.Mutex
	decision routing.Decision
	err      error
	inputs   []string
}

func (c *fakeClassifier) Classify(_ context.Context, text string) (routing.Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, text)
	return c.decision, c.err
}

func (c *fakeClassifier) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

type fakeResponder struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []assistant.Request
}

func (r *fakeResponder) Respond(_ context.Context, req assistant.Request) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

type fakeSearcher struct {
	text    string
	err     error
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, q string) (string, error) {
	s.queries = append(s.queries, q)
	return s.text, s.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests map[string]int
	failures map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{requests: map[string]int{}, failures: map[string]int{}}
}

func (r *fakeRecorder) RecordAgentRequest(intent string, _ time.Duration, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[intent]++
}

func (r *fakeRecorder) RecordCollaboratorFailure(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[name]++
}

func TestHandle_InputErrors(t *testing.T) {
	classifier := &fakeClassifier{}
	a := New(Config{Catalog: testCatalog(), Classifier: classifier})

	t.Run("empty", func(t *testing.T) {
		resp, err := a.Handle(context.Background(), Request{Query: "   "})
		assert.ErrorIs(t, err, ErrQueryRequired)
		require.NotNil(t, resp)
		assert.True(t, resp.InputError)
		assert.Equal(t, IntentError, resp.Intent)
	})

	t.Run("too long", func(t *testing.T) {
		resp, err := a.Handle(context.Background(), Request{Query: strings.Repeat("包", 301)})
		require.NoError(t, err)
		assert.Equal(t, IntentError, resp.Intent)
		assert.Equal(t, msgTooLong, resp.Message)
	})

	assert.Zero(t, classifier.calls())

	t.Run("limit is inclusive", func(t *testing.T) {
		resp, err := a.Handle(context.Background(), Request{Query: strings.Repeat("包", 300)})
		require.NoError(t, err)
		assert.NotEqual(t, IntentError, resp.Intent)
		assert.Equal(t, 1, classifier.calls())
	})
}

func TestHandle_QueryFromMessages(t *testing.T) {
	classifier := &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "REF002"}}
	a := New(Config{Catalog: testCatalog(), Classifier: classifier})

	resp, err := a.Handle(context.Background(), Request{Messages: []assistant.IncomingMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "  ref002  "},
		{Role: "system", Content: "ignored"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ref002"}, classifier.inputs)
	assert.Equal(t, "REF002", resp.Reference)
}

func TestHandle_AboutTopic(t *testing.T) {
	classifier := &fakeClassifier{}
	rec := newFakeRecorder()
	a := New(Config{Catalog: testCatalog(), Classifier: classifier, Recorder: rec})

	resp, err := a.Handle(context.Background(), Request{Query: "介绍一下你自己"})
	require.NoError(t, err)
	assert.Equal(t, IntentAbout, resp.Intent)
	assert.Equal(t, FeelIntro, resp.Message)
	assert.Zero(t, classifier.calls())
	assert.Equal(t, 1, rec.requests[IntentAbout])
}

func TestHandle_ClassifierInput(t *testing.T) {
	classifier := &fakeClassifier{decision: routing.Decision{Intent: routing.IntentChat}}
	a := New(Config{Catalog: testCatalog(), Classifier: classifier})

	_, err := a.Handle(context.Background(), Request{Query: "  迪奥   包？ "})
	require.NoError(t, err)
	require.Len(t, classifier.inputs, 1)
	assert.Equal(t, "dior 包? bag", classifier.inputs[0])
}

func TestHandle_ClassifierFailureDefaultsToLocalLookup(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("provider down")}
	rec := newFakeRecorder()
	a := New(Config{Catalog: testCatalog(), Classifier: classifier, Recorder: rec})

	resp, err := a.Handle(context.Background(), Request{Query: "REF001"})
	require.NoError(t, err)
	assert.Equal(t, string(routing.IntentQueryPrice), resp.Intent)
	assert.True(t, resp.Matched)
	assert.Equal(t, "REF001", resp.Reference)
	assert.Equal(t, 1, rec.failures[collabClassifier])
}

func TestHandle_NoClassifier(t *testing.T) {
	a := New(Config{Catalog: testCatalog()})

	resp, err := a.Handle(context.Background(), Request{Query: "gucci jackie"})
	require.NoError(t, err)
	assert.Equal(t, string(routing.IntentQueryPrice), resp.Intent)
	assert.Equal(t, "GG001", resp.Reference)
	assert.Equal(t, float64(2100), resp.Price)
	assert.False(t, resp.Online)
}

func TestHandle_Chat(t *testing.T) {
	tests := []struct {
		name      string
		decision  routing.Decision
		responder *fakeResponder
		want      string
	}{
		{
			name:      "responder reply",
			decision:  routing.Decision{Intent: routing.IntentChat, Message: "classifier says hi"},
			responder: &fakeResponder{reply: "  您好，請問想找哪款商品？ "},
			want:      "您好，請問想找哪款商品？",
		},
		{
			name:      "classifier message",
			decision:  routing.Decision{Intent: routing.IntentChat, Message: "classifier says hi"},
			responder: &fakeResponder{err: errors.New("timeout")},
			want:      "classifier says hi",
		},
		{
			name:      "chat default",
			decision:  routing.Decision{Intent: routing.IntentChat},
			responder: &fakeResponder{},
			want:      msgChatDefault,
		},
		{
			name:      "other default",
			decision:  routing.Decision{Intent: routing.IntentOther},
			responder: &fakeResponder{},
			want:      msgOtherDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(Config{
				Catalog:    testCatalog(),
				Classifier: &fakeClassifier{decision: tt.decision},
				Responder:  tt.responder,
			})
			resp, err := a.Handle(context.Background(), Request{Query: "你好"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Message)
			assert.Equal(t, string(tt.decision.Intent), resp.Intent)
			assert.False(t, resp.Matched)
			assert.Nil(t, resp.Price)

			require.Len(t, tt.responder.reqs, 1)
			assert.Equal(t, "你好", tt.responder.reqs[0].Query)
			assert.Empty(t, tt.responder.reqs[0].Candidates)
			assert.Empty(t, tt.responder.reqs[0].SearchText)
		})
	}
}

func TestHandle_LocalPrice(t *testing.T) {
	t.Run("responder gets candidates", func(t *testing.T) {
		responder := &fakeResponder{reply: "Lady Dior 售價 5900€"}
		searcher := &fakeSearcher{text: "should not be used"}
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "迪奥 lady"}},
			Responder:  responder,
			Searcher:   searcher,
		})

		resp, err := a.Handle(context.Background(), Request{Query: "迪奥 lady 多少钱"})
		require.NoError(t, err)
		assert.Equal(t, "Lady Dior 售價 5900€", resp.Message)
		assert.Equal(t, "Lady Dior Bag", resp.Product)
		assert.True(t, resp.Matched)
		assert.False(t, resp.Online)
		assert.Empty(t, searcher.queries)

		require.Len(t, responder.reqs, 1)
		req := responder.reqs[0]
		assert.Equal(t, "query_price", req.Intent)
		assert.Empty(t, req.SearchText)
		require.NotEmpty(t, req.Candidates)
		assert.Equal(t, "REF001", req.Candidates[0].Reference)
	})

	t.Run("responder failure with match", func(t *testing.T) {
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "REF001"}},
			Responder:  &fakeResponder{err: errors.New("boom")},
		})

		resp, err := a.Handle(context.Background(), Request{Query: "REF001 price"})
		require.NoError(t, err)
		assert.Equal(t, "您好！為您查詢到 **Lady Dior Bag**\n💰 價格：5900€\n📦 參考號：REF001\n🔗 https://www.dior.com/fr_fr/lady", resp.Message)
		assert.Equal(t, float64(5900), resp.Price)
		assert.Equal(t, "https://www.dior.com/fr_fr/lady", resp.Link)
	})

	t.Run("not found", func(t *testing.T) {
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "hermes birkin"}},
			Responder:  &fakeResponder{},
		})

		resp, err := a.Handle(context.Background(), Request{Query: "hermes birkin"})
		require.NoError(t, err)
		assert.Equal(t, msgNotFoundLocal, resp.Message)
		assert.Equal(t, unknownPrice, resp.Price)
		assert.False(t, resp.Matched)
	})

	t.Run("not found and responder failed", func(t *testing.T) {
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "hermes birkin"}},
			Responder:  &fakeResponder{err: errors.New("boom")},
		})

		resp, err := a.Handle(context.Background(), Request{Query: "hermes birkin"})
		require.NoError(t, err)
		assert.Equal(t, msgNotFoundLocal, resp.Message)
		assert.Equal(t, unknownPrice, resp.Price)
	})
}

func TestHandle_OnlinePrice(t *testing.T) {
	t.Run("search text reaches responder", func(t *testing.T) {
		responder := &fakeResponder{reply: "官網售價 6200€"}
		searcher := &fakeSearcher{text: "標題: Lady Dior\n摘要: 6 200 €\n鏈接: https://www.dior.com/fr_fr/lady"}
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPriceOnline, Hint: "dior 包"}},
			Responder:  responder,
			Searcher:   searcher,
		})

		resp, err := a.Handle(context.Background(), Request{Query: "在線查詢迪奥包"})
		require.NoError(t, err)
		assert.Equal(t, "官網售價 6200€", resp.Message)
		assert.True(t, resp.Online)
		assert.Equal(t, []string{"dior 包 bag"}, searcher.queries)
		require.Len(t, responder.reqs, 1)
		assert.Contains(t, responder.reqs[0].SearchText, "6 200 €")
	})

	t.Run("search failure degrades", func(t *testing.T) {
		rec := newFakeRecorder()
		responder := &fakeResponder{}
		a := New(Config{
			Catalog:    testCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPriceOnline, Hint: "celine triomphe"}},
			Responder:  responder,
			Searcher:   &fakeSearcher{err: errors.New("quota")},
			Recorder:   rec,
		})

		resp, err := a.Handle(context.Background(), Request{Query: "在線查詢celine triomphe"})
		require.NoError(t, err)
		assert.Equal(t, msgNotFoundOnline, resp.Message)
		assert.True(t, resp.Online)
		assert.Equal(t, 1, rec.failures[collabSearch])
		require.Len(t, responder.reqs, 1)
		assert.Empty(t, responder.reqs[0].SearchText)
	})

	t.Run("responder failure without match", func(t *testing.T) {
		a := New(Config{
			Catalog:    newCatalog(),
			Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPriceOnline, Hint: "prada re-edition"}},
			Responder:  &fakeResponder{err: errors.New("boom")},
		})

		resp, err := a.Handle(context.Background(), Request{Query: "在線查詢prada re-edition"})
		require.NoError(t, err)
		assert.Equal(t, msgNotFoundOnline, resp.Message)
		assert.True(t, resp.Online)
	})
}

// A responder error reads exactly like an empty reply to the user.
func TestHandle_ResponderErrorMatchesEmptyReply(t *testing.T) {
	for _, intent := range []routing.Intent{routing.IntentQueryPrice, routing.IntentQueryPriceOnline} {
		t.Run(string(intent), func(t *testing.T) {
			handle := func(responder *fakeResponder, rec *fakeRecorder) *Response {
				a := New(Config{
					Catalog:    testCatalog(),
					Classifier: &fakeClassifier{decision: routing.Decision{Intent: intent, Hint: "hermes birkin"}},
					Responder:  responder,
					Searcher:   &fakeSearcher{},
					Recorder:   rec,
				})
				resp, err := a.Handle(context.Background(), Request{Query: "hermes birkin"})
				require.NoError(t, err)
				return resp
			}

			failedRec := newFakeRecorder()
			failed := handle(&fakeResponder{err: errors.New("timeout")}, failedRec)
			empty := handle(&fakeResponder{}, newFakeRecorder())

			assert.Equal(t, empty.Message, failed.Message)
			assert.False(t, failed.Matched)
			assert.Equal(t, 1, failedRec.failures[collabResponder])
		})
	}
}

// The web search query for a new-arrivals question is rewritten even when the
// catalog has nothing to offer.
func TestHandle_OnlineLatestOnEmptyCatalog(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"Gucci Winter","link":"https://www.gucci.com/fr/fr/new","snippet":"2 900 €"}]}`))
	}))
	defer srv.Close()

	searcher := websearch.NewClient(websearch.Config{
		APIKey:   "k",
		EngineID: "cx",
		BaseURL:  srv.URL,
		Now:      func() time.Time { return time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC) },
	}, nil)
	responder := &fakeResponder{}
	a := New(Config{
		Catalog:    newCatalog(),
		Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPriceOnline, Hint: "最新 gucci"}},
		Responder:  responder,
		Searcher:   searcher,
	})

	resp, err := a.Handle(context.Background(), Request{Query: "在線查詢最新 gucci"})
	require.NoError(t, err)
	assert.Equal(t, "new 最新 gucci collection Winter 2026 site:gucci.com", gotQuery.Load())
	assert.False(t, resp.Matched)
	assert.True(t, resp.Online)
	assert.Equal(t, msgNotFoundOnline, resp.Message)

	require.Len(t, responder.reqs, 1)
	assert.Contains(t, responder.reqs[0].SearchText, "標題: Gucci Winter")
}

func TestHandle_Concurrent(t *testing.T) {
	rec := newFakeRecorder()
	a := New(Config{
		Catalog:    testCatalog(),
		Classifier: &fakeClassifier{decision: routing.Decision{Intent: routing.IntentQueryPrice, Hint: "dior"}},
		Responder:  &fakeResponder{},
		Recorder:   rec,
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.Handle(context.Background(), Request{Query: "dior"})
			assert.NoError(t, err)
			assert.True(t, resp.Matched)
			assert.Equal(t, "REF001", resp.Reference)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, rec.requests[string(routing.IntentQueryPrice)])
}
