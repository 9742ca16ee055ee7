// Package agent answers free-text product questions. It validates and
// normalizes the query, asks the classifier for an intent, ranks the catalog
// and composes the reply, falling back to fixed templates whenever a
// collaborator is missing or fails.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/feeleurope/luxeagent/ai/assistant"
	"github.com/feeleurope/luxeagent/ai/core/llm"
	"github.com/feeleurope/luxeagent/ai/internal/strutil"
	"github.com/feeleurope/luxeagent/ai/observability/logging"
	"github.com/feeleurope/luxeagent/ai/query"
	"github.com/feeleurope/luxeagent/ai/ranking"
	"github.com/feeleurope/luxeagent/ai/routing"
	"github.com/feeleurope/luxeagent/store"
)

// DefaultMaxQueryLength is the longest accepted query, in characters.
const DefaultMaxQueryLength = 300

// Intents produced by the agent itself, next to the routing intents.
const (
	IntentAbout = "about_feel"
	IntentError = "error"
)

// Collaborator names used for failure metrics.
const (
	collabClassifier = "classifier"
	collabResponder  = "responder"
	collabSearch     = "search"
)

// ErrQueryRequired is returned for an empty query.
var ErrQueryRequired = errors.New("query_required")

// Classifier decides the intent of an enhanced query.
type Classifier interface {
	Classify(ctx context.Context, text string) (routing.Decision, error)
}

// Responder writes the conversational reply.
type Responder interface {
	Respond(ctx context.Context, req assistant.Request) (string, error)
}

// Searcher returns formatted web search results for a product query.
type Searcher interface {
	Search(ctx context.Context, q string) (string, error)
}

// Recorder receives per-request metrics.
type Recorder interface {
	RecordAgentRequest(intent string, latency time.Duration, matched bool)
	RecordCollaboratorFailure(collaborator string)
}

// Request is one user turn.
type Request struct {
	// Query is the raw question. When empty the last user message is used.
	Query    string                      `json:"query,omitempty"`
	Messages []assistant.IncomingMessage `json:"messages,omitempty"`
}

// Response is the agent answer.
type Response struct {
	Message    string          `json:"message"`
	Intent     string          `json:"intent,omitempty"`
	Product    string          `json:"product,omitempty"`
	Price      any             `json:"price,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Link       string          `json:"link,omitempty"`
	Matched    bool            `json:"matched"`
	Online     bool            `json:"online"`
	Candidates []ranking.Brief `json:"candidates,omitempty"`
	// InputError marks a rejected query.
	InputError bool `json:"-"`
}

// Config wires the agent. Only Catalog is required.
type Config struct {
	Catalog    store.Provider
	Classifier Classifier
	Responder  Responder
	Searcher   Searcher
	Processor  *query.Processor
	Recorder   Recorder

	MaxQueryLength int
	TopK           int
}

// Agent is safe for concurrent use. All per-request state is local to Handle.
type Agent struct {
	catalog    store.Provider
	classifier Classifier
	responder  Responder
	searcher   Searcher
	processor  *query.Processor
	recorder   Recorder

	maxQueryLength int
	topK           int
}

// New creates an agent.
func New(cfg Config) *Agent {
	if cfg.Processor == nil {
		cfg.Processor = query.Default()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = DefaultMaxQueryLength
	}
	if cfg.TopK <= 0 {
		cfg.TopK = ranking.DefaultTopK
	}
	return &Agent{
		catalog:        cfg.Catalog,
		classifier:     cfg.Classifier,
		responder:      cfg.Responder,
		searcher:       cfg.Searcher,
		processor:      cfg.Processor,
		recorder:       cfg.Recorder,
		maxQueryLength: cfg.MaxQueryLength,
		topK:           cfg.TopK,
	}
}

// Handle runs the pipeline for one request. The only error is
// ErrQueryRequired, returned together with an input-error response.
// Collaborator failures never surface as errors.
func (a *Agent) Handle(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	log := logging.FromContext(ctx)

	history := assistant.NormalizeMessages(req.Messages)
	raw := req.Query
	if raw == "" {
		raw = assistant.LastUserContent(history)
	}
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return &Response{Message: ErrQueryRequired.Error(), Intent: IntentError, InputError: true}, ErrQueryRequired
	}
	if n := utf8.RuneCountInString(raw); n > a.maxQueryLength {
		log.Warn("query too long", "runes", n)
		resp := &Response{Message: msgTooLong, Intent: IntentError, InputError: true}
		a.recorder.RecordAgentRequest(resp.Intent, time.Since(start), false)
		return resp, nil
	}

	processed := a.processor.Process(raw, start)
	if IsAboutTopic(processed.Cleaned) {
		resp := &Response{Message: FeelIntro, Intent: IntentAbout}
		a.recorder.RecordAgentRequest(resp.Intent, time.Since(start), false)
		return resp, nil
	}

	enhanced := processed.WithType
	decision := a.classify(ctx, enhanced)
	log.Info("agent: intent classified",
		"intent", decision.Intent,
		"hint", strutil.Truncate(decision.Hint, 60),
		"query", strutil.Truncate(enhanced, 60),
		"brand", processed.Brand.Brand,
	)

	var resp *Response
	switch decision.Intent {
	case routing.IntentChat, routing.IntentOther:
		reply := a.respond(ctx, assistant.Request{Query: raw, History: history, Intent: string(decision.Intent)})
		resp = conversationResponse(decision, reply)
	case routing.IntentQueryPriceOnline:
		resp = a.onlinePrice(ctx, raw, history, enhanced, decision)
	default:
		resp = a.localPrice(ctx, raw, history, decision)
	}

	a.recorder.RecordAgentRequest(resp.Intent, time.Since(start), resp.Matched)
	return resp, nil
}

// classify never fails: a missing classifier or an error yields the default decision.
func (a *Agent) classify(ctx context.Context, enhanced string) routing.Decision {
	if a.classifier == nil {
		return routing.DefaultDecision(enhanced)
	}
	d, err := a.classifier.Classify(ctx, enhanced)
	if err != nil {
		logging.FromContext(ctx).Warn("agent: classifier failed, using default intent", "error", err)
		a.recorder.RecordCollaboratorFailure(collabClassifier)
		return routing.DefaultDecision(enhanced)
	}
	d.Intent = routing.ParseIntent(string(d.Intent))
	if d.Hint = strings.TrimSpace(d.Hint); d.Hint == "" {
		d.Hint = enhanced
	}
	return d
}

// respond returns the responder reply, or "" when there is none. A failure is
// logged and counted, then treated like an empty reply.
func (a *Agent) respond(ctx context.Context, req assistant.Request) string {
	if a.responder == nil {
		return ""
	}
	reply, err := a.responder.Respond(ctx, req)
	if err != nil {
		logging.FromContext(ctx).Warn("agent: responder failed", "intent", req.Intent, "error", err)
		a.recorder.RecordCollaboratorFailure(collabResponder)
		return ""
	}
	return strings.TrimSpace(reply)
}

// rank scores the current snapshot against the classifier hint.
func (a *Agent) rank(hint string) []ranking.Candidate {
	if a.catalog == nil {
		return nil
	}
	lookup := strings.ToLower(a.processor.SubstituteBrands(hint))
	return ranking.Rank(a.catalog.Snapshot().Records, lookup, a.topK)
}

func (a *Agent) search(ctx context.Context, q string) string {
	if a.searcher == nil {
		return ""
	}
	text, err := a.searcher.Search(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Warn("agent: web search failed", "query", strutil.Truncate(q, 60), "error", err)
		a.recorder.RecordCollaboratorFailure(collabSearch)
		return ""
	}
	return text
}

func (a *Agent) localPrice(ctx context.Context, raw string, history []llm.Message, d routing.Decision) *Response {
	candidates := a.rank(d.Hint)
	briefs := ranking.ToBriefs(candidates)

	reply := a.respond(ctx, assistant.Request{
		Query:      raw,
		History:    history,
		Intent:     string(d.Intent),
		Candidates: briefs,
	})

	return priceResponse(d.Intent, candidates, reply, false)
}

// onlinePrice ranks the catalog and searches the web concurrently. Neither
// task fails the group: both degrade to empty results.
func (a *Agent) onlinePrice(ctx context.Context, raw string, history []llm.Message, enhanced string, d routing.Decision) *Response {
	searchQuery := d.Hint
	if searchQuery == "" {
		searchQuery = enhanced
	}
	searchQuery = a.processor.InjectProductType(searchQuery)

	var (
		candidates []ranking.Candidate
		searchText string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidates = a.rank(d.Hint)
		return nil
	})
	g.Go(func() error {
		searchText = a.search(gctx, searchQuery)
		return nil
	})
	_ = g.Wait()

	slog.Debug("agent: online lookup done",
		"candidates", len(candidates),
		"search_text_len", len(searchText),
	)

	reply := a.respond(ctx, assistant.Request{
		Query:      raw,
		History:    history,
		Intent:     string(d.Intent),
		Candidates: ranking.ToBriefs(candidates),
		SearchText: searchText,
	})

	return priceResponse(d.Intent, candidates, reply, true)
}

type nopRecorder struct{}

func (nopRecorder) RecordAgentRequest(string, time.Duration, bool) {}
func (nopRecorder) RecordCollaboratorFailure(string)               {}
