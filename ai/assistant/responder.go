// Package assistant writes the conversational reply from catalog candidates
// and web search results.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feeleurope/luxeagent/ai/core/llm"
	"github.com/feeleurope/luxeagent/ai/internal/strutil"
	"github.com/feeleurope/luxeagent/ai/ranking"
)

const (
	// DefaultTemperature keeps replies close to the supplied facts.
	DefaultTemperature = 0.4

	maxSearchTextLen = 6000
)

// Request is everything the responder may use for one reply.
type Request struct {
	Query      string
	History    []llm.Message
	Intent     string
	Candidates []ranking.Brief
	SearchText string
}

// Responder produces the assistant reply.
type Responder struct {
	llm         llm.Service
	model       string
	temperature float32
	recorder    llm.Recorder
}

// NewResponder creates a responder. An empty model uses the service default.
func NewResponder(service llm.Service, model string, recorder llm.Recorder) *Responder {
	return &Responder{
		llm:         service,
		model:       model,
		temperature: DefaultTemperature,
		recorder:    recorder,
	}
}

// Respond returns the trimmed model reply.
func (r *Responder) Respond(ctx context.Context, req Request) (string, error) {
	messages, err := BuildMessages(req)
	if err != nil {
		return "", err
	}

	opts := []llm.CallOption{llm.WithTemperature(r.temperature)}
	if r.model != "" {
		opts = append(opts, llm.WithModel(r.model))
	}

	content, stats, err := r.llm.Chat(ctx, messages, opts...)
	if r.recorder != nil {
		r.recorder.RecordLLMCall("respond", stats, err)
	}
	if err != nil {
		return "", fmt.Errorf("assistant reply failed: %w", err)
	}

	reply := strings.TrimSpace(content)
	slog.Debug("assistant replied", "intent", req.Intent, "reply", strutil.Truncate(reply, 80))
	return reply, nil
}

// contextPayload is shown to the model as reference material.
type contextPayload struct {
	Intent        string          `json:"intent"`
	Query         string          `json:"query"`
	Candidates    []ranking.Brief `json:"candidates"`
	OnlineResults string          `json:"onlineResults"`
	PriceEvidence []string        `json:"priceEvidence"`
}

// BuildMessages assembles the prompt: persona, price rule, reference payload,
// recent history and the user query unless history already ends with it.
func BuildMessages(req Request) ([]llm.Message, error) {
	payload := contextPayload{
		Intent:        req.Intent,
		Query:         req.Query,
		Candidates:    req.Candidates,
		OnlineResults: strutil.Head(req.SearchText, maxSearchTextLen),
		PriceEvidence: ExtractPriceEvidence(req.SearchText),
	}
	if payload.Intent == "" {
		payload.Intent = "unknown"
	}
	if payload.Candidates == nil {
		payload.Candidates = []ranking.Brief{}
	}
	if payload.PriceEvidence == nil {
		payload.PriceEvidence = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("failed to encode reply context: %w", err)
	}

	history := PickRecent(req.History, MaxHistory)
	messages := make([]llm.Message, 0, len(history)+4)
	messages = append(messages,
		llm.SystemPrompt(systemPrompt),
		llm.SystemPrompt(priceRulePrompt),
		llm.SystemPrompt(contextPromptPrefix+strings.TrimRight(buf.String(), "\n")),
	)
	messages = append(messages, history...)

	last := messages[len(messages)-1]
	if last.Role != "user" || last.Content != req.Query {
		messages = append(messages, llm.UserMessage(req.Query))
	}
	return messages, nil
}
