package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/feeleurope/luxeagent/ai/core/llm"
)

// classifierPrompt asks for a JSON object with intent, hint and message.
var classifierPrompt = strings.Join([]string{
	"你是意圖分類器，請輸出 JSON，不要輸出其他內容。",
	"字段: intent (query_price_online/query_price/chat/other), hint (提取的商品名稱或參考號，若無則空字符串), message (非查價時給用戶的簡短中文回覆)。",
	"判斷規則：",
	`- query_price_online: 用戶明確要求"在線查詢"、"上網查"、"搜索"等關鍵詞，且包含商品信息`,
	"- query_price: 用戶想查價格，但沒有明確要求在線查詢",
	"- chat: 用戶只是問候/閒聊/無商品信息",
	"- other: 其他情況",
	`如果 intent=chat，message 應為："您好，我是Feel智能助手，您可以給我商品具體名稱或者識別碼我來幫您查詢它們對應的價格，如果您想要我在線查詢某個商品的信息請說在線查詢XX品牌的商品"`,
	"不可編造商品或價格。",
}, "\n")

// Classifier turns a query into a Decision.
type Classifier interface {
	Classify(ctx context.Context, text string) (Decision, error)
}

// LLMClassifier classifies with a chat model in JSON mode.
type LLMClassifier struct {
	llm      llm.Service
	model    string
	recorder llm.Recorder
}

// NewLLMClassifier creates a classifier. An empty model uses the service default.
func NewLLMClassifier(service llm.Service, model string, recorder llm.Recorder) *LLMClassifier {
	return &LLMClassifier{llm: service, model: model, recorder: recorder}
}

// Classify returns an error when the model call fails or the reply is not
// a JSON object. Missing fields fall back to DefaultDecision values.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (Decision, error) {
	opts := []llm.CallOption{llm.WithTemperature(0), llm.WithJSONResponse(), llm.WithMaxTokens(256)}
	if c.model != "" {
		opts = append(opts, llm.WithModel(c.model))
	}

	raw, stats, err := c.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(classifierPrompt),
		llm.UserMessage(text),
	}, opts...)
	if c.recorder != nil {
		c.recorder.RecordLLMCall("classify", stats, err)
	}
	if err != nil {
		return Decision{}, fmt.Errorf("intent classification failed: %w", err)
	}

	d, err := ParseDecision(raw, text)
	if err != nil {
		return Decision{}, err
	}
	slog.Debug("intent classified", "query", truncate(text, 80), "intent", d.Intent, "hint", truncate(d.Hint, 80))
	return d, nil
}

// rawDecision accepts any JSON type for the fields, the model is not strict.
type rawDecision struct {
	Intent  any `json:"intent"`
	Hint    any `json:"hint"`
	Message any `json:"message"`
}

// ParseDecision decodes a classifier reply. An empty hint falls back to text.
func ParseDecision(raw, text string) (Decision, error) {
	var rd rawDecision
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &rd); err != nil {
		return Decision{}, fmt.Errorf("invalid classifier reply: %w", err)
	}

	d := Decision{
		Intent:  ParseIntent(asString(rd.Intent)),
		Hint:    strings.TrimSpace(asString(rd.Hint)),
		Message: asString(rd.Message),
	}
	if d.Hint == "" {
		d.Hint = text
	}
	return d, nil
}

// extractJSONObject strips code fences or chatter around the object.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
