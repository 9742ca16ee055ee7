package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol)
	LLMProvider string // deepseek, openai, siliconflow, dashscope, openrouter, ollama
	LLMAPIKey   string
	LLMBaseURL  string // optional, has default per provider
	LLMModel    string
	LLMTimeout  int // seconds

	// IntentModel overrides LLMModel for intent classification.
	IntentModel string

	// Web search (Google Custom Search)
	SearchAPIKey   string
	SearchEngineID string

	// Catalog source
	CatalogPath   string // JSON file used by the json driver
	CatalogURL    string // downloaded into CatalogPath when the file is missing
	CatalogBearer string

	// LexiconPath points to an optional YAML file extending the brand tables.
	LexiconPath string

	Mode           string
	Addr           string
	Port           int
	Data           string
	Driver         string // json, sqlite, postgres
	DSN            string
	Version        string
	LogLevel       string
	MaxQueryLength int
	RateLimit      float64 // agent requests per second per client, 0 disables

	// Cache lifetimes, zero uses the component default.
	ClassifierCacheTTL time.Duration
	SearchCacheTTL     time.Duration
}

// DefaultSearchEngineID is the public product search engine.
const DefaultSearchEngineID = "764a84f1e63f549d8"

// DefaultMaxQueryLength is the longest accepted query in characters.
const DefaultMaxQueryLength = 300

// Provider default configurations for LLM.
// Used when the base URL or model is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "deepseek-ai/DeepSeek-V3",
	},
	"dashscope": {
		BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		Model:   "qwen-max-latest",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "deepseek/deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// IsSearchEnabled returns true if the web search key is configured.
func (p *Profile) IsSearchEnabled() bool {
	return p.SearchAPIKey != ""
}

// getEnvOrDefault keeps current when it is already set, otherwise returns the
// first non-empty environment variable among keys.
func getEnvOrDefault(current string, keys ...string) string {
	if current != "" {
		return current
	}
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// getEnvOrDefaultDuration parses a Go duration string such as "10m".
func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables. Values already set
// from flags are kept.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault(p.LLMProvider, "LUXEAGENT_LLM_PROVIDER")
	if p.LLMProvider == "" {
		p.LLMProvider = "deepseek"
	}
	p.LLMAPIKey = getEnvOrDefault(p.LLMAPIKey, "LUXEAGENT_LLM_API_KEY", "DEEPSEEK_API_KEY", "Deepseek_API_KEY")
	p.LLMBaseURL = getEnvOrDefault(p.LLMBaseURL, "LUXEAGENT_LLM_BASE_URL", "DEEPSEEK_BASE_URL")
	p.LLMModel = getEnvOrDefault(p.LLMModel, "LUXEAGENT_LLM_MODEL")
	p.LLMTimeout = getEnvOrDefaultInt("LUXEAGENT_LLM_TIMEOUT_SECONDS", 60)
	p.IntentModel = getEnvOrDefault(p.IntentModel, "LUXEAGENT_INTENT_MODEL")

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: deepseek", "provider", p.LLMProvider)
		p.LLMProvider = "deepseek"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}
	if p.IntentModel == "" {
		p.IntentModel = p.LLMModel
	}

	p.SearchAPIKey = getEnvOrDefault(p.SearchAPIKey, "LUXEAGENT_SEARCH_API_KEY", "GOOGLE_SEARCH_API_KEY", "Google_Search_API_KEY")
	p.SearchEngineID = getEnvOrDefault(p.SearchEngineID, "LUXEAGENT_SEARCH_ENGINE_ID", "GOOGLE_SEARCH_ENGINE_ID")
	if p.SearchEngineID == "" {
		p.SearchEngineID = DefaultSearchEngineID
	}

	p.CatalogPath = getEnvOrDefault(p.CatalogPath, "LUXEAGENT_CATALOG_PATH", "PRODUCTS_JSON_PATH")
	p.CatalogURL = getEnvOrDefault(p.CatalogURL, "LUXEAGENT_CATALOG_URL", "PRODUCTS_DATA_URL")
	p.CatalogBearer = getEnvOrDefault(p.CatalogBearer, "LUXEAGENT_CATALOG_BEARER", "PRODUCTS_DATA_BEARER", "HF_DATA_TOKEN")

	if p.MaxQueryLength <= 0 {
		p.MaxQueryLength = getEnvOrDefaultInt("LUXEAGENT_MAX_QUERY_LENGTH", DefaultMaxQueryLength)
	}
	if p.RateLimit <= 0 {
		if v, err := strconv.ParseFloat(os.Getenv("LUXEAGENT_RATE_LIMIT"), 64); err == nil {
			p.RateLimit = v
		}
	}
	if p.ClassifierCacheTTL <= 0 {
		p.ClassifierCacheTTL = getEnvOrDefaultDuration("LUXEAGENT_CLASSIFIER_CACHE_TTL", 0)
	}
	if p.SearchCacheTTL <= 0 {
		p.SearchCacheTTL = getEnvOrDefaultDuration("LUXEAGENT_SEARCH_CACHE_TTL", 0)
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "luxeagent")
		} else {
			p.Data = "/var/opt/luxeagent"
		}
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
				return err
			}
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.MaxQueryLength <= 0 {
		p.MaxQueryLength = DefaultMaxQueryLength
	}

	switch p.Driver {
	case "", "json":
		p.Driver = "json"
		if p.CatalogPath == "" {
			p.CatalogPath = filepath.Join(dataDir, "products.json")
		}
	case "sqlite":
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("luxeagent_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn required for postgres driver")
		}
	default:
		return errors.Errorf("unsupported catalog driver %q", p.Driver)
	}

	return nil
}
