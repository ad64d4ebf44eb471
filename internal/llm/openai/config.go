package openai

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/santhosh-tekuri/jsonschema/v5"
	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/shavaan/team2-Hack/internal/llm"
)

// Config for the OpenAI client.
type Config struct {
	APIKey            string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL           string        // default https://api.openai.com/v1
	Model             string        // e.g., "gpt-4o-mini"
	Temperature       float32       // 0..2
	Timeout           time.Duration // per-call timeout
	RequestsPerSecond float64       // <= 0 disables rate limiting
	Burst             int
	CacheTTL          time.Duration // <= 0 disables the page cache
	Strict            bool          // skip the lenient sanitize pass on schema failures
}

type Client struct {
	cfg       Config
	api       *goopenai.Client
	limiter   *rate.Limiter
	pages     *cache.Cache
	schemaMap map[string]any
	schema    *jsonschema.Schema
	log       *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	var pages *cache.Cache
	if cfg.CacheTTL > 0 {
		pages = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	schemaMap := llm.BuildLawChangeJSONSchema()
	schema, err := llm.CompileSchema(schemaMap)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:       cfg,
		api:       goopenai.NewClientWithConfig(apiCfg),
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		pages:     pages,
		schemaMap: schemaMap,
		schema:    schema,
		log:       logger,
	}, nil
}

// Model returns the configured chat model.
func (c *Client) Model() string { return c.cfg.Model }
