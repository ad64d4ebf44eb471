package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/shavaan/team2-Hack/internal/llm"
)

var ErrNoChoices = errors.New("no choices in openai response")

type cachedPage struct {
	changes []llm.LawChange
	raw     []byte
}

// ExtractChanges implements llm.ChangeExtractor over chat/completions with a
// JSON object response. Identical page text for the same model is served from cache.
func (c *Client) ExtractChanges(ctx context.Context, req llm.ExtractRequest) ([]llm.LawChange, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	key := pageKey(c.cfg.Model, req.PageText)
	if c.pages != nil {
		if v, ok := c.pages.Get(key); ok {
			hit := v.(cachedPage)
			c.log.Debug("llm.extract.cache_hit", "req_id", rid, "page", req.PageIndex, "changes", len(hit.changes))
			return hit.changes, hit.raw, nil
		}
	}

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"page", req.PageIndex,
		"text_len", len(req.PageText),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: llm.BuildSystemPrompt()},
			{Role: goopenai.ChatMessageRoleSystem, Content: "JSON Schema:\n" + mustJSON(c.schemaMap)},
			{Role: goopenai.ChatMessageRoleUser, Content: llm.BuildUserPrompt(req)},
		},
	})
	if err != nil {
		c.log.Error("llm.extract.api_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.log.Error("llm.extract.no_choices", "req_id", rid)
		return nil, nil, ErrNoChoices
	}

	raw := []byte(strings.TrimSpace(resp.Choices[0].Message.Content))

	// Validate strictly first.
	if err := llm.ValidateJSON(c.schema, raw); err != nil {
		if c.cfg.Strict {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", err, "content", string(raw))
			return nil, raw, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, dropped, sErr := llm.NormalizeAndSanitizeJSON(raw, c.log)
		if sErr != nil {
			c.log.Error("llm.extract.sanitize_failed", "req_id", rid, "error", sErr)
			return nil, raw, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateJSON(c.schema, cleaned); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(cleaned))
			return nil, raw, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.extract.lenient_sanitize_applied", "req_id", rid, "dropped", dropped)
		raw = cleaned
	}

	var out llm.PageExtraction
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, raw, fmt.Errorf("decode law changes: %w", err)
	}

	if c.pages != nil {
		c.pages.Set(key, cachedPage{changes: out.LawChanges, raw: raw}, cache.DefaultExpiration)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"page", req.PageIndex,
		"changes", len(out.LawChanges),
		"tokens", resp.Usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.LawChanges, raw, nil
}

func pageKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
