package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

var fieldSynonyms = map[string]string{
	"state":             "jurisdiction",
	"jurisdiction_code": "jurisdiction",
	"effective_date":    "date",
	"date_changed":      "date",
	"effective":         "date",
	"description":       "summary",
	"change":            "summary",
}

// NormalizeAndSanitizeJSON
// - Strips markdown code fences around the payload
// - Accepts "changes" or a bare array in place of "law_changes"
// - Renames known synonyms (state -> jurisdiction, effective_date -> date)
// - Drops unknown keys and items missing a required field
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw = stripFences(raw)

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var items []any
	switch t := top.(type) {
	case []any:
		items = t
	case map[string]any:
		switch v := firstPresent(t, "law_changes", "changes", "items").(type) {
		case []any:
			items = v
		case nil:
			items = nil
		default:
			return nil, nil, fmt.Errorf("sanitize: law_changes is %T, want array", v)
		}
	default:
		return nil, nil, fmt.Errorf("sanitize: unexpected top-level %T", top)
	}

	dropped := make([]string, 0, 4)
	out := make([]map[string]any, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("item[%d](type)", i))
			continue
		}
		clean := map[string]any{}
		for k, v := range m {
			key := strings.ToLower(strings.TrimSpace(k))
			if syn, ok := fieldSynonyms[key]; ok {
				key = syn
			}
			switch key {
			case "date", "jurisdiction", "summary":
			default:
				dropped = append(dropped, fmt.Sprintf("item[%d].%s(unknown)", i, k))
				continue
			}
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			if _, exists := clean[key]; !exists {
				clean[key] = strings.TrimSpace(s)
			}
		}
		if len(clean) < 3 {
			dropped = append(dropped, fmt.Sprintf("item[%d](incomplete)", i))
			continue
		}
		out = append(out, clean)
	}
	if len(dropped) > 0 {
		logger.Debug("llm.sanitize.dropped", "dropped", dropped)
	}

	b, err := json.Marshal(map[string]any{"law_changes": out})
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func stripFences(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = bytes.TrimPrefix(s, []byte("```"))
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}
