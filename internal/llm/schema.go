package llm

// BuildLawChangeJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to the model as a structured output constraint and also use it locally to validate.
func BuildLawChangeJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":         map[string]any{"type": "string", "minLength": 4},
			"jurisdiction": map[string]any{"type": "string", "minLength": 2, "maxLength": 64},
			"summary":      map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
		},
		"required": []string{"date", "jurisdiction", "summary"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"law_changes": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
		"required": []string{"law_changes"},
	}
}
