package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt composes the system message with the output contract and
// the extraction rules for legislative text.
func BuildSystemPrompt() string {
	parts := []string{
		"You extract law changes from legislative documents. Return ONLY JSON that matches the provided JSON Schema.",
		`The JSON object has one key, "law_changes", an array of objects with "date", "jurisdiction" and "summary".`,
		"A law change is a statute, regulation, ordinance or rule that was enacted, amended, repealed or takes effect on a specific date in a specific jurisdiction.",
		"Use the effective date when one is given; otherwise the enactment date. Copy the date as written or use YYYY-MM-DD.",
		"Jurisdiction is a US state name or two-letter postal code; use \"Federal\" for national law.",
		"Summary is one sentence (at most 40 words) describing what changed, including amounts and thresholds that appear in the text.",
		"Do not invent changes. If the text has none, return {\"law_changes\": []}.",
		"Never output null. Omit anything you are unsure of.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt frames one page of text for the model.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if h := strings.TrimSpace(req.DocumentHint); h != "" {
		fmt.Fprintf(&b, "Document: %s\n", h)
	}
	fmt.Fprintf(&b, "Page %d text:\n", req.PageIndex+1)
	b.WriteString("-----\n")
	b.WriteString(req.PageText)
	b.WriteString("\n-----\n")
	b.WriteString("Return ONLY JSON that matches the provided schema.")
	return b.String()
}
