package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phantom-finance/phantomfin/internal/budget"
)

type rawCategorization struct {
	TargetSection string `json:"targetSection"`
	Category      string `json:"category"`
	Confidence    string `json:"confidence"`
	SuggestedName string `json:"suggestedName"`
	Reasoning     string `json:"reasoning"`
}

// parseResponse decodes and validates the model output. Models sometimes
// wrap the array in an object or a markdown fence; both are tolerated. A
// wrong-length result is an error so the caller can fall back for the
// whole batch.
func parseResponse(text string, expected int) ([]Categorization, error) {
	text = stripFence(text)

	var raw []rawCategorization
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		// object-wrapped array: use the first array-valued property
		var wrapper map[string]json.RawMessage
		if werr := json.Unmarshal([]byte(text), &wrapper); werr != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		found := false
		for _, v := range wrapper {
			if json.Unmarshal(v, &raw) == nil {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("decode response: no array found")
		}
	}

	if len(raw) != expected {
		return nil, fmt.Errorf("response length %d, want %d", len(raw), expected)
	}

	out := make([]Categorization, len(raw))
	for i, r := range raw {
		out[i] = normalize(r)
	}
	return out, nil
}

// normalize coerces out-of-vocabulary values to safe defaults rather than
// rejecting the verdict.
func normalize(r rawCategorization) Categorization {
	section := budget.Section(r.TargetSection)
	if !section.Valid() {
		section = budget.SectionMonthly
	}

	confidence := Confidence(r.Confidence)
	switch confidence {
	case High, Medium, Low:
	default:
		confidence = Low
	}

	category := r.Category
	if category == "" {
		category = "Other"
	}

	return Categorization{
		TargetSection: section,
		Category:      category,
		Confidence:    confidence,
		SuggestedName: r.SuggestedName,
		Reasoning:     r.Reasoning,
	}
}

func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
