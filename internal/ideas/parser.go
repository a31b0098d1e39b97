package ideas

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrUnparsable is returned when every stage of the parser chain fails.
var ErrUnparsable = errors.New("no valid idea array found in provider response")

// ParsedIdea is one idea as emitted by the provider, before an ID and
// illustration are attached.
type ParsedIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Points      int    `json:"points"`
}

// ParseFunc is one stage of the response parser chain.
type ParseFunc func(raw string) ([]ParsedIdea, error)

// The provider's output is free text with no enforced schema, so parsing
// is an ordered fallback chain: strict JSON first, then salvaging the
// first bracket-delimited array substring.
var parserChain = []ParseFunc{parseStrict, parseExtracted}

// arrayPattern matches from the first '[' to the last ']' across newlines.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseIdeas runs the parser chain over a raw provider completion. The
// result is accepted only if it is exactly idea-batch sized with
// well-formed entries; otherwise the next stage is tried.
func ParseIdeas(raw string) ([]ParsedIdea, error) {
	for _, parse := range parserChain {
		parsed, err := parse(raw)
		if err != nil {
			continue
		}
		if err := validateBatch(parsed); err != nil {
			continue
		}
		return parsed, nil
	}
	return nil, ErrUnparsable
}

func parseStrict(raw string) ([]ParsedIdea, error) {
	var parsed []ParsedIdea
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func parseExtracted(raw string) ([]ParsedIdea, error) {
	match := arrayPattern.FindString(raw)
	if match == "" {
		return nil, ErrUnparsable
	}

	var parsed []ParsedIdea
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func validateBatch(parsed []ParsedIdea) error {
	if len(parsed) != IdeasPerBatch {
		return fmt.Errorf("expected %d ideas, got %d", IdeasPerBatch, len(parsed))
	}
	for i, idea := range parsed {
		if idea.Title == "" {
			return fmt.Errorf("idea %d has no title", i)
		}
	}
	return nil
}
