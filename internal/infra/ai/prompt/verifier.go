package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/bryanwahyu/automaton-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// maxContentChars caps how much submitted content goes into one prompt.
const maxContentChars = 12000

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior fact-checking analyst. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- status must be one of: real, fake, uncertain. Use uncertain when evidence is insufficient.
- confidence is an integer percentage from 0 to 100 describing how sure you are of status.
- sources lists the fact-checking outlets or references you would cross-check against; use names, not invented URLs.
- analysis is two to four sentences explaining the verdict.
- If only a URL is given and no article text, judge conservatively from the URL and the outlet.

Schema (example with empty values):
{
  "status": "<real|fake|uncertain>",
  "confidence": 0,
  "sources": ["<string>"],
  "analysis": "<string>"
}`
}

// GetUserPrompt builds a compact user message around the submitted content.
func GetUserPrompt(req domain.Request) string {
	content := req.Content
	if r := []rune(content); len(r) > maxContentChars {
		content = string(r[:maxContentChars])
	}
	if req.Kind == domain.KindURL {
		return fmt.Sprintf("Verify the news article at this URL and respond with the JSON per schema. URL: %s", content)
	}
	return fmt.Sprintf("Verify the following news content and respond with the JSON per schema.\n\nContent:\n%s", content)
}

// verdictJSON matches the schema used by the system prompt. Confidence is
// decoded loosely since models sometimes answer 0.87 or "87".
type verdictJSON struct {
	Status     string          `json:"status"`
	Confidence json.RawMessage `json:"confidence"`
	Sources    []string        `json:"sources"`
	Analysis   string          `json:"analysis"`
}

// ParseVerdict decodes a model answer into a verdict.
func ParseVerdict(raw string) (domain.Verdict, error) {
	raw = stripFences(raw)

	var out verdictJSON
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	status, ok := normalizeStatus(out.Status)
	if !ok {
		return domain.Verdict{}, fmt.Errorf("%w: unknown status %q", ai.ErrMalformedResponse, out.Status)
	}
	confidence, err := parseConfidence(out.Confidence)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	sources := make([]string, 0, len(out.Sources))
	for _, s := range out.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}

	v := domain.Verdict{
		Status:     status,
		Confidence: confidence,
		Sources:    sources,
		Analysis:   strings.TrimSpace(out.Analysis),
	}
	return v, v.Validate()
}

func normalizeStatus(s string) (domain.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real", "authentic", "true", "likely authentic":
		return domain.StatusAuthentic, true
	case "fake", "fabricated", "false", "likely fake":
		return domain.StatusFabricated, true
	case "uncertain", "unverified", "unknown", "requires review":
		return domain.StatusUncertain, true
	}
	return "", false
}

func parseConfidence(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("confidence missing")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("confidence is not a number")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
			return 0, fmt.Errorf("confidence is not a number: %q", s)
		}
	}
	// 0..1 fraction → percentage
	if f > 0 && f <= 1 {
		f *= 100
	}
	if f < 0 || f > 100 {
		return 0, fmt.Errorf("confidence out of range: %v", f)
	}
	return int(math.Round(f)), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
