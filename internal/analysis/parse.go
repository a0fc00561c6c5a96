package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ErrUnparsable means no JSON object could be recovered from the completion.
var ErrUnparsable = errors.New("completion contains no parsable json object")

// rawResult mirrors the model's output schema with loose typing. Numeric
// fields decode as `any` (json.Number, string or nil) so values like "abc"
// or null are coerced during normalization instead of failing the parse.
type rawResult struct {
	Foods          []rawFood          `json:"foods"`
	Micronutrients *rawMicronutrients `json:"micronutrients"`
	Notes          string             `json:"notes"`
}

type rawFood struct {
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	Calories any    `json:"calories"`
	Protein  any    `json:"protein"`
	Carbs    any    `json:"carbs"`
	Fat      any    `json:"fat"`
}

type rawMicronutrients struct {
	VitaminA any `json:"vitaminA"`
	VitaminC any `json:"vitaminC"`
	VitaminD any `json:"vitaminD"`
	Calcium  any `json:"calcium"`
	Iron     any `json:"iron"`
	Fiber    any `json:"fiber"`
}

// ExtractJSON recovers the JSON object from a free-form model completion.
//
// Models sometimes wrap the object in markdown fences or surround it with
// prose. The recovery order matches that tolerance: trim, strip a leading
// ``` or ```json fence and a trailing fence, then cut from the first "{"
// to the last "}". Anything still unparsable after that is ErrUnparsable.
func ExtractJSON(rawText string) (*rawResult, error) {
	clean := strings.TrimSpace(rawText)

	if strings.HasPrefix(clean, "```") {
		clean = stripFences(clean)
	}

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrUnparsable
	}
	clean = clean[start : end+1]

	decoder := json.NewDecoder(strings.NewReader(clean))
	decoder.UseNumber()

	var result rawResult
	if err := decoder.Decode(&result); err != nil {
		return nil, ErrUnparsable
	}

	// The candidate must be exactly one JSON value. Decode stops at the end
	// of the first value, so trailing data (a second object, stray tokens)
	// would otherwise slip through.
	if _, err := decoder.Token(); err != io.EOF {
		return nil, ErrUnparsable
	}

	return &result, nil
}

// stripFences removes a leading ```/```json line and a trailing ``` line.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")

	first := strings.ToLower(strings.TrimSpace(lines[0]))
	if first == "```" || first == "```json" {
		lines = lines[1:]
	} else {
		// Fence and content on the same line, e.g. "```json {...}".
		trimmed := strings.TrimPrefix(lines[0], "```")
		trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "json"), "JSON")
		lines[0] = trimmed
	}

	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if last == "```" {
			lines = lines[:len(lines)-1]
		}
		break
	}

	return strings.Join(lines, "\n")
}
