package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DecodeNote records one tolerant guess made while decoding a model response,
// so callers that care can see what was defaulted rather than extracted.
type DecodeNote struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var reJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Decode parses a raw model response body into a normalized VisionResult.
// It tolerates markdown code fences and leading/trailing prose around the
// JSON object. The returned notes list every field the decoder had to guess
// or default. A non-nil error means no JSON object could be recovered at all;
// the result is still usable as a failure shell in that case.
func Decode(raw []byte) (*VisionResult, []DecodeNote, error) {
	body := strings.TrimSpace(string(raw))
	if m := reJSONBlock.FindStringSubmatch(body); m != nil {
		body = m[1]
	} else if i := strings.Index(body, "{"); i >= 0 {
		if j := strings.LastIndex(body, "}"); j > i {
			body = body[i : j+1]
		}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		res := Normalize(nil)
		res.Error = "response was not valid JSON"
		res.RawText = string(raw)
		return res, nil, fmt.Errorf("decode extraction response: %w", err)
	}

	var notes []DecodeNote
	if _, ok := obj["success"].(bool); !ok {
		notes = append(notes, DecodeNote{Field: "success", Reason: "absent or non-boolean, defaulted to false"})
	}
	if s, ok := obj["documentType"].(string); !ok || s == "" {
		notes = append(notes, DecodeNote{Field: "documentType", Reason: "absent, defaulted to unknown"})
	}
	if obj["confidence"] == nil {
		notes = append(notes, DecodeNote{Field: "confidence", Reason: "absent, defaulted to 0"})
	}
	if _, ok := obj["data"].(map[string]any); !ok {
		notes = append(notes, DecodeNote{Field: "data", Reason: "absent or not an object"})
	}

	return Normalize(obj), notes, nil
}
