// Package llmjson pulls a JSON object out of free-text model output.
package llmjson

import (
	"encoding/json"
	"strings"
)

// Status tags the outcome of Extract.
type Status int

const (
	// Malformed means no decodable JSON object was found.
	Malformed Status = iota
	// OK means the whole content was a JSON object.
	OK
	// Recovered means an object was found after stripping markdown fences or
	// surrounding prose.
	Recovered
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Recovered:
		return "recovered"
	default:
		return "malformed"
	}
}

// Result is the tagged outcome of Extract. JSON is set unless Status is Malformed.
type Result struct {
	Status Status
	JSON   json.RawMessage
	Reason string
}

// Usable reports whether a JSON object was obtained.
func (r Result) Usable() bool { return r.Status != Malformed }

// Decode unmarshals the extracted object into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.JSON, v)
}

// Extract never panics; every input maps to exactly one Status.
func Extract(content string) Result {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Result{Status: Malformed, Reason: "empty content"}
	}

	if isObject(trimmed) {
		return Result{Status: OK, JSON: json.RawMessage(trimmed)}
	}

	if unfenced := stripFences(trimmed); unfenced != trimmed && isObject(unfenced) {
		return Result{Status: Recovered, JSON: json.RawMessage(unfenced)}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return Result{Status: Malformed, Reason: "no JSON object in content"}
	}
	span := trimmed[start : end+1]
	if isObject(span) {
		return Result{Status: Recovered, JSON: json.RawMessage(span)}
	}
	return Result{Status: Malformed, Reason: "JSON object span does not decode"}
}

func isObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
