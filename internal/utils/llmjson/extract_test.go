package llmjson_test

import (
	"testing"

	"github.com/SscSPs/medisave/internal/utils/llmjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		status   llmjson.Status
		wantJSON string
	}{
		{name: "plain object", content: `{"a":1}`, status: llmjson.OK, wantJSON: `{"a":1}`},
		{name: "object with whitespace", content: "\n  {\"a\":1}  \n", status: llmjson.OK, wantJSON: `{"a":1}`},
		{name: "fenced json", content: "```json\n{\"a\":1}\n```", status: llmjson.Recovered, wantJSON: `{"a":1}`},
		{name: "fenced without language", content: "```\n{\"a\":2}\n```", status: llmjson.Recovered, wantJSON: `{"a":2}`},
		{name: "prose around object", content: "Sure! Here it is: {\"a\":{\"b\":[1,2]}} hope this helps", status: llmjson.Recovered, wantJSON: `{"a":{"b":[1,2]}}`},
		{name: "empty", content: "   ", status: llmjson.Malformed},
		{name: "no braces", content: "I cannot read this receipt.", status: llmjson.Malformed},
		{name: "broken object", content: "{\"a\": 1,,}", status: llmjson.Malformed},
		{name: "array is not an object", content: "[1,2,3]", status: llmjson.Malformed},
		{name: "reversed braces", content: "} nope {", status: llmjson.Malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := llmjson.Extract(tt.content)
			assert.Equal(t, tt.status, res.Status, res.Reason)
			if tt.wantJSON != "" {
				assert.JSONEq(t, tt.wantJSON, string(res.JSON))
				assert.True(t, res.Usable())
			} else {
				assert.False(t, res.Usable())
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestResult_Decode(t *testing.T) {
	res := llmjson.Extract("```json\n{\"summary\":\"save more\",\"recommendations\":[\"a\",\"b\"]}\n```")
	require.True(t, res.Usable())

	var out struct {
		Summary         string   `json:"summary"`
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, "save more", out.Summary)
	assert.Equal(t, []string{"a", "b"}, out.Recommendations)
}
