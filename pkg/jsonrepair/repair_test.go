package jsonrepair

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Bare", `{"a":1}`, `{"a":1}`},
		{"Prose around", "Here you go:\n{\"a\":1}\nThanks!", `{"a":1}`},
		{"Code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"Nested keeps outermost", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_NoDelimiters(t *testing.T) {
	tests := []struct {
		input string
		start int
		end   int
	}{
		{"no braces at all", -1, -1},
		{"only open {", 10, -1},
		{"only close }", -1, 11},
		{"} reversed {", 11, 0},
		{"", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Extract(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrNoDelimiters))
			var ndErr *utils.NoDelimitersError
			require.True(t, errors.As(err, &ndErr))
			assert.Equal(t, tt.start, ndErr.Start)
			assert.Equal(t, tt.end, ndErr.End)
		})
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Escaped single quote", `{"a":"it\'s"}`, `{"a":"it's"}`},
		{"Doubly escaped single quote", `{"a":"it\\\'s"}`, `{"a":"it's"}`},
		{"Backslash before space", `{"a":"x\ y"}`, `{"a":"x y"}`},
		{"Backslash before newline", "{\"a\":\"x\\\ny\"}", "{\"a\":\"x\ny\"}"},
		{"Backslash before tab", "{\"a\":\"x\\\ty\"}", "{\"a\":\"x\ty\"}"},
		{"Adjacent defects", `{"a":"a\ \ b"}`, `{"a":"a  b"}`},
		{"Escaped backslash before space kept", `{"a":"C:\\ dir"}`, `{"a":"C:\\ dir"}`},
		{"Valid escapes untouched", `{"a":"q\"uote\\n\n\t\u00e9"}`, `{"a":"q\"uote\\n\n\t\u00e9"}`},
		{"Nothing to do", `{"a":[1,2,{"b":null}]}`, `{"a":[1,2,{"b":null}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Repair(tt.input))
		})
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a":"it\'s"}`,
		`{"a":"it\\\\\'s"}`,
		`{"a":"a\ \ b"}`,
		`\ \ \ `,
		`\\ \ `,
		`\\\ `,
		"\\\n\\\t\\ ",
		`{"a":"C:\\ dir"}`,
		`{"quote":"She said \'no\' \ twice"}`,
		`plain text with no backslashes`,
		``,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Repair(input)
			twice := Repair(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestRepair_NoOpOnValidJSON(t *testing.T) {
	docs := []any{
		map[string]any{"title": "Plain", "n": 3.5, "list": []any{"a", "b"}},
		map[string]any{"text": "line one\nline two\ttabbed \"quoted\" back\\slash"},
		map[string]any{"unicode": "café ☕ 日本"},
		map[string]any{"nested": map[string]any{"empty": map[string]any{}, "null": nil, "flag": true}},
	}

	for _, doc := range docs {
		encoded, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.Equal(t, string(encoded), Repair(string(encoded)))
	}
}

func TestParse_ErrorCarriesOffset(t *testing.T) {
	_, err := Parse(`{"a": 1,}`)

	require.Error(t, err)
	var parseErr *utils.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, int64(9), parseErr.Offset)
	assert.NotEmpty(t, parseErr.Message)
	assert.True(t, errors.Is(err, utils.ErrJSONParse))
}

func TestParse_NonObject(t *testing.T) {
	_, err := Parse(`null`)
	assert.True(t, errors.Is(err, utils.ErrJSONParse))

	_, err = Parse(`[1,2]`)
	assert.True(t, errors.Is(err, utils.ErrJSONParse))
}

func TestRecover(t *testing.T) {
	raw := "Sure! Here is the analysis:\n```json\n{\"title\": \"Mayor\\'s plan\", \"summary\": \"It\\ passed.\", \"highlights\": [\"one\"]}\n```"

	obj, err := Recover(raw)

	require.NoError(t, err)
	assert.Equal(t, "Mayor's plan", obj["title"])
	assert.Equal(t, "It passed.", obj["summary"])
	assert.Equal(t, []any{"one"}, obj["highlights"])
}

func TestRecover_NoDelimiters(t *testing.T) {
	obj, err := Recover("I cannot help with that.")

	assert.Nil(t, obj)
	assert.True(t, errors.Is(err, utils.ErrNoDelimiters))
}

func TestRecover_ParseFailureCarriesDiagnostics(t *testing.T) {
	raw := `prefix {"title": "unterminated} suffix`

	obj, err := Recover(raw)

	assert.Nil(t, obj, "never a partial object")
	var parseErr *utils.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, raw, parseErr.Raw)
	assert.Equal(t, `{"title": "unterminated}`, parseErr.Extracted)
	assert.Equal(t, `{"title": "unterminated}`, parseErr.Repaired)
	assert.GreaterOrEqual(t, parseErr.Offset, int64(0))
}
