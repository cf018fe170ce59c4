// Package jsonrepair recovers a JSON object from completion text that is almost, but not quite, valid.
//
// Only two defects are repaired: escaped single quotes (\') and a backslash placed before
// whitespace. Anything else is reported as a parse error rather than guessed at.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"github.com/Sriram-PR/storylens/pkg/utils"
)

// Extract returns the span from the first '{' to the last '}' inclusive.
func Extract(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end < start {
		return "", &utils.NoDelimitersError{Start: start, End: end}
	}
	return text[start : end+1], nil
}

// Repair fixes the two tolerated defects. It is pure and idempotent, and leaves valid JSON
// without those defects unchanged.
func Repair(text string) string {
	// \' is never a valid JSON escape. Replace until none remain: each pass removes at
	// least one backslash, so the loop terminates.
	for strings.Contains(text, `\'`) {
		text = strings.ReplaceAll(text, `\'`, `'`)
	}
	return dropBackslashBeforeSpace(text)
}

// dropBackslashBeforeSpace removes a backslash that is directly followed by whitespace,
// unless the backslash is itself preceded by a backslash in the input.
// Decisions look at the input, not the output, so one pass reaches a fixed point.
func dropBackslashBeforeSpace(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' && i+1 < len(text) && isSpaceByte(text[i+1]) && (i == 0 || text[i-1] != '\\') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	return c < 0x80 && unicode.IsSpace(rune(c))
}

// Parse decodes text as a JSON object.
// A failure is a *utils.ParseError carrying the decoder message and byte offset.
func Parse(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		parseErr := &utils.ParseError{Message: err.Error(), Offset: -1, Repaired: text, Err: err}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			parseErr.Offset = syntaxErr.Offset
		case errors.As(err, &typeErr):
			parseErr.Offset = typeErr.Offset
		}
		return nil, parseErr
	}
	if obj == nil {
		// The literal null decodes without error
		return nil, &utils.ParseError{Message: "top-level value is null, not an object", Offset: 0, Repaired: text}
	}
	return obj, nil
}

// Recover runs extract, repair and parse. On a parse failure the returned *utils.ParseError
// carries the raw, extracted and repaired text for diagnostics. Never returns a partial object.
func Recover(raw string) (map[string]any, error) {
	extracted, err := Extract(raw)
	if err != nil {
		return nil, err
	}

	repaired := Repair(extracted)

	obj, err := Parse(repaired)
	if err != nil {
		var parseErr *utils.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Raw = raw
			parseErr.Extracted = extracted
		}
		return nil, err
	}
	return obj, nil
}
