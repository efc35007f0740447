// Package parse extracts a JSON object from a model's free-text reply.
// Vision models wrap their JSON in prose, code fences, and near-JSON syntax
// (single quotes, bare keys, trailing commas, comments); the parser repairs
// those before handing the slice to encoding/json.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/roomworks/takeoff/internal/domain"
)

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Object locates and parses the first JSON object in raw. On failure the
// returned error is a domain.ParseError; the caller keeps the raw text.
func Object(raw string) (map[string]any, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, domain.ParseError("no JSON object found in reply", nil)
	}
	content = content[start : end+1]

	cleaned := Clean(content)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, domain.ParseError("reply JSON is not parseable after cleanup", err)
	}
	return obj, nil
}

// Clean repairs common near-JSON malformations: // and /* */ comments,
// single-quoted strings, bare object keys, and trailing commas. String
// contents are left untouched.
func Clean(s string) string {
	s = stripCommentsAndQuotes(s)
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = trailingCommaRe.ReplaceAllString(s, `$1`)
	return s
}

// stripCommentsAndQuotes walks the input once, removing comments and
// rewriting single-quoted strings as double-quoted ones. A small state
// machine keeps it from touching comment-like or quote-like sequences that
// appear inside proper strings.
func stripCommentsAndQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	const (
		stateCode = iota
		stateDouble
		stateSingle
		stateLineComment
		stateBlockComment
	)

	state := stateCode
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case r == '/' && next == '/':
				state = stateLineComment
				i++
			case r == '/' && next == '*':
				state = stateBlockComment
				i++
			case r == '"':
				state = stateDouble
				b.WriteRune(r)
			case r == '\'':
				state = stateSingle
				b.WriteRune('"')
			default:
				b.WriteRune(r)
			}
		case stateDouble:
			b.WriteRune(r)
			if r == '\\' && next != 0 {
				b.WriteRune(next)
				i++
			} else if r == '"' {
				state = stateCode
			}
		case stateSingle:
			switch {
			case r == '\\' && next == '\'':
				b.WriteRune('\'')
				i++
			case r == '\'':
				b.WriteRune('"')
				state = stateCode
			case r == '"':
				b.WriteString(`\"`)
			default:
				b.WriteRune(r)
			}
		case stateLineComment:
			if r == '\n' {
				b.WriteRune(r)
				state = stateCode
			}
		case stateBlockComment:
			if r == '*' && next == '/' {
				i++
				state = stateCode
			}
		}
	}

	return b.String()
}
