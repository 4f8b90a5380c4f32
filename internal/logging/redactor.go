package logging

import (
	"strings"
	"unicode"
)

const redacted = "[REDACTED]"

// sensitiveWords are matched against whole segments of a key, so "api_token"
// is redacted but "tokenizer" is not.
var sensitiveWords = map[string]struct{}{
	"secret":     {},
	"password":   {},
	"token":      {},
	"key":        {},
	"auth":       {},
	"credential": {},
	"cookie":     {},
}

type redactor struct {
	words map[string]struct{}
}

func newRedactor() *redactor {
	return &redactor{words: sensitiveWords}
}

// redact returns a copy of the key/value pairs with sensitive values replaced.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := slicesClone(pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.isSensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func (r *redactor) isSensitive(key string) bool {
	segments := strings.FieldsFunc(strings.ToLower(key), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for _, s := range segments {
		if _, ok := r.words[s]; ok {
			return true
		}
	}
	return false
}

func slicesClone(in []any) []any {
	out := make([]any, len(in))
	copy(out, in)
	return out
}
