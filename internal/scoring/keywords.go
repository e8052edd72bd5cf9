package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// stopWords filters common English words that add noise to keyword matching.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "such": true,
}

var folder = cases.Fold()

// fold case-normalizes s for matching.
func fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// tokenize splits text into folded keywords, skipping stop words and tokens
// shorter than 2 runes. Treats + # . as word characters so tech terms like
// "c++", "c#" and "node.js" survive intact.
func tokenize(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		w = strings.TrimRight(w, ".")
		if len([]rune(w)) >= 2 && !stopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range fold(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// containsKeyword reports whether keyword occurs in the tokenized text,
// word-boundary matched and case-insensitive. Multi-word keywords match on
// all of their tokens being present.
func containsKeyword(tokens map[string]bool, keyword string) bool {
	parts := []string{}
	for part := range tokenize(keyword) {
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		// Keyword was all stop words or too short; fall back to a direct
		// folded token lookup.
		return tokens[fold(keyword)]
	}
	for _, part := range parts {
		if !tokens[part] {
			return false
		}
	}
	return true
}
