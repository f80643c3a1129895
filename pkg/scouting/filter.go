package scouting

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minNameRunes  = 2
	maxNameRunes  = 30
	maxNameTokens = 3
)

// SpanFilter decides whether a candidate string may be a player name.
// It is stateless apart from the stop-word set and safe for concurrent use.
type SpanFilter struct {
	stopWords StopWordSet
}

// NewSpanFilter creates a filter over the given stop words.
func NewSpanFilter(stopWords StopWordSet) *SpanFilter {
	return &SpanFilter{stopWords: stopWords}
}

// IsStopWord reports whether candidate as a whole is a stop word.
func (f *SpanFilter) IsStopWord(candidate string) bool {
	return f.stopWords.Contains(candidate)
}

// AcceptQuoted applies the full shape check to a quoted span: 2-30 runes,
// no digits, an uppercase first rune, at most three tokens, and neither the
// whole span nor its first token may be a stop word. candidate must already
// be trimmed.
func (f *SpanFilter) AcceptQuoted(candidate string) bool {
	if !f.acceptShape(candidate) {
		return false
	}
	for _, r := range candidate {
		if unicode.IsDigit(r) {
			return false
		}
	}
	first, _ := utf8.DecodeRuneInString(candidate)
	return unicode.IsUpper(first)
}

// AcceptOrganization is the check for ORGANIZATION spans reinterpreted as
// players: length, token count and stop words, but no casing or digit rules.
func (f *SpanFilter) AcceptOrganization(candidate string) bool {
	return f.acceptShape(candidate)
}

func (f *SpanFilter) acceptShape(candidate string) bool {
	n := utf8.RuneCountInString(candidate)
	if n < minNameRunes || n > maxNameRunes {
		return false
	}
	if f.IsStopWord(candidate) {
		return false
	}
	tokens := strings.Fields(candidate)
	if len(tokens) == 0 || len(tokens) > maxNameTokens {
		return false
	}
	return !f.IsStopWord(tokens[0])
}
