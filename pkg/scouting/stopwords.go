package scouting

import "strings"

// DefaultStopWords are Spanish verbs, connectors, articles and prepositions
// that show up quoted or tagged in scouting reports but are never names.
var DefaultStopWords = []string{
	"recomendamos", "debemos", "tenemos", "es", "son", "tiene", "tienen",
	"juega", "juegan", "marca", "marcan", "cansa", "cansan", "evitar",
	"presionar", "defender", "atacar", "y", "o", "pero", "si", "no",
	"muy", "poco", "mucho", "más", "menos", "el", "la", "los", "las",
	"un", "una", "unos", "unas", "desde", "hasta", "para", "por", "con",
}

// StopWordSet is a case-insensitive membership set of stop words.
type StopWordSet map[string]struct{}

// NewStopWordSet builds a set from words. Entries are lower-cased and trimmed;
// blank entries are ignored.
func NewStopWordSet(words []string) StopWordSet {
	set := make(StopWordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word, lower-cased, is a stop word.
func (s StopWordSet) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}
