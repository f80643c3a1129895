package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/cypher"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/scouting"
)

func TestLoadRulesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		rules, err := LoadRules(path)
		if err != nil {
			t.Fatalf("LoadRules(%q) error: %v", path, err)
		}
		if !slices.Equal(rules.StopWords, scouting.DefaultStopWords) {
			t.Fatalf("stop words = %v", rules.StopWords)
		}
		if !slices.Equal(rules.ForbiddenKeywords, cypher.DefaultForbiddenKeywords) {
			t.Fatalf("forbidden keywords = %v", rules.ForbiddenKeywords)
		}
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
extra_stop_words:
  - cuidado
forbidden_keywords:
  - SELECT
  - DROP
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules error: %v", err)
	}
	if !slices.Contains(rules.StopWords, "cuidado") || !slices.Contains(rules.StopWords, "recomendamos") {
		t.Fatalf("stop words not extended: %v", rules.StopWords)
	}
	if !slices.Equal(rules.ForbiddenKeywords, []string{"SELECT", "DROP"}) {
		t.Fatalf("forbidden keywords = %v", rules.ForbiddenKeywords)
	}
	if !slices.Equal(rules.GraphClauses, cypher.DefaultGraphClauses) {
		t.Fatalf("graph clauses = %v", rules.GraphClauses)
	}
}

func TestParseRulesInvalid(t *testing.T) {
	if _, err := ParseRules([]byte("stop_words: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultRulesIsACopy(t *testing.T) {
	rules := DefaultRules()
	rules.StopWords[0] = "changed"
	if scouting.DefaultStopWords[0] == "changed" {
		t.Fatal("DefaultRules shares backing array with defaults")
	}
}
