package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/cypher"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/scouting"
)

// Rules is the rule data the resolver and the query validator run on.
type Rules struct {
	StopWords         []string `yaml:"stop_words"`
	ExtraStopWords    []string `yaml:"extra_stop_words"`
	ForbiddenKeywords []string `yaml:"forbidden_keywords"`
	GraphClauses      []string `yaml:"graph_clauses"`
}

// DefaultRules returns the built-in rule data.
func DefaultRules() Rules {
	return Rules{
		StopWords:         append([]string(nil), scouting.DefaultStopWords...),
		ForbiddenKeywords: append([]string(nil), cypher.DefaultForbiddenKeywords...),
		GraphClauses:      append([]string(nil), cypher.DefaultGraphClauses...),
	}
}

// LoadRules reads a YAML rules file. Lists missing from the file keep their
// defaults, and extra_stop_words is appended to the resulting stop words.
// An empty path or a missing file yields DefaultRules.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("[Config] Rules file not found, using defaults", "path", path)
		return DefaultRules(), nil
	}
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes YAML rule data on top of DefaultRules.
func ParseRules(data []byte) (Rules, error) {
	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	rules := DefaultRules()
	if len(file.StopWords) > 0 {
		rules.StopWords = file.StopWords
	}
	if len(file.ForbiddenKeywords) > 0 {
		rules.ForbiddenKeywords = file.ForbiddenKeywords
	}
	if len(file.GraphClauses) > 0 {
		rules.GraphClauses = file.GraphClauses
	}
	rules.StopWords = append(rules.StopWords, file.ExtraStopWords...)

	return rules, nil
}
