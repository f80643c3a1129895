package scouting

import (
	"regexp"
	"strings"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
)

var (
	analysisTeamPattern = regexp.MustCompile(`(?i)análisis de ['"]?([^'":\n]+)['"]?`)
	rivalTeamPattern    = regexp.MustCompile(`(?i)rival ['"]([^'"]+)['"]`)
	quotedSpanPattern   = regexp.MustCompile(`'([^'"]+)'|"([^'"]+)"`)
)

// Resolver decides which rival team and which key players a scouting report
// talks about. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	filter *SpanFilter
}

// NewResolverParams configures a Resolver.
type NewResolverParams struct {
	// StopWords replaces DefaultStopWords when non-empty.
	StopWords []string
}

// NewResolver creates a resolver. An empty stop-word list falls back to
// DefaultStopWords.
func NewResolver(params NewResolverParams) *Resolver {
	words := params.StopWords
	if len(words) == 0 {
		words = DefaultStopWords
	}
	return &Resolver{filter: NewSpanFilter(NewStopWordSet(words))}
}

// Filter returns the span filter used by the resolver.
func (r *Resolver) Filter() *SpanFilter {
	return r.filter
}

// Resolve extracts the team name and player names from a report and the
// spans a recognizer produced for it. It never fails: missing values are
// returned empty and the caller decides what that means.
func (r *Resolver) Resolve(text string, spans []common.LabeledSpan) common.ResolvedIdentity {
	team := r.resolveTeam(text, spans)

	players := make([]string, 0)
	players = append(players, r.quotedPlayers(text, team)...)
	players = append(players, r.spanPlayers(spans, team)...)

	return common.ResolvedIdentity{
		TeamName:    team,
		PlayerNames: dedupe(players),
	}
}

func (r *Resolver) resolveTeam(text string, spans []common.LabeledSpan) string {
	lower := strings.ToLower(text)

	var team string
	switch {
	case strings.Contains(lower, "análisis de"):
		team = firstCapture(analysisTeamPattern, text)
	case strings.Contains(lower, "rival"):
		team = firstCapture(rivalTeamPattern, text)
	}
	if team != "" {
		return team
	}

	for _, span := range spans {
		if span.Label == common.LabelOrganization {
			return strings.TrimSpace(span.Text)
		}
	}
	return ""
}

func firstCapture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func (r *Resolver) quotedPlayers(text, team string) []string {
	var out []string
	for _, m := range quotedSpanPattern.FindAllStringSubmatch(text, -1) {
		candidate := m[1]
		if candidate == "" {
			candidate = m[2]
		}
		candidate = strings.TrimSpace(candidate)
		if candidate == team {
			continue
		}
		if r.filter.AcceptQuoted(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func (r *Resolver) spanPlayers(spans []common.LabeledSpan, team string) []string {
	var out []string
	for _, span := range spans {
		name := strings.TrimSpace(span.Text)
		if name == "" || name == team || r.filter.IsStopWord(name) {
			continue
		}
		switch span.Label {
		case common.LabelPerson:
			out = append(out, name)
		case common.LabelOrganization:
			// Recognizers regularly tag surnames as organizations once the
			// team itself is known.
			if team != "" && r.filter.AcceptOrganization(name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
