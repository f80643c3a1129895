package common

import "strings"

// Label is the entity class a named-entity recognizer assigned to a span.
type Label string

const (
	LabelPerson       Label = "PERSON"
	LabelOrganization Label = "ORGANIZATION"
	LabelLocation     Label = "LOCATION"
	LabelOther        Label = "OTHER"
)

// ParseLabel maps the tag spellings used by common NER models (spaCy's
// PER/ORG/LOC/MISC, OntoNotes' GPE, long forms) onto Label. Unknown tags
// become LabelOther.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PER", "PERSON":
		return LabelPerson
	case "ORG", "ORGANIZATION", "ORGANISATION":
		return LabelOrganization
	case "LOC", "LOCATION", "GPE":
		return LabelLocation
	default:
		return LabelOther
	}
}

// DisplayName is the Spanish name of the label shown to coaches.
func (l Label) DisplayName() string {
	switch l {
	case LabelOrganization:
		return "Organización (Equipo)"
	case LabelPerson:
		return "Persona (Jugador)"
	case LabelLocation:
		return "Lugar"
	default:
		return "Otro"
	}
}

// LabeledSpan is a piece of report text that a recognizer tagged as an entity.
// Spans of a report are ordered by their appearance in the text.
type LabeledSpan struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// ResolvedIdentity is what a single scouting report says about the rival:
// at most one team and a set of key players.
//
// PlayerNames holds no duplicates and never contains TeamName. Its order is
// the order in which names were first seen and carries no meaning.
type ResolvedIdentity struct {
	TeamName    string   `json:"team_name"`
	PlayerNames []string `json:"player_names"`
}

// HasTeam reports whether a team name was resolved.
func (r ResolvedIdentity) HasTeam() bool {
	return r.TeamName != ""
}

// HasPlayers reports whether at least one player name was resolved.
func (r ResolvedIdentity) HasPlayers() bool {
	return len(r.PlayerNames) > 0
}

// WriteSummary describes one team/players upsert against the graph.
// NodesCreated and EdgesCreated only count elements that did not exist yet,
// so repeating an upsert reports zero for both.
type WriteSummary struct {
	Team         string   `json:"team"`
	Players      []string `json:"players"`
	NodesCreated int      `json:"nodes_created"`
	EdgesCreated int      `json:"edges_created"`
}
