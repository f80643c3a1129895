package common

import "testing"

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"PER", LabelPerson},
		{"person", LabelPerson},
		{"ORG", LabelOrganization},
		{" Organization ", LabelOrganization},
		{"LOC", LabelLocation},
		{"GPE", LabelLocation},
		{"MISC", LabelOther},
		{"", LabelOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLabel(tt.in); got != tt.want {
				t.Fatalf("ParseLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolvedIdentityPredicates(t *testing.T) {
	var empty ResolvedIdentity
	if empty.HasTeam() || empty.HasPlayers() {
		t.Fatalf("zero identity must report no team and no players")
	}

	r := ResolvedIdentity{TeamName: "Boca Unidos", PlayerNames: []string{"Fernandez"}}
	if !r.HasTeam() || !r.HasPlayers() {
		t.Fatalf("expected team and players, got %+v", r)
	}
}

func TestLabelDisplayName(t *testing.T) {
	tests := []struct {
		label Label
		want  string
	}{
		{LabelOrganization, "Organización (Equipo)"},
		{LabelPerson, "Persona (Jugador)"},
		{LabelLocation, "Lugar"},
		{LabelOther, "Otro"},
		{Label("DATE"), "Otro"},
	}
	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			if got := tt.label.DisplayName(); got != tt.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
