package ingest

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		name   string
		report StatusReport
		want   string
	}{
		{
			name:   "success",
			report: StatusReport{Kind: StatusSuccess, Team: "Los Primos", Players: []string{"Fernandez", "Gomez"}},
			want:   "✅ **Grafo actualizado exitosamente:**\n**Equipo:** Los Primos\n**Jugadores clave:** (2)\n  • Fernandez\n  • Gomez",
		},
		{
			name:   "no team",
			report: StatusReport{Kind: StatusNoTeamDetected},
			want:   "⚠️ No se detectó el nombre del equipo rival. Intenta incluirlo entre comillas, ej: Análisis de 'Los Primos' o rival 'Boca Unidos'",
		},
		{
			name:   "no players",
			report: StatusReport{Kind: StatusNoPlayersDetected, Team: "Los Primos"},
			want:   "⚠️ Se detectó el equipo 'Los Primos' pero no se encontraron jugadores. Incluye nombres entre comillas, ej: 'Martinez'",
		},
		{
			name:   "no entities",
			report: StatusReport{Kind: StatusNoEntitiesDetected},
			want:   "❌ No se encontraron entidades válidas para actualizar el grafo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Message(); got != tt.want {
				t.Fatalf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFailureMessage(t *testing.T) {
	got := WriteFailureMessage(errors.New("timeout"))
	if !strings.HasPrefix(got, "❌") || !strings.Contains(got, "timeout") {
		t.Fatalf("message = %q", got)
	}
}

func TestSuggestQuestions(t *testing.T) {
	org := func(s string) common.LabeledSpan { return common.LabeledSpan{Text: s, Label: common.LabelOrganization} }
	per := func(s string) common.LabeledSpan { return common.LabeledSpan{Text: s, Label: common.LabelPerson} }

	tests := []struct {
		name  string
		spans []common.LabeledSpan
		want  []string
	}{
		{
			name:  "first organization and person",
			spans: []common.LabeledSpan{per("Gomez"), org("Los Primos"), org("Boca Unidos"), per("Sosa")},
			want: []string{
				"¿Quién es el jugador clave de Los Primos?",
				"¿Qué información tenemos sobre Gomez?",
				AllRivalsQuestion,
			},
		},
		{
			name:  "no person",
			spans: []common.LabeledSpan{org("Los Primos")},
			want:  []string{AllRivalsQuestion},
		},
		{
			name:  "blank spans skipped",
			spans: []common.LabeledSpan{org(" "), org("Los Primos"), per(""), per("Diaz")},
			want: []string{
				"¿Quién es el jugador clave de Los Primos?",
				"¿Qué información tenemos sobre Diaz?",
				AllRivalsQuestion,
			},
		},
		{
			name: "no spans",
			want: []string{AllRivalsQuestion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestQuestions(tt.spans); !slices.Equal(got, tt.want) {
				t.Fatalf("SuggestQuestions() = %q, want %q", got, tt.want)
			}
		})
	}
}
