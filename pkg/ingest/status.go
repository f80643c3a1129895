package ingest

import (
	"fmt"
	"strings"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
)

// StatusKind classifies the outcome of one ingestion.
type StatusKind string

const (
	StatusSuccess            StatusKind = "success"
	StatusNoTeamDetected     StatusKind = "no_team_detected"
	StatusNoPlayersDetected  StatusKind = "no_players_detected"
	StatusNoEntitiesDetected StatusKind = "no_entities_detected"
)

// AllRivalsQuestion is always suggested after a successful ingestion.
const AllRivalsQuestion = "¿Qué rivales tenemos en la base de datos?"

// StatusReport is the user-facing result of ingesting a report. Team is set
// for StatusSuccess and StatusNoPlayersDetected, Players, Summary and
// Suggestions only for StatusSuccess. Entities holds the spans the report was
// resolved from.
type StatusReport struct {
	Kind        StatusKind           `json:"kind"`
	Team        string               `json:"team,omitempty"`
	Players     []string             `json:"players,omitempty"`
	Summary     *common.WriteSummary `json:"summary,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
	Entities    []common.LabeledSpan `json:"entities,omitempty"`
}

// SuggestQuestions returns follow-up questions for the coach. The first
// organization and the first person span name the rival and the player;
// both are needed for the personalized questions.
func SuggestQuestions(spans []common.LabeledSpan) []string {
	var rival, player string
	for _, s := range spans {
		name := strings.TrimSpace(s.Text)
		if name == "" {
			continue
		}
		switch s.Label {
		case common.LabelOrganization:
			if rival == "" {
				rival = name
			}
		case common.LabelPerson:
			if player == "" {
				player = name
			}
		}
	}

	out := make([]string, 0, 3)
	if rival != "" && player != "" {
		out = append(out,
			fmt.Sprintf("¿Quién es el jugador clave de %s?", rival),
			fmt.Sprintf("¿Qué información tenemos sobre %s?", player),
		)
	}
	return append(out, AllRivalsQuestion)
}

// Message renders the report as the Markdown text shown to the coach.
func (r StatusReport) Message() string {
	switch r.Kind {
	case StatusSuccess:
		var b strings.Builder
		b.WriteString("✅ **Grafo actualizado exitosamente:**\n")
		fmt.Fprintf(&b, "**Equipo:** %s\n", r.Team)
		fmt.Fprintf(&b, "**Jugadores clave:** (%d)\n", len(r.Players))
		for i, p := range r.Players {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "  • %s", p)
		}
		return b.String()
	case StatusNoTeamDetected:
		return "⚠️ No se detectó el nombre del equipo rival. Intenta incluirlo entre comillas, ej: Análisis de 'Los Primos' o rival 'Boca Unidos'"
	case StatusNoPlayersDetected:
		return fmt.Sprintf("⚠️ Se detectó el equipo '%s' pero no se encontraron jugadores. Incluye nombres entre comillas, ej: 'Martinez'", r.Team)
	default:
		return "❌ No se encontraron entidades válidas para actualizar el grafo."
	}
}

// WriteFailureMessage renders a store failure for the coach.
func WriteFailureMessage(err error) string {
	return fmt.Sprintf("❌ Error al escribir en el grafo: %v", err)
}
