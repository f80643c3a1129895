package util

import (
	"net/http"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ingest"
)

func TestHTTPStatusFromReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind ingest.StatusKind
		want int
	}{
		{name: "success_is_ok", kind: ingest.StatusSuccess, want: http.StatusOK},
		{name: "no_team_is_unprocessable", kind: ingest.StatusNoTeamDetected, want: http.StatusUnprocessableEntity},
		{name: "no_players_is_unprocessable", kind: ingest.StatusNoPlayersDetected, want: http.StatusUnprocessableEntity},
		{name: "no_entities_is_unprocessable", kind: ingest.StatusNoEntitiesDetected, want: http.StatusUnprocessableEntity},
		{name: "unknown_is_internal_error", kind: ingest.StatusKind("weird"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatusFromReport(tc.kind); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBatchStatusCounts(t *testing.T) {
	t.Parallel()

	counts := BatchStatusCounts([]ingest.StatusReport{
		{Kind: ingest.StatusSuccess},
		{Kind: ingest.StatusNoTeamDetected},
		{Kind: ingest.StatusSuccess},
	})
	if counts[ingest.StatusSuccess] != 2 || counts[ingest.StatusNoTeamDetected] != 1 || len(counts) != 2 {
		t.Fatalf("counts = %v", counts)
	}
}
