package util

import (
	"net/http"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ingest"
)

// HTTPStatusFromReport maps an ingestion outcome to the response code. A
// report that resolved nothing writable is the caller's input problem.
func HTTPStatusFromReport(kind ingest.StatusKind) int {
	switch kind {
	case ingest.StatusSuccess:
		return http.StatusOK
	case ingest.StatusNoTeamDetected, ingest.StatusNoPlayersDetected, ingest.StatusNoEntitiesDetected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BatchStatusCounts tallies batch results per outcome.
func BatchStatusCounts(reports []ingest.StatusReport) map[ingest.StatusKind]int {
	counts := make(map[ingest.StatusKind]int)
	for _, r := range reports {
		counts[r.Kind]++
	}
	return counts
}
