// internal/services/results_service.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/store"
	"github.com/shannenjosh/verifyeye/internal/textproc"
)

// maxInputSnippet bounds the persisted copy of the request input.
const maxInputSnippet = 500

// ResultsService logs request/response pairs to the results store.
// Writes are fire-and-forget: the orchestrators return their result
// before the write is durable, and a persistence failure never affects
// the caller-visible response.
type ResultsService struct {
	store store.Store

	appendTimeout time.Duration
}

// NewResultsService creates the persistence side-call service.
func NewResultsService(st store.Store) *ResultsService {
	return &ResultsService{
		store:         st,
		appendTimeout: 10 * time.Second,
	}
}

// Record persists one analysis asynchronously. Failures are logged and
// swallowed; there is no inline retry.
func (s *ResultsService) Record(recordType models.AnalysisType, input string, output interface{}) {
	payload, err := json.Marshal(output)
	if err != nil {
		log.Printf("results: failed to marshal %s output: %v", recordType, err)
		return
	}

	record := models.AnalysisRecord{
		ID:           uuid.NewString(),
		Type:         recordType,
		InputSnippet: textproc.Snippet(input, maxInputSnippet),
		Output:       payload,
		CreatedAt:    time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.appendTimeout)
		defer cancel()

		if err := s.store.Append(ctx, record); err != nil {
			log.Printf("results: failed to persist %s record: %v", recordType, err)
		}
	}()
}

// Recent returns the newest persisted records.
func (s *ResultsService) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	return s.store.Recent(ctx, limit)
}
