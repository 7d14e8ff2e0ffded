package usecase

import (
	"context"
	"fmt"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
)

// SignalRecorder fans an emitted signal out to the journal and the publisher.
// Both backends are optional; a failure in one does not stop the other.
type SignalRecorder struct {
	journal   domrepo.SignalJournal
	publisher domrepo.SignalPublisher
}

// NewSignalRecorder creates a recorder over the configured backends.
func NewSignalRecorder(journal domrepo.SignalJournal, publisher domrepo.SignalPublisher) *SignalRecorder {
	return &SignalRecorder{journal: journal, publisher: publisher}
}

var _ domrepo.SignalSink = (*SignalRecorder)(nil)

func (r *SignalRecorder) Record(ctx context.Context, sig *models.SignalAnalysis) error {
	var journalErr, publishErr error
	if r.journal != nil {
		journalErr = r.journal.Insert(ctx, sig)
	}
	if r.publisher != nil {
		publishErr = r.publisher.Publish(ctx, sig)
	}
	if journalErr != nil {
		return fmt.Errorf("journal signal: %w", journalErr)
	}
	if publishErr != nil {
		return fmt.Errorf("publish signal: %w", publishErr)
	}
	return nil
}

func (r *SignalRecorder) Close() error {
	var firstErr error
	if r.journal != nil {
		if err := r.journal.Close(); err != nil {
			firstErr = err
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
