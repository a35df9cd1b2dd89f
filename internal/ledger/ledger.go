// Package ledger manages intervention history and the Pending to
// Completed transition. The status machine is closed: Pending is the
// sole initial state, Completed is terminal, and nothing else exists.
package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"riskwatch/internal/api"
)

// ErrAlreadyCompleted is returned when a completion is attempted on an
// intervention that is already Completed. Re-completion must fail, not
// silently succeed.
var ErrAlreadyCompleted = errors.New("intervention already completed")

// ErrUnknownIntervention is returned when the intervention id has not
// been seen by any prior ListFor, so its status cannot be verified.
var ErrUnknownIntervention = errors.New("unknown intervention")

// Client is the slice of the API the ledger needs.
type Client interface {
	ListInterventions(ctx context.Context, studentID int) ([]api.Intervention, error)
	CompleteIntervention(ctx context.Context, interventionID int, notes string) error
}

// Ledger fetches history and applies completions. It keeps the
// last-fetched state per intervention so the terminal-state rule is
// enforced before a request ever leaves the client.
type Ledger struct {
	client Client

	mu   sync.Mutex
	seen map[int]api.Intervention // by intervention id, last fetched state
}

// New builds a ledger backed by client.
func New(client Client) *Ledger {
	return &Ledger{client: client, seen: make(map[int]api.Intervention)}
}

// ListFor returns a student's interventions newest-first by created_at
// (id breaks ties so the order is total). The fetched state refreshes
// the completion guard's snapshot.
func (l *Ledger) ListFor(ctx context.Context, studentID int) ([]api.Intervention, error) {
	history, err := l.client.ListInterventions(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(history, func(i, j int) bool {
		ti, tj := history[i].CreatedTime(), history[j].CreatedTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return history[i].ID > history[j].ID
	})

	l.mu.Lock()
	for _, iv := range history {
		l.seen[iv.ID] = iv
	}
	l.mu.Unlock()
	return history, nil
}

// Complete transitions a Pending intervention to Completed with the
// given notes. Fails with ErrAlreadyCompleted when the last-fetched
// state is terminal, with ErrUnknownIntervention when the id was never
// fetched, and propagates the service's NotFound for ids deleted
// remotely. On success the snapshot is updated in place.
func (l *Ledger) Complete(ctx context.Context, interventionID int, notes string) error {
	l.mu.Lock()
	iv, ok := l.seen[interventionID]
	l.mu.Unlock()
	if !ok {
		return ErrUnknownIntervention
	}
	if iv.Status == api.StatusCompleted {
		return ErrAlreadyCompleted
	}

	if err := l.client.CompleteIntervention(ctx, interventionID, notes); err != nil {
		return err
	}

	l.mu.Lock()
	iv.Status = api.StatusCompleted
	iv.Notes = &notes
	l.seen[interventionID] = iv
	l.mu.Unlock()
	return nil
}
