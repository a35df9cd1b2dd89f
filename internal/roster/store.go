// Package roster holds the reconciled client-side view of the student
// list and the latest prediction per student. The remote service is
// the source of truth; this store is rebuilt from it on every load.
package roster

import (
	"context"
	"sync"

	"riskwatch/internal/api"
)

// Client is the slice of the API the store needs.
type Client interface {
	ListStudents(ctx context.Context) ([]api.Student, error)
	CreateStudent(ctx context.Context, s api.Student) error
	UpdateStudent(ctx context.Context, id int, s api.Student) error
	DeleteStudent(ctx context.Context, id int) error
}

// Store keeps the roster and the prediction map. Reads and writes are
// guarded because loads run inside command goroutines while the view
// loop reads concurrently.
type Store struct {
	client Client

	mu          sync.RWMutex
	students    []api.Student
	predictions map[int]api.Prediction
}

// NewStore builds an empty store backed by client.
func NewStore(client Client) *Store {
	return &Store{
		client:      client,
		predictions: make(map[int]api.Prediction),
	}
}

// Load fetches the full roster and replaces the in-memory list. On
// failure the previous list stays intact so the UI keeps showing
// last-good data. Prediction entries for students that vanished are
// pruned; surviving ones are kept so a reload does not blank the risk
// column.
func (s *Store) Load(ctx context.Context) error {
	students, err := s.client.ListStudents(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = students
	alive := make(map[int]struct{}, len(students))
	for _, st := range students {
		alive[st.ID] = struct{}{}
	}
	for id := range s.predictions {
		if _, ok := alive[id]; !ok {
			delete(s.predictions, id)
		}
	}
	return nil
}

// Create delegates to the service. Callers re-run Load afterwards;
// there is no incremental patching.
func (s *Store) Create(ctx context.Context, st api.Student) error {
	return s.client.CreateStudent(ctx, st)
}

// Update delegates to the service; see Create for the reload contract.
func (s *Store) Update(ctx context.Context, id int, st api.Student) error {
	return s.client.UpdateStudent(ctx, id, st)
}

// Delete delegates to the service; see Create for the reload contract.
func (s *Store) Delete(ctx context.Context, id int) error {
	return s.client.DeleteStudent(ctx, id)
}

// Students returns a copy of the current roster in service order.
func (s *Store) Students() []api.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Student, len(s.students))
	copy(out, s.students)
	return out
}

// Predictions returns a copy of the student-id to prediction map.
// Absent entries mean "not yet predicted".
func (s *Store) Predictions() map[int]api.Prediction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]api.Prediction, len(s.predictions))
	for id, p := range s.predictions {
		out[id] = p
	}
	return out
}

// Prediction returns the latest prediction for one student.
func (s *Store) Prediction(id int) (api.Prediction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.predictions[id]
	return p, ok
}

// SetPrediction records the latest result for one student. Latest call
// wins; no history is kept client-side.
func (s *Store) SetPrediction(id int, p api.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[id] = p
}

// MergePredictions folds a batch refresh into the map. Only the
// students present in preds are touched, so a partial batch does not
// discard earlier results for the rest of the roster.
func (s *Store) MergePredictions(preds map[int]api.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range preds {
		s.predictions[id] = p
	}
}
