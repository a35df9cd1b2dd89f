// Package predict fetches predictions from the remote model and, on a
// positive verdict, keeps the intervention log in step with it.
package predict

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"riskwatch/internal/api"
)

// Client is the slice of the API the orchestrator needs.
type Client interface {
	Predict(ctx context.Context, studentID int) (api.Prediction, error)
	ListInterventions(ctx context.Context, studentID int) ([]api.Intervention, error)
	CreateIntervention(ctx context.Context, studentID int, recommendation string) error
}

// Orchestrator fans prediction requests out over the roster and
// enforces the create-once-per-recommendation rule.
type Orchestrator struct {
	Client Client
}

// BatchResult collects a refresh over the roster per student. A failed
// request lands in Errors under its student id; successes are kept
// regardless, so one bad record cannot blank out the whole dashboard.
type BatchResult struct {
	Predictions map[int]api.Prediction
	Errors      map[int]error
}

// Err summarizes the batch failure state, nil when every request
// succeeded. Student ids are listed in ascending order so the message
// is stable.
func (r BatchResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	ids := make([]int, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return fmt.Errorf("%d of %d predictions failed (first: student %d: %v)",
		len(r.Errors), len(r.Errors)+len(r.Predictions), ids[0], r.Errors[ids[0]])
}

// RefreshAll requests a prediction for every student concurrently and
// joins all completions before returning. Results are per-student; the
// caller merges Predictions into the roster store and surfaces Errors.
func (o *Orchestrator) RefreshAll(ctx context.Context, students []api.Student) BatchResult {
	res := BatchResult{
		Predictions: make(map[int]api.Prediction, len(students)),
		Errors:      make(map[int]error),
	}
	if len(students) == 0 {
		return res
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, st := range students {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p, err := o.Client.Predict(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors[id] = err
				return
			}
			res.Predictions[id] = p
		}(st.ID)
	}
	wg.Wait()
	return res
}

// TrackingError reports that the prediction itself succeeded but the
// intervention side effect did not. The prediction is still valid for
// display.
type TrackingError struct {
	StudentID int
	err       error
}

func (e *TrackingError) Error() string {
	return fmt.Sprintf("intervention tracking for student %d: %v", e.StudentID, e.err)
}

func (e *TrackingError) Unwrap() error { return e.err }

// PredictOne fetches a single prediction. When the student is flagged
// at risk, it ensures exactly one Pending intervention exists for the
// recommendation text: an existing matching Pending entry means the
// condition is already tracked and nothing is created.
//
// A failed history fetch or create comes back as *TrackingError
// alongside the (valid) prediction; it does not roll back or retry the
// prediction fetch.
func (o *Orchestrator) PredictOne(ctx context.Context, studentID int) (api.Prediction, error) {
	p, err := o.Client.Predict(ctx, studentID)
	if err != nil {
		return api.Prediction{}, err
	}
	if !p.AtRisk() {
		return p, nil
	}

	history, err := o.Client.ListInterventions(ctx, studentID)
	if err != nil {
		return p, &TrackingError{StudentID: studentID, err: err}
	}
	if hasPendingRecommendation(history, p.Recommendation) {
		return p, nil
	}
	if err := o.Client.CreateIntervention(ctx, studentID, p.Recommendation); err != nil {
		return p, &TrackingError{StudentID: studentID, err: err}
	}
	return p, nil
}

// hasPendingRecommendation is the idempotency guard: exact text match
// against Pending entries only. A linear scan is fine at roster scale;
// swap in an indexed lookup here if histories ever grow large.
func hasPendingRecommendation(history []api.Intervention, recommendation string) bool {
	for _, iv := range history {
		if iv.Pending() && iv.Recommendation == recommendation {
			return true
		}
	}
	return false
}
