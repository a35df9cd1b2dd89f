package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"riskwatch/internal/api"
)

type fakeClient struct {
	mu sync.Mutex

	predictions map[int]api.Prediction
	predictErr  map[int]error

	history    map[int][]api.Intervention
	historyErr error
	createErr  error

	created []api.Intervention
	nextID  int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		predictions: map[int]api.Prediction{},
		predictErr:  map[int]error{},
		history:     map[int][]api.Intervention{},
		nextID:      100,
	}
}

func (f *fakeClient) Predict(_ context.Context, id int) (api.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.predictErr[id]; err != nil {
		return api.Prediction{}, err
	}
	p, ok := f.predictions[id]
	if !ok {
		return api.Prediction{}, fmt.Errorf("no prediction stubbed for %d", id)
	}
	return p, nil
}

func (f *fakeClient) ListInterventions(_ context.Context, id int) ([]api.Intervention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return append([]api.Intervention(nil), f.history[id]...), nil
}

func (f *fakeClient) CreateIntervention(_ context.Context, id int, recommendation string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	iv := api.Intervention{
		ID:             f.nextID,
		StudentID:      id,
		Recommendation: recommendation,
		Status:         api.StatusPending,
	}
	f.history[id] = append(f.history[id], iv)
	f.created = append(f.created, iv)
	return nil
}

func atRisk(id int, rec string) api.Prediction {
	return api.Prediction{StudentID: id, Prediction: 1, Label: "At Risk", Recommendation: rec}
}

func notAtRisk(id int) api.Prediction {
	return api.Prediction{StudentID: id, Prediction: 0, Label: "Not At Risk"}
}

func rosterOf(ids ...int) []api.Student {
	var out []api.Student
	for _, id := range ids {
		out = append(out, api.Student{ID: id})
	}
	return out
}

func TestRefreshAllSuccess(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[1] = notAtRisk(1)
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	o := &Orchestrator{Client: fc}

	res := o.RefreshAll(context.Background(), rosterOf(1, 2))
	require.NoError(t, res.Err())
	require.Len(t, res.Predictions, 2)
	require.Empty(t, res.Errors)
}

func TestRefreshAllPartialFailureKeepsSuccesses(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[1] = notAtRisk(1)
	fc.predictions[3] = atRisk(3, "Advisor outreach")
	fc.predictErr[2] = errors.New("boom")
	o := &Orchestrator{Client: fc}

	res := o.RefreshAll(context.Background(), rosterOf(1, 2, 3))
	require.Error(t, res.Err())
	require.Len(t, res.Predictions, 2)
	require.Contains(t, res.Predictions, 1)
	require.Contains(t, res.Predictions, 3)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors, 2)
}

func TestRefreshAllEmptyRoster(t *testing.T) {
	t.Parallel()

	o := &Orchestrator{Client: newFakeClient()}
	res := o.RefreshAll(context.Background(), nil)
	require.NoError(t, res.Err())
	require.Empty(t, res.Predictions)
}

func TestPredictOneCreatesInterventionOnRisk(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	o := &Orchestrator{Client: fc}

	p, err := o.PredictOne(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, p.AtRisk())
	require.Len(t, fc.created, 1)
	require.Equal(t, "Schedule tutoring", fc.created[0].Recommendation)
	require.Equal(t, api.StatusPending, fc.created[0].Status)
}

func TestPredictOneIdempotent(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	o := &Orchestrator{Client: fc}

	_, err := o.PredictOne(context.Background(), 2)
	require.NoError(t, err)
	_, err = o.PredictOne(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, fc.created, 1, "repeat prediction with unchanged recommendation must not duplicate")
}

func TestPredictOneNewRecommendationCreatesAgain(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	o := &Orchestrator{Client: fc}

	_, err := o.PredictOne(context.Background(), 2)
	require.NoError(t, err)

	// the risk condition changed, so a different recommendation comes back
	fc.mu.Lock()
	fc.predictions[2] = atRisk(2, "Advisor outreach")
	fc.mu.Unlock()

	_, err = o.PredictOne(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, fc.created, 2)
}

func TestPredictOneCompletedDoesNotBlockNewEntry(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	fc.history[2] = []api.Intervention{
		{ID: 1, StudentID: 2, Recommendation: "Schedule tutoring", Status: api.StatusCompleted},
	}
	o := &Orchestrator{Client: fc}

	_, err := o.PredictOne(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, fc.created, 1, "only Pending entries guard against duplicates")
}

func TestPredictOneNotAtRiskNoSideEffect(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[1] = notAtRisk(1)
	o := &Orchestrator{Client: fc}

	p, err := o.PredictOne(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, p.AtRisk())
	require.Empty(t, fc.created)
}

func TestPredictOneTrackingFailureKeepsPrediction(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	fc.historyErr = errors.New("history unavailable")
	o := &Orchestrator{Client: fc}

	p, err := o.PredictOne(context.Background(), 2)
	require.Error(t, err)
	var te *TrackingError
	require.ErrorAs(t, err, &te)
	require.Equal(t, 2, te.StudentID)
	require.True(t, p.AtRisk(), "the prediction is still valid for display")
}

func TestPredictOneCreateFailureReported(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictions[2] = atRisk(2, "Schedule tutoring")
	fc.createErr = errors.New("write refused")
	o := &Orchestrator{Client: fc}

	p, err := o.PredictOne(context.Background(), 2)
	var te *TrackingError
	require.ErrorAs(t, err, &te)
	require.True(t, p.AtRisk())
}

func TestPredictOnePredictionFailure(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.predictErr[2] = errors.New("model offline")
	o := &Orchestrator{Client: fc}

	_, err := o.PredictOne(context.Background(), 2)
	require.Error(t, err)
	var te *TrackingError
	require.False(t, errors.As(err, &te), "a failed fetch is not a tracking error")
}
