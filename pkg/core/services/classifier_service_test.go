package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/moodsync/pkg/classifier"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

type stubSource struct {
	samples []domain.Sample
	err     error
}

func (s stubSource) Fetch(context.Context) ([]domain.Sample, error) {
	return s.samples, s.err
}

func TestClassifierFallsBackWhenSourceFails(t *testing.T) {
	s := NewClassifierService(stubSource{err: errors.New("connection refused")}, 50, WithSeed(1))

	assert.False(t, s.Status().Trained)
	_, err := s.Predict(170, 70)
	assert.ErrorIs(t, err, domain.ErrNotTrained)

	res, err := s.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DataSourceFallback, res.DataSource)
	assert.Equal(t, "폴백 데이터 사용", res.Warning)
	assert.Equal(t, len(classifier.FallbackSamples), res.Samples)
	assert.Equal(t, 50, res.Epochs)

	status := s.Status()
	assert.True(t, status.Trained)
	assert.NotNil(t, status.TrainedAt)
	assert.Equal(t, DataSourceFallback, status.DataSource)

	p, err := s.Predict(185, 110)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Prediction)
	assert.Equal(t, "overweight", p.Label)
	assert.GreaterOrEqual(t, p.Confidence, 0.5)
	assert.InDelta(t, p.Confidence, p.Probability, 1e-12)
}

func TestClassifierRemoteSingleClassFails(t *testing.T) {
	source := stubSource{samples: []domain.Sample{{Height: 170, Weight: 60}, {Height: 180, Weight: 70}}}
	s := NewClassifierService(source, 50, WithSeed(1))

	_, err := s.Train(context.Background())
	var terr *domain.TrainingError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, classifier.ErrSingleClass)
	assert.Contains(t, terr.Suggestion, "TRAINING_DATA_URL")
	assert.False(t, s.Status().Trained)
}

func TestClassifierPredictValidation(t *testing.T) {
	s := NewClassifierService(stubSource{samples: classifier.FallbackSamples}, 10, WithSeed(3))
	_, err := s.Train(context.Background())
	require.NoError(t, err)

	for _, in := range [][2]float64{{0, 70}, {170, -1}} {
		_, err := s.Predict(in[0], in[1])
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestClassifierConcurrentTrainAndPredict(t *testing.T) {
	s := NewClassifierService(stubSource{samples: classifier.FallbackSamples}, 20, WithSeed(5))
	_, err := s.Train(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Train(context.Background())
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.Predict(170, 70)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.True(t, s.Status().Trained)
}

// gatedSource blocks Fetch until released and records whether it ever saw
// its context cancelled.
type gatedSource struct {
	started   chan struct{}
	release   chan struct{}
	once      sync.Once
	mu        sync.Mutex
	cancelled bool
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSource) Fetch(ctx context.Context) ([]domain.Sample, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return classifier.FallbackSamples, nil
	case <-ctx.Done():
		g.mu.Lock()
		g.cancelled = true
		g.mu.Unlock()
		return nil, ctx.Err()
	}
}

func TestClassifierTrainSurvivesCallerCancel(t *testing.T) {
	source := newGatedSource()
	s := NewClassifierService(source, 20, WithSeed(9))

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Train(ctx)
		firstErr <- err
	}()
	<-source.started

	type outcome struct {
		res *domain.TrainingResult
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := s.Train(context.Background())
		second <- outcome{res, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(source.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, DataSourceRemote, got.res.DataSource)
	assert.Empty(t, got.res.Warning)
	assert.Equal(t, DataSourceRemote, s.Status().DataSource)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.False(t, source.cancelled, "fetch must not see the caller's cancellation")
}
