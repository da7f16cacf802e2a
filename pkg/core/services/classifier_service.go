package services

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wadjakorntonsri/moodsync/pkg/classifier"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
	"golang.org/x/sync/singleflight"
)

const (
	DataSourceRemote   = "remote"
	DataSourceFallback = "fallback"
	fallbackWarning    = "폴백 데이터 사용"
)

type trainedModel struct {
	net        *classifier.Network
	trainedAt  time.Time
	samples    int
	dataSource string
	loss       float64
}

// ClassifierService owns the single in-memory model. Training builds a new
// network and swaps it in, so predictions never see a half-trained model.
type ClassifierService struct {
	source ports.TrainingDataSource
	epochs int
	lr     float64
	newRNG func() *rand.Rand

	mu    sync.RWMutex
	model *trainedModel
	train singleflight.Group
}

type ClassifierOption func(*ClassifierService)

// WithSeed makes weight initialization deterministic.
func WithSeed(seed uint64) ClassifierOption {
	return func(s *ClassifierService) {
		s.newRNG = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
	}
}

func NewClassifierService(source ports.TrainingDataSource, epochs int, opts ...ClassifierOption) *ClassifierService {
	if epochs < 1 {
		epochs = classifier.Epochs
	}
	s := &ClassifierService{
		source: source,
		epochs: epochs,
		lr:     classifier.DefaultLearningRate,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train fetches data, falling back to the built-in rows, and fits a fresh
// model. Concurrent calls share one run. The run is detached from the
// caller's cancellation; a caller that goes away only stops waiting.
func (s *ClassifierService) Train(ctx context.Context) (*domain.TrainingResult, error) {
	ch := s.train.DoChan("train", func() (any, error) {
		return s.doTrain(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := *res.Val.(*domain.TrainingResult)
		return &result, nil
	}
}

func (s *ClassifierService) doTrain(ctx context.Context) (*domain.TrainingResult, error) {
	log := logger.FromContext(ctx).With("component", "ClassifierService")

	dataSource := DataSourceRemote
	samples, err := s.source.Fetch(ctx)
	if err != nil || len(samples) == 0 {
		log.Warn("Training data unavailable, using fallback rows", "error", err, "fallback_samples", len(classifier.FallbackSamples))
		samples = classifier.FallbackSamples
		dataSource = DataSourceFallback
	}

	net := classifier.New(classifier.DefaultHidden, s.newRNG())
	loss, err := net.Fit(samples, s.epochs, s.lr)
	if err != nil {
		log.Error("Training failed", "error", err, "data_source", dataSource)
		return nil, &domain.TrainingError{Err: err, Suggestion: suggestionFor(err, dataSource)}
	}

	model := &trainedModel{
		net:        net,
		trainedAt:  time.Now().UTC(),
		samples:    len(samples),
		dataSource: dataSource,
		loss:       loss,
	}
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()

	log.Info("Model trained", "samples", model.samples, "epochs", s.epochs, "loss", loss, "data_source", dataSource)

	result := &domain.TrainingResult{
		Message:    "model trained",
		DataSource: dataSource,
		Samples:    model.samples,
		Epochs:     s.epochs,
		FinalLoss:  loss,
	}
	if dataSource == DataSourceFallback {
		result.Warning = fallbackWarning
	}
	return result, nil
}

func (s *ClassifierService) Predict(height, weight float64) (*domain.Prediction, error) {
	if !(height > 0) || math.IsInf(height, 0) {
		return nil, domain.NewValidationError("height", "height must be a positive number")
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return nil, domain.NewValidationError("weight", "weight must be a positive number")
	}

	s.mu.RLock()
	model := s.model
	s.mu.RUnlock()
	if model == nil {
		return nil, domain.ErrNotTrained
	}

	p := model.net.Predict(height, weight)
	class := 0
	if p >= 0.5 {
		class = 1
	}
	return &domain.Prediction{
		Prediction:  class,
		Label:       classifier.Labels[class],
		Probability: p,
		Confidence:  math.Max(p, 1-p),
	}, nil
}

func (s *ClassifierService) Status() domain.ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.model == nil {
		return domain.ModelStatus{Trained: false}
	}
	trainedAt := s.model.trainedAt
	return domain.ModelStatus{
		Trained:    true,
		TrainedAt:  &trainedAt,
		Samples:    s.model.samples,
		DataSource: s.model.dataSource,
		FinalLoss:  s.model.loss,
	}
}

func suggestionFor(err error, dataSource string) string {
	switch {
	case errors.Is(err, classifier.ErrSingleClass) && dataSource == DataSourceRemote:
		return "The data source returned only one class. Check TRAINING_DATA_URL or unset it to train on the built-in rows."
	case errors.Is(err, classifier.ErrDiverged):
		return "Training diverged. Check the data for extreme or missing values and retry."
	case dataSource == DataSourceRemote:
		return "Check that TRAINING_DATA_URL serves [{height, weight, label}] with labels 0 or 1."
	default:
		return "Retry training. If it keeps failing, restart the service."
	}
}
