package domain

import "time"

// Sample is one labelled training row
type Sample struct {
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Label  int     `json:"label"`
}

// Prediction is the classifier output for a single input
type Prediction struct {
	Prediction  int     `json:"prediction"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// TrainingResult summarizes a completed training run
type TrainingResult struct {
	Message    string  `json:"message"`
	Warning    string  `json:"warning,omitempty"`
	DataSource string  `json:"dataSource"`
	Samples    int     `json:"samples"`
	Epochs     int     `json:"epochs"`
	FinalLoss  float64 `json:"finalLoss"`
}

// ModelStatus reports whether a model is currently held in memory
type ModelStatus struct {
	Trained    bool       `json:"trained"`
	TrainedAt  *time.Time `json:"trainedAt,omitempty"`
	Samples    int        `json:"samples,omitempty"`
	DataSource string     `json:"dataSource,omitempty"`
	FinalLoss  float64    `json:"finalLoss,omitempty"`
}
