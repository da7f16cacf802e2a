// Package classifier holds a small two-layer dense network for binary
// classification of (height, weight) pairs, trained with Adam on
// binary cross-entropy.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

const (
	DefaultHidden       = 8
	DefaultLearningRate = 0.1
	Epochs              = 50

	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
	probEpsilon = 1e-7
)

var (
	ErrNoSamples   = errors.New("no training samples")
	ErrSingleClass = errors.New("training data contains a single class")
	ErrDiverged    = errors.New("training loss is not finite")
)

// Network is 2 inputs -> hidden tanh units -> 1 sigmoid output.
// Inputs are standardized with the statistics of the training set.
type Network struct {
	hidden int
	// params layout: w1 (hidden*2) | b1 (hidden) | w2 (hidden) | b2
	params []float64
	mean   [2]float64
	std    [2]float64
}

func New(hidden int, rng *rand.Rand) *Network {
	if hidden < 1 {
		hidden = DefaultHidden
	}
	n := &Network{
		hidden: hidden,
		params: make([]float64, hidden*4+1),
		std:    [2]float64{1, 1},
	}

	// Glorot uniform for both weight matrices, zero biases
	l1 := math.Sqrt(6.0 / float64(2+hidden))
	for i := 0; i < hidden*2; i++ {
		n.params[i] = (rng.Float64()*2 - 1) * l1
	}
	l2 := math.Sqrt(6.0 / float64(hidden+1))
	for i := 0; i < hidden; i++ {
		n.params[n.w2(i)] = (rng.Float64()*2 - 1) * l2
	}
	return n
}

func (n *Network) w1(j, k int) int { return j*2 + k }
func (n *Network) b1(j int) int    { return n.hidden*2 + j }
func (n *Network) w2(j int) int    { return n.hidden*3 + j }
func (n *Network) b2() int         { return n.hidden * 4 }

// Fit trains on the full batch for the given number of epochs and returns the
// loss after the last update.
func (n *Network) Fit(samples []domain.Sample, epochs int, lr float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	positives := 0
	for _, s := range samples {
		if s.Label != 0 && s.Label != 1 {
			return 0, fmt.Errorf("label %d is not 0 or 1", s.Label)
		}
		positives += s.Label
	}
	if positives == 0 || positives == len(samples) {
		return 0, ErrSingleClass
	}

	n.standardize(samples)

	xs := make([][2]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = n.scale(s.Height, s.Weight)
		ys[i] = float64(s.Label)
	}

	m := make([]float64, len(n.params))
	v := make([]float64, len(n.params))
	grad := make([]float64, len(n.params))
	hidden := make([]float64, n.hidden)

	for t := 1; t <= epochs; t++ {
		clear(grad)
		for i, x := range xs {
			p := n.forward(x, hidden)
			dz2 := (p - ys[i]) / float64(len(xs))
			for j, h := range hidden {
				grad[n.w2(j)] += dz2 * h
				dz1 := dz2 * n.params[n.w2(j)] * (1 - h*h)
				grad[n.w1(j, 0)] += dz1 * x[0]
				grad[n.w1(j, 1)] += dz1 * x[1]
				grad[n.b1(j)] += dz1
			}
			grad[n.b2()] += dz2
		}

		c1 := 1 - math.Pow(adamBeta1, float64(t))
		c2 := 1 - math.Pow(adamBeta2, float64(t))
		for k, g := range grad {
			m[k] = adamBeta1*m[k] + (1-adamBeta1)*g
			v[k] = adamBeta2*v[k] + (1-adamBeta2)*g*g
			n.params[k] -= lr * (m[k] / c1) / (math.Sqrt(v[k]/c2) + adamEpsilon)
		}
	}

	loss := n.loss(xs, ys, hidden)
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return loss, ErrDiverged
	}
	return loss, nil
}

// Predict returns the probability of class 1.
func (n *Network) Predict(height, weight float64) float64 {
	return n.forward(n.scale(height, weight), make([]float64, n.hidden))
}

func (n *Network) forward(x [2]float64, hidden []float64) float64 {
	z2 := n.params[n.b2()]
	for j := range hidden {
		z1 := n.params[n.w1(j, 0)]*x[0] + n.params[n.w1(j, 1)]*x[1] + n.params[n.b1(j)]
		hidden[j] = math.Tanh(z1)
		z2 += n.params[n.w2(j)] * hidden[j]
	}
	return sigmoid(z2)
}

func (n *Network) loss(xs [][2]float64, ys []float64, hidden []float64) float64 {
	var sum float64
	for i, x := range xs {
		p := math.Min(math.Max(n.forward(x, hidden), probEpsilon), 1-probEpsilon)
		sum -= ys[i]*math.Log(p) + (1-ys[i])*math.Log(1-p)
	}
	return sum / float64(len(xs))
}

func (n *Network) standardize(samples []domain.Sample) {
	var sum, sq [2]float64
	for _, s := range samples {
		sum[0] += s.Height
		sum[1] += s.Weight
		sq[0] += s.Height * s.Height
		sq[1] += s.Weight * s.Weight
	}
	count := float64(len(samples))
	for k := range 2 {
		n.mean[k] = sum[k] / count
		variance := sq[k]/count - n.mean[k]*n.mean[k]
		n.std[k] = math.Sqrt(math.Max(variance, 0))
		if n.std[k] < 1e-9 {
			n.std[k] = 1
		}
	}
}

func (n *Network) scale(height, weight float64) [2]float64 {
	return [2]float64{(height - n.mean[0]) / n.std[0], (weight - n.mean[1]) / n.std[1]}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
