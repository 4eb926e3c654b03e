package predictor

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Confidence bounds for the per-tree spread estimator.
const (
	minConfidence = 0.5
	maxConfidence = 0.99
)

// treeConfidence estimates prediction confidence from ensemble agreement:
// 1 - stddev/mean over the per-tree outputs, clamped to [0.5, 0.99]. Tight
// agreement between trees reads as high confidence.
func treeConfidence(preds []float64) float64 {
	if len(preds) == 0 {
		return minConfidence
	}
	mean := stat.Mean(preds, nil)
	std := 0.0
	if len(preds) > 1 {
		std = stat.StdDev(preds, nil)
	}
	c := 1 - std/(mean+1e-6)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return minConfidence
	}
	return clamp(c, minConfidence, maxConfidence)
}
