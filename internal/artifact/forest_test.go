package artifact

import (
	"math"
	"testing"
)

// stumpRegressor builds a one-split tree: feature 0 <= threshold goes left.
func stumpRegressor(threshold, left, right float64) Tree {
	return Tree{Nodes: []Node{
		{Feature: 0, Threshold: threshold, Left: 1, Right: 2},
		{Feature: -1, Value: []float64{left}},
		{Feature: -1, Value: []float64{right}},
	}}
}

func TestForest_PredictRegression(t *testing.T) {
	t.Parallel()

	f := &Forest{
		NFeatures: 2,
		Trees: []Tree{
			stumpRegressor(50, 120, 40),
			stumpRegressor(60, 100, 20),
		},
	}

	// Feature 0 = 55: first tree goes right (40), second left (100).
	got, err := f.PredictRegression([]float64{55, 0})
	if err != nil {
		t.Fatalf("PredictRegression: %v", err)
	}
	if math.Abs(got-70) > 1e-9 {
		t.Errorf("mean = %v, want 70", got)
	}

	preds, err := f.TreePredictions([]float64{55, 0})
	if err != nil {
		t.Fatalf("TreePredictions: %v", err)
	}
	if len(preds) != 2 || preds[0] != 40 || preds[1] != 100 {
		t.Errorf("per-tree preds = %v, want [40 100]", preds)
	}
}

func TestForest_PredictRegression_WrongWidth(t *testing.T) {
	t.Parallel()

	f := &Forest{NFeatures: 2, Trees: []Tree{stumpRegressor(50, 1, 2)}}
	if _, err := f.PredictRegression([]float64{1}); err == nil {
		t.Error("PredictRegression accepted a 1-wide vector for a 2-feature forest")
	}
}

func TestForest_PredictClass(t *testing.T) {
	t.Parallel()

	// Two trees voting over 3 classes.
	f := &Forest{
		NFeatures: 1,
		NClasses:  3,
		Trees: []Tree{
			{Nodes: []Node{
				{Feature: 0, Threshold: 5, Left: 1, Right: 2},
				{Feature: -1, Value: []float64{1, 0, 0}},
				{Feature: -1, Value: []float64{0, 0, 1}},
			}},
			{Nodes: []Node{
				{Feature: 0, Threshold: 7, Left: 1, Right: 2},
				{Feature: -1, Value: []float64{0.5, 0.5, 0}},
				{Feature: -1, Value: []float64{0, 0.2, 0.8}},
			}},
		},
	}

	class, proba, err := f.PredictClass([]float64{3})
	if err != nil {
		t.Fatalf("PredictClass: %v", err)
	}
	if class != 0 {
		t.Errorf("class = %d, want 0", class)
	}
	var sum float64
	for _, p := range proba {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}

	class, _, err = f.PredictClass([]float64{9})
	if err != nil {
		t.Fatalf("PredictClass: %v", err)
	}
	if class != 2 {
		t.Errorf("class = %d, want 2", class)
	}
}

func TestForest_PredictClass_OnRegressor(t *testing.T) {
	t.Parallel()

	f := &Forest{NFeatures: 1, Trees: []Tree{stumpRegressor(1, 2, 3)}}
	if _, _, err := f.PredictClass([]float64{0}); err == nil {
		t.Error("PredictClass succeeded on a regressor forest")
	}
}

func TestForest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		forest Forest
		wantOK bool
	}{
		{
			name:   "valid",
			forest: Forest{NFeatures: 1, Trees: []Tree{stumpRegressor(1, 2, 3)}},
			wantOK: true,
		},
		{
			name:   "no trees",
			forest: Forest{NFeatures: 1},
			wantOK: false,
		},
		{
			name:   "zero features",
			forest: Forest{NFeatures: 0, Trees: []Tree{stumpRegressor(1, 2, 3)}},
			wantOK: false,
		},
		{
			name: "feature index out of range",
			forest: Forest{NFeatures: 1, Trees: []Tree{{Nodes: []Node{
				{Feature: 3, Threshold: 1, Left: 1, Right: 1},
				{Feature: -1, Value: []float64{1}},
			}}}},
			wantOK: false,
		},
		{
			name: "child out of range",
			forest: Forest{NFeatures: 1, Trees: []Tree{{Nodes: []Node{
				{Feature: 0, Threshold: 1, Left: 5, Right: 1},
				{Feature: -1, Value: []float64{1}},
			}}}},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.forest.validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestTree_CyclicTreeTerminates(t *testing.T) {
	t.Parallel()

	// A malformed tree whose nodes point at each other must error out
	// instead of spinning.
	tree := Tree{Nodes: []Node{
		{Feature: 0, Threshold: 1, Left: 1, Right: 1},
		{Feature: 0, Threshold: 1, Left: 0, Right: 0},
	}}
	if _, err := tree.evaluate([]float64{0}); err == nil {
		t.Error("evaluate returned nil error for a cyclic tree")
	}
}
