package artifact

import "fmt"

// Node is one decision node in a serialized tree. Leaf nodes carry the
// output vector and have Feature == -1.
type Node struct {
	Feature   int       `json:"feature"` // -1 marks a leaf
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"` // leaf output: [rul] or per-class scores
}

// Tree is a flattened binary decision tree. Node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a serialized tree ensemble. NClasses == 0 denotes a regressor;
// classifiers carry per-class scores in their leaves.
type Forest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes,omitempty"`
	Trees     []Tree `json:"trees"`
}

// evaluate walks one tree and returns its leaf output vector.
func (t *Tree) evaluate(features []float64) ([]float64, error) {
	idx := 0
	// Bounded by node count so a corrupt cyclic tree cannot spin forever.
	for step := 0; step <= len(t.Nodes); step++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", idx)
		}
		n := t.Nodes[idx]
		if n.Feature < 0 {
			if len(n.Value) == 0 {
				return nil, fmt.Errorf("leaf node %d has no value", idx)
			}
			return n.Value, nil
		}
		if n.Feature >= len(features) {
			return nil, fmt.Errorf("node %d references feature %d, input has %d", idx, n.Feature, len(features))
		}
		if features[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return nil, fmt.Errorf("tree traversal did not reach a leaf")
}

// validate checks structural sanity once at load time.
func (f *Forest) validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("forest declares %d features", f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature >= f.NFeatures {
				return fmt.Errorf("tree %d node %d references feature %d of %d", ti, ni, n.Feature, f.NFeatures)
			}
			if n.Feature >= 0 && (n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes)) {
				return fmt.Errorf("tree %d node %d has child out of range", ti, ni)
			}
		}
	}
	return nil
}

// TreePredictions returns each tree's scalar regression output. Used by the
// confidence estimator, which needs the per-tree spread.
func (f *Forest) TreePredictions(features []float64) ([]float64, error) {
	if len(features) != f.NFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", f.NFeatures, len(features))
	}
	out := make([]float64, 0, len(f.Trees))
	for i := range f.Trees {
		v, err := f.Trees[i].evaluate(features)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		out = append(out, v[0])
	}
	return out, nil
}

// PredictRegression returns the ensemble mean of the per-tree outputs.
func (f *Forest) PredictRegression(features []float64) (float64, error) {
	preds, err := f.TreePredictions(features)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range preds {
		sum += p
	}
	return sum / float64(len(preds)), nil
}

// PredictClass averages per-class scores across trees, normalizes them into
// a probability distribution, and returns the argmax class with the
// distribution.
func (f *Forest) PredictClass(features []float64) (int, []float64, error) {
	if f.NClasses <= 0 {
		return 0, nil, fmt.Errorf("forest is not a classifier")
	}
	if len(features) != f.NFeatures {
		return 0, nil, fmt.Errorf("expected %d features, got %d", f.NFeatures, len(features))
	}

	scores := make([]float64, f.NClasses)
	for i := range f.Trees {
		v, err := f.Trees[i].evaluate(features)
		if err != nil {
			return 0, nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if len(v) != f.NClasses {
			return 0, nil, fmt.Errorf("tree %d leaf has %d classes, forest declares %d", i, len(v), f.NClasses)
		}
		for c, s := range v {
			scores[c] += s
		}
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	if total > 0 {
		for c := range scores {
			scores[c] /= total
		}
	}

	best := 0
	for c := 1; c < f.NClasses; c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return best, scores, nil
}
