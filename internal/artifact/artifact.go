// Package artifact loads and describes trained model bundles. A bundle is a
// directory of JSON documents: tree ensembles, a feature scaler, and a
// metadata document. Discovery prefers the full health bundle, then the
// direct three-feature RUL model, then the legacy fourteen-feature model.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sentinel errors distinguishing why no usable model is available. Both are
// recoverable: the engine falls back to heuristics.
var (
	// ErrMissing means no artifact files were found at the configured path.
	ErrMissing = errors.New("model artifact missing")
	// ErrCorrupt means artifact files exist but failed to parse or validate.
	ErrCorrupt = errors.New("model artifact corrupt")
)

// Artifact file names within the bundle directory.
const (
	classifierFile   = "health_classifier.json"
	regressorFile    = "rul_regressor.json"
	scalerFile       = "feature_scaler.json"
	metadataFile     = "model_metadata.json"
	directModelFile  = "industrial_model.json"
	directScalerFile = "industrial_scaler.json"
	legacyModelFile  = "rul_model.json"
	legacyScalerFile = "scaler.json"
)

// Set is an immutable, fully-validated model bundle. Constructed once at
// startup and shared by reference; never mutated after Load returns.
type Set struct {
	Classifier *Forest // nil for RUL-only bundles
	Regressor  *Forest
	Scaler     *Scaler
	Meta       Metadata
	Schema     Schema
	// SchemaGuessed is set when the model's feature count matched no known
	// layout and the three-feature mapping was assumed.
	SchemaGuessed bool
}

// HasClassifier reports whether the bundle supports the classifier verdict path.
func (s *Set) HasClassifier() bool {
	return s != nil && s.Classifier != nil
}

// Load discovers and validates the best available bundle under dir. The
// context bounds cold-start time; loading checks it between files. Returns
// ErrMissing when the directory holds no recognizable bundle and ErrCorrupt
// when files exist but cannot be used.
func Load(ctx context.Context, dir string) (*Set, error) {
	// Full bundle: classifier + regressor + scaler (+ optional metadata).
	if fileExists(dir, classifierFile) && fileExists(dir, regressorFile) {
		return loadFull(ctx, dir)
	}

	// Direct three-feature RUL model wins over the legacy projection model.
	if fileExists(dir, directModelFile) {
		return loadRULOnly(ctx, dir, directModelFile, directScalerFile, Schema{Kind: KindThreeFeature})
	}
	if fileExists(dir, legacyModelFile) {
		return loadRULOnly(ctx, dir, legacyModelFile, legacyScalerFile, Schema{Kind: KindFourteenFeature})
	}

	return nil, fmt.Errorf("%w: no model files under %s", ErrMissing, dir)
}

func loadFull(ctx context.Context, dir string) (*Set, error) {
	set := &Set{Meta: DefaultMetadata()}

	if fileExists(dir, metadataFile) {
		var meta Metadata
		if err := readJSON(ctx, dir, metadataFile, &meta); err != nil {
			return nil, err
		}
		set.Meta = meta.normalize()
	}

	set.Classifier = &Forest{}
	if err := readJSON(ctx, dir, classifierFile, set.Classifier); err != nil {
		return nil, err
	}
	set.Regressor = &Forest{}
	if err := readJSON(ctx, dir, regressorFile, set.Regressor); err != nil {
		return nil, err
	}
	if err := set.Classifier.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, classifierFile, err)
	}
	if set.Classifier.NClasses <= 0 {
		return nil, fmt.Errorf("%w: %s is not a classifier", ErrCorrupt, classifierFile)
	}
	if err := set.Regressor.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, regressorFile, err)
	}

	if fileExists(dir, scalerFile) {
		set.Scaler = &Scaler{}
		if err := readJSON(ctx, dir, scalerFile, set.Scaler); err != nil {
			return nil, err
		}
		if err := set.Scaler.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, scalerFile, err)
		}
		if len(set.Scaler.Mean) != set.Regressor.NFeatures {
			return nil, fmt.Errorf("%w: scaler covers %d features, regressor expects %d",
				ErrCorrupt, len(set.Scaler.Mean), set.Regressor.NFeatures)
		}
	}
	if set.Classifier.NFeatures != set.Regressor.NFeatures {
		return nil, fmt.Errorf("%w: classifier expects %d features, regressor %d",
			ErrCorrupt, set.Classifier.NFeatures, set.Regressor.NFeatures)
	}

	schema, known := SchemaFor(set.Regressor.NFeatures, set.Meta)
	set.Schema = schema
	set.SchemaGuessed = !known
	return set, nil
}

func loadRULOnly(ctx context.Context, dir, modelName, scalerName string, schema Schema) (*Set, error) {
	set := &Set{Meta: DefaultMetadata(), Schema: schema}

	set.Regressor = &Forest{}
	if err := readJSON(ctx, dir, modelName, set.Regressor); err != nil {
		return nil, err
	}
	if err := set.Regressor.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, modelName, err)
	}

	if fileExists(dir, scalerName) {
		set.Scaler = &Scaler{}
		if err := readJSON(ctx, dir, scalerName, set.Scaler); err != nil {
			return nil, err
		}
		if err := set.Scaler.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, scalerName, err)
		}
		if len(set.Scaler.Mean) != set.Regressor.NFeatures {
			return nil, fmt.Errorf("%w: scaler covers %d features, model expects %d",
				ErrCorrupt, len(set.Scaler.Mean), set.Regressor.NFeatures)
		}
	}

	// The file name implies a layout, but trust the model's own feature
	// count when they disagree.
	if set.Regressor.NFeatures != featureCount(schema.Kind) {
		resolved, known := SchemaFor(set.Regressor.NFeatures, set.Meta)
		set.Schema = resolved
		set.SchemaGuessed = !known
	}
	return set, nil
}

func featureCount(k Kind) int {
	switch k {
	case KindFiveFeature:
		return 5
	case KindFourteenFeature:
		return 14
	default:
		return 3
	}
}

func fileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

func readJSON(ctx context.Context, dir, name string, target any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("artifact load canceled: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrCorrupt, name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

// Loader memoizes a single Load so concurrent callers share one cold start.
type Loader struct {
	dir  string
	once sync.Once
	set  *Set
	err  error
}

// NewLoader creates a Loader for the given bundle directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Get loads the bundle on first call and returns the memoized result after.
func (l *Loader) Get(ctx context.Context) (*Set, error) {
	l.once.Do(func() {
		l.set, l.err = Load(ctx, l.dir)
	})
	return l.set, l.err
}
