// Package submission applies a trained ensemble to held-out records and
// emits (identifier, predicted label) pairs. No retraining happens here.
package submission

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"titanic-ml/internal/crossval"
	"titanic-ml/internal/dataset"
	"titanic-ml/internal/features"
)

// Builder runs the same feature extractor and the same
// averaging-and-thresholding rule used during evaluation against new
// records.
type Builder struct {
	extractor *features.Extractor
	ensemble  *crossval.Ensemble
}

// NewBuilder wires a fitted ensemble to the shared extractor.
func NewBuilder(extractor *features.Extractor, ensemble *crossval.Ensemble) *Builder {
	return &Builder{extractor: extractor, ensemble: ensemble}
}

// Build predicts a survival label per record and writes the two-column
// submission file in input row order.
func (b *Builder) Build(passengers []dataset.Passenger, outPath string) error {
	X, err := b.extractor.Extract(passengers)
	if err != nil {
		return fmt.Errorf("failed to extract features: %w", err)
	}

	preds, err := b.ensemble.Predict(X)
	if err != nil {
		return fmt.Errorf("failed to predict: %w", err)
	}

	ids := make([]int, len(passengers))
	labels := make([]int, len(passengers))
	for i := range passengers {
		ids[i] = passengers[i].ID
		labels[i] = int(preds[i])
	}

	if err := dataset.WriteSubmission(outPath, ids, labels); err != nil {
		return err
	}

	log.Info().Int("rows", len(ids)).Str("file", outPath).Msg("Submission built")
	return nil
}
