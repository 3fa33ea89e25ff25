package evaluate

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/ayusman/ishara/internal/store"
)

// Save stores the report under run, which must already exist, and records
// the run totals. Every prediction is attempted; failures are combined.
func Save(runs *store.RunRepository, run *store.Run, report Report) error {
	var errs error
	for i, rec := range report.Records {
		p := &store.Prediction{
			RunID:        run.ID,
			Sequence:     i,
			ImagePath:    rec.Path,
			TrueLabel:    rec.TrueLabel,
			Predicted:    rec.Predicted,
			Confidence:   rec.Confidence,
			TopK:         rec.TopK,
			HandDetected: rec.HandDetected,
			Correct:      rec.Correct,
		}
		if rec.Err != nil {
			p.Error = rec.Err.Error()
		}
		if err := runs.AddPrediction(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("save %s: %w", rec.Path, err))
		}
	}

	if err := runs.Finish(run.ID, report.Total(), report.Correct, report.Accuracy()); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
