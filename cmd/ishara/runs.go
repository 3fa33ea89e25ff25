package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/ishara/internal/config"
	"github.com/ayusman/ishara/internal/gesture"
)

func runsAction(c *cli.Context) error {
	st, err := openStore(configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	out := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	defer out.Flush()

	if id := c.String(flagShowPreds); id != "" {
		if _, err := st.Runs().GetByID(id); err != nil {
			return fmt.Errorf("run %s: %w", id, err)
		}
		preds, err := st.Runs().Predictions(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "#\tIMAGE\tTRUE\tPREDICTED\tCONFIDENCE\tHAND\tTOP-3\tERROR\t")
		for _, p := range preds {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%.2f%%\t%s\t%s\t%s\t\n",
				p.Sequence+1, p.ImagePath, p.TrueLabel, p.Predicted, p.Confidence*100, yesNo(p.HandDetected), p.TopK, p.Error)
		}
		return nil
	}

	runs, err := st.Runs().List(c.Int(flagLimit))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "ID\tSTARTED\tBACKEND\tDETECTOR\tSOURCE\tACCURACY\t")
	for _, r := range runs {
		accuracy := "unfinished"
		if r.FinishedAt != nil {
			accuracy = fmt.Sprintf("%.2f%% (%d/%d)", r.Accuracy, r.Correct, r.Total)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Backend, r.Detector, r.Source, accuracy)
	}
	return nil
}

func thresholdsAction(c *cli.Context) error {
	cfg := configFrom(c)
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	policy := cfg.GetBandPolicy()
	if c.IsSet(flagHigh) || c.IsSet(flagMedium) {
		if c.IsSet(flagHigh) {
			policy.High = c.Float64(flagHigh)
		}
		if c.IsSet(flagMedium) {
			policy.Medium = c.Float64(flagMedium)
		}
		if err := config.SaveBandPolicy(st.Settings(), cfg.GetKind(), policy); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "%s backend: %s at %.1f%%, %s at %.1f%%, %s below\n",
		cfg.GetBackend(), gesture.BandHigh, policy.High, gesture.BandMedium, policy.Medium, gesture.BandLow)
	return nil
}
