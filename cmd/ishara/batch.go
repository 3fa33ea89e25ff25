package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/ishara/internal/evaluate"
	"github.com/ayusman/ishara/internal/store"
)

// imageExts are the file types picked up from a batch folder.
var imageExts = []string{".jpg", ".jpeg", ".png", ".bmp"}

// listImages returns the image files directly inside dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(imageExts, strings.ToLower(filepath.Ext(e.Name()))) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func batchAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("batch needs exactly one folder argument")
	}
	dir := c.Args().First()
	cfg := configFrom(c)

	paths, err := listImages(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pipeline, err := newPipeline(c.Context, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	out := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "IMAGE\tTRUE\tPREDICTED\tCONFIDENCE\tHAND\tTOP-3\t")
	report, err := evaluate.New(pipeline, nil, cfg.GetTopK()).Run(c.Context, paths, func(_ int, r evaluate.Record) {
		mark := " "
		if r.Correct {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s\t%s\t%s %s\t%.2f%%\t%s\t%s\t\n",
			filepath.Base(r.Path), r.TrueLabel, mark, r.Predicted, r.Confidence*100, yesNo(r.HandDetected), r.TopK)
	})
	out.Flush()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "\nOverall accuracy: %.2f%% (%d/%d)\n", report.Accuracy(), report.Correct, report.Total())

	if c.Bool(flagNoSave) {
		return nil
	}
	run := &store.Run{Backend: string(pipeline.Kind()), Detector: cfg.GetDetector(), Source: dir}
	if err := st.Runs().Create(run); err != nil {
		return err
	}
	if err := evaluate.Save(st.Runs(), run, report); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Recorded as run %s\n", run.ID)
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
