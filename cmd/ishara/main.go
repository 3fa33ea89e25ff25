// Command ishara recognizes hand signs from a camera or a folder of images.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/ishara/internal/config"
	"github.com/ayusman/ishara/internal/logging"
)

const (
	flagConfig    = "config"
	flagEnvFile   = "env-file"
	flagBackend   = "backend"
	flagDetector  = "detector"
	flagLabels    = "labels"
	flagModel     = "model"
	flagDB        = "db"
	flagLogLevel  = "log-level"
	flagLogFile   = "log-file"
	flagCamera    = "camera"
	flagTray      = "tray"
	flagNoSave    = "no-save"
	flagLimit     = "limit"
	flagHigh      = "high"
	flagMedium    = "medium"
	flagShowPreds = "predictions"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ishara:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ishara",
		Usage: "hand sign recognition",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "JSON config file",
				Value: config.DefaultConfigPath,
			},
			&cli.StringFlag{
				Name:  flagEnvFile,
				Usage: "dotenv file loaded before reading ISHARA_* variables",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  flagBackend,
				Usage: "classifier backend: cnn or svm",
			},
			&cli.StringFlag{
				Name:  flagDetector,
				Usage: "hand detector: landmark or learned",
			},
			&cli.StringFlag{
				Name:  flagLabels,
				Usage: "labels file, one label per line in model output order",
			},
			&cli.StringFlag{
				Name:  flagModel,
				Usage: "model file passed to the classifier service",
			},
			&cli.StringFlag{
				Name:  flagDB,
				Usage: "SQLite database path",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to this rotating file",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "camera",
				Usage: "recognize signs from a live camera",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagCamera,
						Usage: "camera device id",
						Value: -1,
					},
					&cli.BoolFlag{
						Name:  flagTray,
						Usage: "show the locked sign in the system tray",
					},
				},
				Action: cameraAction,
			},
			{
				Name:      "batch",
				Usage:     "evaluate every image in a folder; file names start with the true label",
				ArgsUsage: "<folder>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagNoSave,
						Usage: "do not record the run in the database",
					},
				},
				Action: batchAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded evaluation runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagLimit,
						Usage: "number of runs to show",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  flagShowPreds,
						Usage: "show the per-image predictions of this run id",
					},
				},
				Action: runsAction,
			},
			{
				Name:  "thresholds",
				Usage: "show or store the confidence band thresholds of the selected backend",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  flagHigh,
						Usage: "percent at which a sign is shown as high confidence",
					},
					&cli.Float64Flag{
						Name:  flagMedium,
						Usage: "percent at which a sign is shown as medium confidence",
					},
				},
				Action: thresholdsAction,
			},
		},
	}
}

// setup loads configuration and configures logging before any command runs.
func setup(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String(flagEnvFile)); err != nil {
		return err
	}

	cfg, err := config.LoadOptional(c.String(flagConfig))
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	if err := logging.Setup(logging.Options{Level: cfg.GetLogLevel(), File: cfg.GetLogFile()}); err != nil {
		return err
	}

	c.App.Metadata = map[string]any{"config": cfg}
	return nil
}

// applyFlags lets explicit global flags win over file and environment values.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	for flag, field := range map[string]**string{
		flagBackend:  &cfg.Backend,
		flagDetector: &cfg.Detector,
		flagLabels:   &cfg.LabelsFile,
		flagModel:    &cfg.ModelPath,
		flagDB:       &cfg.DBPath,
		flagLogLevel: &cfg.LogLevel,
		flagLogFile:  &cfg.LogFile,
	} {
		if c.IsSet(flag) {
			v := c.String(flag)
			*field = &v
		}
	}
	return cfg.Validate()
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}
