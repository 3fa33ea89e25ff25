package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/ishara/internal/app"
	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/logging"
	"github.com/ayusman/ishara/internal/tray"
)

func cameraAction(c *cli.Context) error {
	cfg := configFrom(c)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	camCfg := cfg.GetCamera()
	if id := c.Int(flagCamera); id >= 0 {
		camCfg.DeviceID = id
	}

	var t *tray.Tray
	var renderer app.Renderer = app.NewLogRenderer()
	if c.Bool(flagTray) {
		t = tray.New()
		renderer = t
	}

	a, err := app.New(app.Config{
		Camera:          capture.NewCamera(camCfg),
		Pipeline:        pipeline,
		Renderer:        renderer,
		MotionThreshold: cfg.GetMotionThreshold(),
	})
	if err != nil {
		pipeline.Close()
		return err
	}
	if err := a.Start(); err != nil {
		pipeline.Close()
		return err
	}

	if t == nil {
		<-ctx.Done()
		return a.Stop()
	}
	return runTray(ctx, t, a)
}

// runTray blocks on the tray event loop until the user quits or ctx ends.
func runTray(ctx context.Context, t *tray.Tray, a *app.App) error {
	t.OnToggle(a.SetEnabled)
	t.OnQuit(func() { logging.Info(nil, "quit from tray") })
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
	return a.Stop()
}
