package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/colordetect/internal/capture"
	"github.com/ironsheep/colordetect/internal/config"
	"github.com/ironsheep/colordetect/internal/display"
	"github.com/ironsheep/colordetect/internal/log"
	"github.com/ironsheep/colordetect/internal/pipeline"
	"github.com/ironsheep/colordetect/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "colordetect: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "colordetect %s\n", Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	runCmd := &cli.Command{
		Name:  "run",
		Usage: "detect red, green and blue regions in a frame stream and show them annotated",
		Description: "Frames come from a camera, a video file or URL, or a glob of still images.\n" +
			"Press q in the window, or send q from the web page, to stop.",
		Flags:  config.Flags(),
		Action: runAction,
	}

	return &cli.App{
		Name:            "colordetect",
		Usage:           "live colour region detection",
		Version:         Version,
		HideHelpCommand: true,
		Flags:           config.Flags(),
		Action:          runAction,
		Commands: []*cli.Command{
			runCmd,
			{
				Name:  "mcp",
				Usage: "serve the detector as MCP tools over stdin and stdout",
				Description: "Logs go to stderr; stdout carries the protocol.\n" +
					"Configure it in your MCP client (e.g., Claude Desktop).",
				Flags:  []cli.Flag{config.LogLevelFlag()},
				Action: mcpAction,
			},
		},
	}
}

func runAction(c *cli.Context) error {
	cfg, err := config.FromCLI(c)
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("starting", zap.String("version", Version), zap.String("commit", GitCommit))

	source, err := capture.Open(cfg, logger.Named("capture"))
	if err != nil {
		return errors.Wrap(err, "opening frame source")
	}

	sink, err := display.Open(cfg, logger.Named("display"))
	if err != nil {
		if cerr := source.Close(); cerr != nil {
			logger.Warn("releasing source", zap.Error(cerr))
		}
		return errors.Wrap(err, "opening display")
	}

	runner := pipeline.NewRunner(source, sink, pipeline.Options{
		Window: cfg.Window,
		Logger: logger.Named("pipeline"),
	})
	stats, err := runner.Run(c.Context)
	logger.Info("done",
		zap.Int("frames", stats.Frames),
		zap.Int("regions", stats.Regions),
		zap.String("reason", string(stats.Reason)),
	)
	return err
}

func mcpAction(c *cli.Context) error {
	logger, err := log.New(c.String(config.FlagLogLevel))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("mcp server starting",
		zap.String("version", Version),
		zap.String("built", BuildTime),
		zap.String("commit", GitCommit),
	)
	return server.New(logger.Named("mcp"), Version).Run(c.Context)
}
