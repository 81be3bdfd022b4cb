// Package config declares the command-line flags of the run command and
// turns them into a validated Config.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/colordetect/internal/log"
)

// Frame source kinds.
const (
	SourceCamera = "camera"
	SourceVideo  = "video"
	SourceStills = "stills"
)

// Display sink kinds.
const (
	DisplayWindow = "window"
	DisplayWeb    = "web"
)

// Flag names.
const (
	FlagSource   = "source"
	FlagDevice   = "device"
	FlagInput    = "input"
	FlagDisplay  = "display"
	FlagWebAddr  = "web-addr"
	FlagWindow   = "window"
	FlagLogLevel = "log-level"
)

// DefaultWindowName is the title of the annotated frame window.
const DefaultWindowName = "Color Detection"

// Config holds everything the run command needs.
type Config struct {
	Source   string // camera, video or stills
	Device   int    // camera index
	Input    string // video path or URL, or stills glob
	Display  string // window or web
	WebAddr  string // listen address of the web display
	Window   string // window title
	LogLevel string
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Source:   SourceCamera,
		Device:   0,
		Display:  DisplayWindow,
		WebAddr:  ":8080",
		Window:   DefaultWindowName,
		LogLevel: "info",
	}
}

// Flags declares the run command flags. Each one can also be set from a
// COLORDETECT_* environment variable.
func Flags() []cli.Flag {
	def := Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagSource,
			Usage:   "frame source: camera, video or stills",
			Value:   def.Source,
			EnvVars: []string{"COLORDETECT_SOURCE"},
		},
		&cli.IntFlag{
			Name:    FlagDevice,
			Usage:   "camera device index",
			Value:   def.Device,
			EnvVars: []string{"COLORDETECT_DEVICE"},
		},
		&cli.StringFlag{
			Name:    FlagInput,
			Aliases: []string{"i"},
			Usage:   "video file or stream URL, or a glob of still images",
			EnvVars: []string{"COLORDETECT_INPUT"},
		},
		&cli.StringFlag{
			Name:    FlagDisplay,
			Usage:   "where annotated frames go: window or web",
			Value:   def.Display,
			EnvVars: []string{"COLORDETECT_DISPLAY"},
		},
		&cli.StringFlag{
			Name:    FlagWebAddr,
			Usage:   "listen `ADDR` of the web display",
			Value:   def.WebAddr,
			EnvVars: []string{"COLORDETECT_WEB_ADDR"},
		},
		&cli.StringFlag{
			Name:    FlagWindow,
			Usage:   "window title",
			Value:   def.Window,
			EnvVars: []string{"COLORDETECT_WINDOW"},
		},
		LogLevelFlag(),
	}
}

// LogLevelFlag is the --log-level flag, shared by every command.
func LogLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    FlagLogLevel,
		Usage:   "log level: " + strings.Join(log.Levels, ", "),
		Value:   Default().LogLevel,
		EnvVars: []string{"COLORDETECT_LOG_LEVEL"},
	}
}

// FromCLI reads the flags declared by Flags and validates the result.
func FromCLI(c *cli.Context) (Config, error) {
	cfg := Config{
		Source:   strings.ToLower(c.String(FlagSource)),
		Device:   c.Int(FlagDevice),
		Input:    c.String(FlagInput),
		Display:  strings.ToLower(c.String(FlagDisplay)),
		WebAddr:  c.String(FlagWebAddr),
		Window:   c.String(FlagWindow),
		LogLevel: c.String(FlagLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the fields are consistent with each other.
func (c Config) Validate() error {
	switch c.Source {
	case SourceCamera:
		if c.Device < 0 {
			return errors.Errorf("camera device must be >= 0, got %d", c.Device)
		}
	case SourceVideo, SourceStills:
		if c.Input == "" {
			return errors.Errorf("source %q requires --%s", c.Source, FlagInput)
		}
	default:
		return errors.Errorf("unknown source %q", c.Source)
	}

	switch c.Display {
	case DisplayWindow:
		if c.Window == "" {
			return errors.New("window title must not be empty")
		}
	case DisplayWeb:
		if c.WebAddr == "" {
			return errors.Errorf("display %q requires --%s", c.Display, FlagWebAddr)
		}
	default:
		return errors.Errorf("unknown display %q", c.Display)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
