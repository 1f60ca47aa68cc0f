package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/abcscene/internal/app"
	"github.com/vk/abcscene/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Values from a -config file act as defaults that explicit flags override.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("abcscene", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
abcscene - Inspect animated scene archives at a point in time.

Usage:
  abcscene [options] ARCHIVE_PATH...

Arguments:
  ARCHIVE_PATH
    Path to an archive file (.abc.hcl, .hcl) or a directory searched recursively.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := config.Default()
	configFlag := flagSet.String("config", "", "Path to a YAML or TOML file providing option defaults.")
	includeFlag := flagSet.String("include", def.Include, "Space-separated regular expressions selecting object paths.")
	excludeFlag := flagSet.String("exclude", def.Exclude, "Space-separated regular expressions pruning object paths.")
	timeFlag := flagSet.Float64("time", def.Time, "Time in seconds to sample the scene at.")
	modeFlag := flagSet.String("mode", def.Mode, "Traversal order. Options: 'depth', 'breadth' or 'flat'.")
	whereFlag := flagSet.String("where", def.Where, "Expression selecting nodes to list, e.g. 'kind == \"Mesh\" && visible'.")
	boundsFlag := flagSet.Bool("bounds", def.Bounds, "Print world-space bounds.")
	matricesFlag := flagSet.Bool("matrices", def.Matrices, "Print world translations.")
	watchFlag := flagSet.Bool("watch", def.Watch, "Inspect again whenever an archive changes, until interrupted.")
	colorFlag := flagSet.String("color", def.Color, "Colorize the report. Options: 'auto', 'always' or 'never'.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	shutterFlag := flagSet.String("shutter", def.Shutter, "Motion interval 'open,close' whose samples are loaded and reported.")
	widthScaleFlag := flagSet.Float64("width-scale", def.WidthScale, "Scale applied to point and curve widths when loading a shutter.")
	workersFlag := flagSet.Int("workers", def.Workers, "Number of archives inspected concurrently.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No archive path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	m := def
	if *configFlag != "" {
		loaded, err := config.Load(context.Background(), *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		m = loaded
	}

	// Explicit flags win over the config file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "include":
			m.Include = *includeFlag
		case "exclude":
			m.Exclude = *excludeFlag
		case "time":
			m.Time = *timeFlag
		case "mode":
			m.Mode = *modeFlag
		case "where":
			m.Where = *whereFlag
		case "bounds":
			m.Bounds = *boundsFlag
		case "matrices":
			m.Matrices = *matricesFlag
		case "watch":
			m.Watch = *watchFlag
		case "color":
			m.Color = *colorFlag
		case "log-format":
			m.LogFormat = *logFormatFlag
		case "log-level":
			m.LogLevel = *logLevelFlag
		case "workers":
			m.Workers = *workersFlag
		case "shutter":
			m.Shutter = *shutterFlag
		case "width-scale":
			m.WidthScale = *widthScaleFlag
		}
	})

	logFormat := strings.ToLower(m.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(m.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		Paths:     flagSet.Args(),
		Include:   m.Include,
		Exclude:   m.Exclude,
		Time:      m.Time,
		Mode:      m.Mode,
		Where:     m.Where,
		Bounds:    m.Bounds,
		Matrices:  m.Matrices,
		Color:     m.Color,
		Watch:     m.Watch,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Workers:   m.Workers,

		Shutter:    m.Shutter,
		WidthScale: m.WidthScale,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
