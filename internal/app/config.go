package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/abcscene/internal/query"
	"github.com/vk/abcscene/internal/scene"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // archive files or directories

	Include string
	Exclude string
	Time    float64
	Mode    string
	Where   string

	Bounds   bool
	Matrices bool
	Color    string
	Watch    bool

	Shutter    string // "open,close"; empty disables motion loading
	WidthScale float64

	LogFormat string
	LogLevel  string
	Workers   int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one archive path is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = scene.DepthFirst.String()
	}
	if _, err := scene.ParseMode(cfg.Mode); err != nil {
		return nil, err
	}
	if _, err := query.Compile(cfg.Where); err != nil {
		return nil, fmt.Errorf("invalid where expression: %w", err)
	}
	switch cfg.Color {
	case "":
		cfg.Color = "auto"
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid color mode %q: must be 'auto', 'always' or 'never'", cfg.Color)
	}
	if cfg.Shutter != "" {
		if _, _, err := ParseShutter(cfg.Shutter); err != nil {
			return nil, err
		}
	}
	switch {
	case cfg.WidthScale == 0:
		cfg.WidthScale = 1
	case cfg.WidthScale < 0:
		return nil, fmt.Errorf("width scale must be positive, got %g", cfg.WidthScale)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	return &cfg, nil
}

// ParseShutter parses an "open,close" pair of times.
func ParseShutter(s string) (open, close float64, err error) {
	o, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid shutter %q: want open,close", s)
	}
	if open, err = strconv.ParseFloat(strings.TrimSpace(o), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid shutter open %q: %w", o, err)
	}
	if close, err = strconv.ParseFloat(strings.TrimSpace(c), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid shutter close %q: %w", c, err)
	}
	return open, close, nil
}
