package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/cache"
	"github.com/vk/abcscene/internal/query"
	"github.com/vk/abcscene/internal/samples"
	"github.com/vk/abcscene/internal/scene"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *archive.Registry
	cache    *cache.Cache
	config   *Config

	mode    scene.Mode
	where   *query.Predicate
	color   bool
	shutter *scene.Shutter
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW. It returns a fully initialized App instance, including its
// own isolated logger, format registry and archive cache. Without formats,
// the compiled-in formats are registered.
func NewApp(outW, logW io.Writer, cfg *Config, formats ...Format) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	mode, err := scene.ParseMode(cfg.Mode)
	if err != nil {
		// NewConfig validated the mode, so this is a programmer error.
		panic(err)
	}
	where, err := query.Compile(cfg.Where)
	if err != nil {
		panic(fmt.Errorf("failed to compile where expression: %w", err))
	}

	var shutter *scene.Shutter
	if cfg.Shutter != "" {
		open, close, err := ParseShutter(cfg.Shutter)
		if err != nil {
			panic(err)
		}
		shutter = &scene.Shutter{Open: open, Close: close, WidthScale: cfg.WidthScale, Policy: samples.KeepNearest}
	}

	reg := archive.NewRegistry()
	if len(formats) == 0 {
		formats = coreFormats
	}
	for _, register := range formats {
		register(reg)
	}
	logger.Debug("Archive formats registered.", "extensions", reg.Extensions())

	c := cache.New(reg,
		cache.WithLogger(logger),
		cache.WithOpenHook(func(path string) {
			logger.Debug("Archive opened.", "path", path)
		}),
	)

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		cache:    c,
		config:   cfg,
		mode:     mode,
		where:    where,
		color:    useColor(cfg.Color, outW),
		shutter:  shutter,
	}
}

// Registry returns the application's format registry. This is primarily for testing.
func (a *App) Registry() *archive.Registry {
	return a.registry
}

// Cache returns the application's archive cache. This is primarily for testing.
func (a *App) Cache() *cache.Cache {
	return a.cache
}

// Close tears down every archive still held by the cache.
func (a *App) Close() error {
	return a.cache.Close()
}
