package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vk/abcscene/internal/ctxlog"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/fsutil"
	"github.com/vk/abcscene/internal/query"
	"golang.org/x/sync/errgroup"
)

// Run inspects every archive named by the configuration and writes one
// report per archive to the output writer, in path order.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	files, err := fsutil.ExpandPaths(a.config.Paths, a.registry.Extensions()...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.logger.Warn("No archives found, inspection not required.", "paths", a.config.Paths)
		return nil
	}
	a.logger.Debug("Archives discovered.", "count", len(files))

	f := filter.New(ctx, a.config.Include, a.config.Exclude)
	reports := make([][]byte, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, path := range files {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := a.inspect(gctx, &buf, path, fmt.Sprintf("worker-%d", i), f); err != nil {
				return err
			}
			reports[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	for _, r := range reports {
		if _, err := a.outW.Write(r); err != nil {
			return err
		}
	}
	a.logger.Info("Inspection finished.", "archives", len(files), "time", a.config.Time)
	return nil
}

// inspect checks a scene of path out of the cache, updates it to the
// configured time and renders it into w.
func (a *App) inspect(ctx context.Context, w io.Writer, path, consumer string, f *filter.Filter) error {
	logger := ctxlog.FromContext(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	s := a.cache.Ref(ctx, path, consumer, f, false)
	if s == nil {
		return fmt.Errorf("failed to load archive %s", path)
	}
	defer a.cache.Unref(s, consumer)

	if !s.Update(a.config.Time) {
		logger.Warn("Scene update did not complete.", "path", path, "time", a.config.Time)
	}
	logger.Debug("Scene updated.", "path", path, "time", a.config.Time, "nodes", s.Len())
	if a.shutter != nil {
		trimmed := s.LoadShutter(*a.shutter)
		logger.Debug("Shutter samples loaded.", "path", path, "open", a.shutter.Open, "close", a.shutter.Close, "trimmed", trimmed)
	}

	pal := newPalette(a.color)
	fmt.Fprintln(w, pal.header(fmt.Sprintf("== %s @ %g ==", path, a.config.Time)))

	r := &report{w: w, pal: pal, bounds: a.config.Bounds, matrices: a.config.Matrices, motion: a.shutter != nil, time: a.config.Time}
	if a.config.Where != "" {
		nodes, err := query.Select(s, a.where, a.config.Time)
		if err != nil {
			return err
		}
		r.flat = true
		for _, n := range nodes {
			r.line(n, nil)
		}
		return nil
	}

	if !s.Visit(a.mode, r) {
		return fmt.Errorf("traversal of %s did not complete", path)
	}
	return nil
}
