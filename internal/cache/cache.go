package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/scene"
)

type entry struct {
	archive    archive.Archive
	refs       int
	persistent bool
	master     *scene.Scene
	// template is a private copy of the master taken at open. Later scenes
	// are cloned from it, never from the master.
	template *scene.Scene
	// masterOut is set while the master itself is checked out.
	masterOut bool
	consumers map[string]int
}

// Cache is a reference-counted registry of opened archives.
type Cache struct {
	mu      sync.Mutex
	opener  archive.Opener
	entries map[string]*entry

	logger    *slog.Logger
	normalize func(string) (string, error)
	onOpen    func(string)
}

// New creates an empty cache opening archives with opener.
func New(opener archive.Opener, opts ...Option) *Cache {
	c := &Cache{
		opener:    opener,
		entries:   make(map[string]*entry),
		logger:    slog.Default(),
		normalize: Normalize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ref checks out a scene of the archive at path filtered by f, opening the
// archive if no entry exists. persistent is ORed into the entry's flag. It
// returns nil when the path cannot be normalized or opened, or the scene
// cannot be built; no entry is created then.
func (c *Cache) Ref(ctx context.Context, path, consumer string, f *filter.Filter, persistent bool) (s *scene.Scene) {
	key, err := c.normalize(path)
	if err != nil {
		c.logger.Error("Cannot reference archive.", "path", path, "error", err)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Archive reference panicked.", "path", key, "consumer", consumer, "panic", r)
			s = nil
		}
	}()

	if e, ok := c.entries[key]; ok {
		s, err = c.derive(ctx, e, key, f)
		if err != nil {
			c.logger.Error("Cannot build scene from cached archive.", "path", key, "consumer", consumer, "error", err)
			return nil
		}
		e.refs++
		e.persistent = e.persistent || persistent
		e.consumers[consumer]++
		c.logger.Debug("Referenced cached archive.", "path", key, "consumer", consumer, "refs", e.refs)
		return s
	}

	a, err := c.opener.Open(ctx, key)
	if err != nil {
		c.logger.Error("Cannot open archive.", "path", key, "consumer", consumer, "error", err)
		return nil
	}
	if c.onOpen != nil {
		c.onOpen(key)
	}
	master, err := scene.New(ctx, a, key, f)
	if err != nil {
		c.logger.Error("Cannot build scene.", "path", key, "consumer", consumer, "error", err)
		if cerr := a.Close(); cerr != nil {
			c.logger.Warn("Closing archive failed.", "path", key, "error", cerr)
		}
		return nil
	}
	c.entries[key] = &entry{
		archive:    a,
		refs:       1,
		persistent: persistent,
		master:     master,
		template:   master.Clone(master.Filter()),
		masterOut:  true,
		consumers:  map[string]int{consumer: 1},
	}
	c.logger.Debug("Opened archive.", "path", key, "consumer", consumer, "nodes", master.Len())
	return master
}

// derive returns a new scene for an existing entry. An unfiltered master is
// cloned; a filtered one may lack nodes the new filter keeps, so the scene
// is rebuilt from the open archive instead.
func (c *Cache) derive(ctx context.Context, e *entry, key string, f *filter.Filter) (*scene.Scene, error) {
	if e.template.Filter().IsEmpty() {
		return e.template.Clone(f), nil
	}
	return scene.New(ctx, e.archive, key, f)
}

// Unref returns a scene obtained from Ref. The scene must not be used
// afterwards. It reports false when the scene is unknown to the cache or was
// already returned.
func (c *Cache) Unref(s *scene.Scene, consumer string) (ok bool) {
	if s == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Archive release panicked.", "path", s.ArchivePath(), "consumer", consumer, "panic", r)
			ok = false
		}
	}()

	key := s.ArchivePath()
	e, found := c.entries[key]
	switch {
	case !found || s.Archive() != e.archive:
		c.logger.Warn("Unref of unknown scene.", "path", key, "consumer", consumer)
		return false
	case s == e.master && !e.masterOut, s != e.master && s.Released():
		c.logger.Warn("Scene already released.", "path", key, "consumer", consumer)
		return false
	}

	if s == e.master {
		e.masterOut = false
	} else {
		s.Release()
	}
	e.refs--
	if n := e.consumers[consumer]; n > 1 {
		e.consumers[consumer] = n - 1
	} else {
		delete(e.consumers, consumer)
	}
	c.logger.Debug("Released archive reference.", "path", key, "consumer", consumer, "refs", e.refs)

	if e.refs == 0 && !e.persistent {
		c.teardown(key, e)
	}
	return true
}

// teardown releases the master, closes the archive and removes the entry.
func (c *Cache) teardown(key string, e *entry) error {
	delete(c.entries, key)
	e.master.Release()
	e.template.Release()
	if err := e.archive.Close(); err != nil {
		c.logger.Warn("Closing archive failed.", "path", key, "error", err)
		return fmt.Errorf("closing archive %s: %w", key, err)
	}
	c.logger.Debug("Closed archive.", "path", key)
	return nil
}

// Len returns the number of cached archives.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(path string) (string, *entry) {
	key, err := c.normalize(path)
	if err != nil {
		return "", nil
	}
	return key, c.entries[key]
}

// RefCount returns the number of outstanding references for path.
func (c *Cache) RefCount(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, e := c.lookup(path); e != nil {
		return e.refs
	}
	return 0
}

// Consumers returns the sorted IDs of consumers holding references to path.
func (c *Cache) Consumers(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, e := c.lookup(path)
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.consumers))
	for id := range e.consumers {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SetPersistent changes the persistent flag of a cached archive. Clearing it
// on an unreferenced entry tears the entry down. It reports whether the
// entry exists.
func (c *Cache) SetPersistent(path string, persistent bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, e := c.lookup(path)
	if e == nil {
		return false
	}
	e.persistent = persistent
	if !persistent && e.refs == 0 {
		c.teardown(key, e)
	}
	return true
}

// Close tears down every entry regardless of references or persistence.
// Scenes still checked out become unusable.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for key, e := range c.entries {
		if e.refs > 0 {
			c.logger.Warn("Closing archive with outstanding references.", "path", key, "refs", e.refs)
		}
		if err := c.teardown(key, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
