package cache

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/memarchive"
	"github.com/vk/abcscene/internal/scene"
)

// fixture opens a fresh in-memory archive per Open and records every handle.
type fixture struct {
	mu      sync.Mutex
	opened  []*memarchive.Archive
	opens   atomic.Int32
	failing map[string]bool
}

func (fx *fixture) Open(_ context.Context, path string) (archive.Archive, error) {
	if fx.failing[filepath.Base(path)] {
		return nil, errors.New("corrupt archive")
	}
	a := memarchive.New(path)
	top := a.Top()
	x := top.AddXform("A", memarchive.NewXform(memarchive.Constant(archive.XformSample{Matrix: geom.Identity4(), Inherits: true})))
	x.AddMesh("B", memarchive.NewShape(memarchive.Constant(archive.MeshSample{})).
		WithBounds(memarchive.Constant(geom.B3(0, 0, 0, 1, 1, 1))))
	top.AddGeneric("C").AddGeneric("D")

	fx.mu.Lock()
	fx.opened = append(fx.opened, a)
	fx.mu.Unlock()
	return a, nil
}

func newCache(t *testing.T, opts ...Option) (*Cache, *fixture) {
	t.Helper()
	fx := &fixture{failing: map[string]bool{"broken.abc": true}}
	opts = append([]Option{WithOpenHook(func(string) { fx.opens.Add(1) })}, opts...)
	return New(fx, opts...), fx
}

func nodePaths(s *scene.Scene) []string {
	var out []string
	for _, n := range s.Nodes() {
		out = append(out, n.Path())
	}
	return out
}

func TestReopenAfterLastUnref(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	s1 := c.Ref(ctx, "scene.abc", "one", nil, false)
	s2 := c.Ref(ctx, "scene.abc", "two", nil, false)
	require.NotNil(t, s1)
	require.NotNil(t, s2)
	assert.NotSame(t, s1, s2)
	assert.Equal(t, int32(1), fx.opens.Load())
	assert.Equal(t, 2, c.RefCount("scene.abc"))

	assert.True(t, c.Unref(s1, "one"))
	assert.True(t, c.Unref(s2, "two"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, fx.opened[0].Closed())

	s3 := c.Ref(ctx, "scene.abc", "three", nil, false)
	require.NotNil(t, s3)
	assert.Equal(t, int32(2), fx.opens.Load())
}

func TestRefcountLaw(t *testing.T) {
	ctx := context.Background()
	for k := 1; k <= 4; k++ {
		for _, reverse := range []bool{false, true} {
			c, fx := newCache(t)
			var scenes []*scene.Scene
			for i := 0; i < k; i++ {
				s := c.Ref(ctx, "law.abc", "consumer", nil, false)
				require.NotNil(t, s)
				scenes = append(scenes, s)
			}
			master := scenes[0]
			if reverse {
				for i, j := 0, len(scenes)-1; i < j; i, j = i+1, j-1 {
					scenes[i], scenes[j] = scenes[j], scenes[i]
				}
			}
			for _, s := range scenes {
				require.True(t, c.Unref(s, "consumer"))
			}

			assert.Equal(t, 0, c.Len(), "k=%d reverse=%v", k, reverse)
			assert.Equal(t, 0, c.RefCount("law.abc"))
			assert.True(t, master.Released())
			require.Len(t, fx.opened, 1)
			assert.Equal(t, 1, fx.opened[0].Closed(), "master torn down exactly once")
		}
	}
}

func TestFirstRefReturnsMaster(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	master := c.Ref(ctx, "m.abc", "a", nil, false)
	clone := c.Ref(ctx, "m.abc", "b", nil, false)

	assert.True(t, c.Unref(master, "a"))
	assert.False(t, master.Released(), "master lives while references remain")
	assert.False(t, c.Unref(master, "a"), "master cannot be returned twice")
	assert.Equal(t, 1, c.RefCount("m.abc"))

	assert.True(t, c.Unref(clone, "b"))
	assert.True(t, clone.Released())
	assert.True(t, master.Released())
	assert.False(t, c.Unref(clone, "b"))
}

func TestClonesAreFilteredAndIndependent(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	master := c.Ref(ctx, "f.abc", "a", nil, false)
	clone := c.Ref(ctx, "f.abc", "b", filter.New(ctx, "^/C", ""), false)

	assert.Equal(t, []string{"/", "/A", "/A/B", "/C", "/C/D"}, nodePaths(master))
	assert.Equal(t, []string{"/", "/C", "/C/D"}, nodePaths(clone))
	assert.Equal(t, master.Archive(), clone.Archive())

	require.True(t, master.Update(0))
	assert.True(t, clone.Find("/C").ChildBounds().IsEmpty())
	assert.Equal(t, int32(1), fx.opens.Load())
}

func TestFilteredMasterRebuildsWiderScenes(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	master := c.Ref(ctx, "w.abc", "a", filter.New(ctx, "^/A", ""), false)
	wide := c.Ref(ctx, "w.abc", "b", nil, false)

	assert.Equal(t, []string{"/", "/A", "/A/B"}, nodePaths(master))
	assert.Equal(t, []string{"/", "/A", "/A/B", "/C", "/C/D"}, nodePaths(wide))
	assert.Equal(t, int32(1), fx.opens.Load())
}

func TestPersistentEntriesSurvive(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	s := c.Ref(ctx, "p.abc", "a", nil, true)
	require.True(t, c.Unref(s, "a"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.RefCount("p.abc"))

	again := c.Ref(ctx, "p.abc", "b", nil, false)
	require.NotNil(t, again)
	assert.Equal(t, int32(1), fx.opens.Load())

	assert.True(t, c.SetPersistent("p.abc", false))
	assert.Equal(t, 1, c.Len(), "still referenced")
	require.True(t, c.Unref(again, "b"))
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.SetPersistent("p.abc", true))
}

func TestSetPersistentTearsDownIdleEntry(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	s := c.Ref(ctx, "idle.abc", "a", nil, true)
	require.True(t, c.Unref(s, "a"))
	require.Equal(t, 1, c.Len())

	assert.True(t, c.SetPersistent("idle.abc", false))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, fx.opened[0].Closed())
}

func TestOpenFailureCreatesNoEntry(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	assert.Nil(t, c.Ref(ctx, "broken.abc", "a", nil, false))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int32(0), fx.opens.Load())

	assert.Nil(t, c.Ref(ctx, "", "a", nil, false))
}

func TestUnrefUnknown(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	other, _ := newCache(t)

	foreign := other.Ref(ctx, "x.abc", "a", nil, false)
	require.NotNil(t, foreign)

	assert.False(t, c.Unref(nil, "a"))
	assert.False(t, c.Unref(foreign, "a"))

	c.Ref(ctx, "x.abc", "a", nil, false)
	assert.False(t, c.Unref(foreign, "a"), "same path, different archive handle")
	assert.Equal(t, 1, c.RefCount("x.abc"))
}

func TestConsumersLedger(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	a1 := c.Ref(ctx, "l.abc", "alice", nil, false)
	c.Ref(ctx, "l.abc", "bob", nil, false)
	a2 := c.Ref(ctx, "l.abc", "alice", nil, false)
	assert.Equal(t, []string{"alice", "bob"}, c.Consumers("l.abc"))

	c.Unref(a2, "alice")
	assert.Equal(t, []string{"alice", "bob"}, c.Consumers("l.abc"))
	c.Unref(a1, "alice")
	assert.Equal(t, []string{"bob"}, c.Consumers("l.abc"))
	assert.Nil(t, c.Consumers("missing.abc"))
}

func TestCloseTearsDownEverything(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	s := c.Ref(ctx, "one.abc", "a", nil, false)
	c.Ref(ctx, "two.abc", "a", nil, true)
	require.Equal(t, 2, c.Len())

	require.NoError(t, c.Close())

	assert.Equal(t, 0, c.Len())
	for _, a := range fx.opened {
		assert.Equal(t, 1, a.Closed())
	}
	assert.True(t, s.Released())
}

func TestConcurrentConsumers(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			s := c.Ref(ctx, "shared.abc", id, nil, false)
			if !assert.NotNil(t, s) {
				return
			}
			assert.True(t, s.Update(float64(i)))
			assert.True(t, c.Unref(s, id))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, c.Len())
	fx.mu.Lock()
	defer fx.mu.Unlock()
	assert.Equal(t, int(fx.opens.Load()), len(fx.opened))
	for _, a := range fx.opened {
		assert.Equal(t, 1, a.Closed())
	}
}

func TestNormalizePath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := NormalizePath("~/shots/../Scene.abc", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(home, "Scene.abc")), got)

	folded, err := NormalizePath("~/shots/../Scene.abc", true)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(got), folded)

	_, err = NormalizePath("", false)
	assert.Error(t, err)
}

func TestWithNormalizerSharesEntries(t *testing.T) {
	ctx := context.Background()
	c, fx := newCache(t, WithNormalizer(func(p string) (string, error) {
		return NormalizePath(p, true)
	}))

	c.Ref(ctx, "/tmp/Shot.ABC", "a", nil, false)
	c.Ref(ctx, "/tmp/shot.abc", "b", nil, false)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int32(1), fx.opens.Load())
	assert.Equal(t, 2, c.RefCount("/TMP/SHOT.abc"))
}
