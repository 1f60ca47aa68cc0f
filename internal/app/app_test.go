package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/testutil"
)

const carDoc = `
	xform "car" {
	  times = [0, 2]
	  sample { translate = [0, 0, 0] }
	  sample { translate = [2, 0, 0] }

	  mesh "body" {
	    sample {
	      positions    = [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
	      face_counts  = [3]
	      face_indices = [0, 1, 2]
	    }
	  }

	  subd "seat" {
	    visibility = "hidden"
	    sample { positions = [[0, 0, 0]] }
	  }
	}

	instance "copy" { source = "/car" }
`

// setupApp writes files into a temporary directory and returns an App
// inspecting it, the report buffer and the log buffer.
func setupApp(t *testing.T, files map[string]string, mutate func(*Config)) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	cfg := Config{
		Paths:     []string{dir},
		Time:      1,
		Bounds:    true,
		Color:     "never",
		LogLevel:  "debug",
		LogFormat: "text",
		Workers:   2,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	for i, p := range cfg.Paths {
		if !filepath.IsAbs(p) {
			cfg.Paths[i] = filepath.Join(dir, p)
		}
	}
	valid, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a := NewApp(out, logs, valid)
	t.Cleanup(func() {
		if os.Getenv("ABCSCENE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
		_ = a.Close()
	})
	return a, out, logs
}

func TestRunDepthFirstReport(t *testing.T) {
	a, out, logs := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, nil)

	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "== "))
	assert.True(t, strings.HasSuffix(lines[0], "car.abc.hcl @ 1 =="))
	assert.Equal(t, "/  Generic  bounds=[1 0 0]..[2 1 0]", lines[1])
	assert.Equal(t, "  car  Xform  bounds=[1 0 0]..[2 1 0]", lines[2])
	assert.Equal(t, "    body  Mesh  bounds=[1 0 0]..[2 1 0]", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "    seat  SubD"))
	assert.True(t, strings.HasSuffix(lines[4], "hidden"))
	assert.Equal(t, "  copy  Instance(Xform) -> /car  bounds=[1 0 0]..[2 1 0]", lines[5])

	assert.Contains(t, logs.String(), "Inspection finished.")
	assert.Equal(t, 0, a.Cache().Len(), "scenes are returned to the cache after inspection")
}

func TestRunWhereListsMatches(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, func(c *Config) {
		c.Where = `kind == "Mesh"`
		c.Bounds = false
		c.Matrices = true
	})

	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "/car/body  Mesh  translate=(1 0 0)", lines[1])
}

func TestRunAppliesFilter(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, func(c *Config) {
		c.Exclude = "seat"
		c.Bounds = false
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "body  Mesh")
	assert.NotContains(t, out.String(), "seat")
}

func TestRunBreadthFirstOrder(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, func(c *Config) {
		c.Mode = "breadth"
		c.Bounds = false
	})

	require.NoError(t, a.Run(context.Background()))
	report := out.String()
	assert.Less(t, strings.Index(report, "copy"), strings.Index(report, "body"),
		"siblings of car come before its children")
}

func TestRunShutterReportsSamples(t *testing.T) {
	doc := `
xform "spin" {
  times = [0, 1, 2, 3]
  sample { translate = [0, 0, 0] }
  sample { translate = [1, 0, 0] }
  sample { translate = [2, 0, 0] }
  sample { translate = [3, 0, 0] }
}
`
	a, out, logs := setupApp(t, map[string]string{"spin.abc.hcl": doc}, func(c *Config) {
		c.Time = 0
		c.Bounds = false
		c.Shutter = "2.2,2.8"
	})

	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "/  Generic", lines[1])
	assert.Equal(t, "  spin  Xform  samples=2 near=0", lines[2])
	assert.Contains(t, logs.String(), "trimmed=1")
}

func TestRunSeveralArchivesInPathOrder(t *testing.T) {
	files := map[string]string{
		"shots/c.abc.hcl": carDoc,
		"shots/a.abc.hcl": carDoc,
		"shots/b.abc.hcl": carDoc,
		"shots/notes.txt": "not an archive",
	}
	a, out, _ := setupApp(t, files, func(c *Config) { c.Workers = 2 })

	require.NoError(t, a.Run(context.Background()))

	var headers []string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "== ") {
			headers = append(headers, filepath.Base(strings.Fields(line)[1]))
		}
	}
	assert.Equal(t, []string{"a.abc.hcl", "b.abc.hcl", "c.abc.hcl"}, headers)
	assert.Equal(t, 0, a.Cache().Len())
}

func TestRunErrors(t *testing.T) {
	t.Run("broken archive", func(t *testing.T) {
		a, _, logs := setupApp(t, map[string]string{"bad.abc.hcl": `xform "car" {`}, nil)
		err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load archive")
		assert.Contains(t, logs.String(), "failed to parse HCL archive")
	})

	t.Run("missing path", func(t *testing.T) {
		a, _, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, func(c *Config) {
			c.Paths = []string{"missing"}
		})
		err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan")
	})

	t.Run("cancelled context", func(t *testing.T) {
		a, _, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, a.Run(ctx), context.Canceled)
	})

	t.Run("nothing to inspect", func(t *testing.T) {
		a, out, logs := setupApp(t, map[string]string{"notes.txt": "x"}, nil)
		require.NoError(t, a.Run(context.Background()))
		assert.Empty(t, out.String())
		assert.Contains(t, logs.String(), "No archives found")
	})
}

func TestNewAppRegistersFormats(t *testing.T) {
	cfg, err := NewConfig(Config{Paths: []string{"."}, Workers: 1})
	require.NoError(t, err)

	a := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg)
	assert.Equal(t, []string{".abc.hcl", ".hcl"}, a.Registry().Extensions())

	custom := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, func(r *archive.Registry) {
		r.Register(".test", archive.OpenerFunc(func(context.Context, string) (archive.Archive, error) {
			return nil, archive.ErrUnsupportedFormat
		}))
	})
	assert.Equal(t, []string{".test"}, custom.Registry().Extensions())
}

func TestRunColorAlways(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"car.abc.hcl": carDoc}, func(c *Config) {
		c.Color = "always"
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "\x1b[")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", &buf))
	assert.False(t, useColor("auto", &buf), "buffers are not terminals")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger("debug", "json", &buf).Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger("nonsense", "text", &buf).Debug("hidden")
	assert.Empty(t, buf.String(), "unknown levels fall back to info")
}
