package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	yamlDoc := `
include: "car"
exclude: "wheel"
time: 1.5
mode: breadth
where: kind == "Mesh"
workers: 2
shutter: "0.5,1"
width_scale: 0.5
`
	tomlDoc := `
include = "car"
exclude = "wheel"
time = 1.5
mode = "breadth"
where = 'kind == "Mesh"'
workers = 2
shutter = "0.5,1"
width_scale = 0.5
`
	for _, tc := range []struct {
		name, file, content string
	}{
		{"yaml", "abcscene.yaml", yamlDoc},
		{"yml", "abcscene.yml", yamlDoc},
		{"toml", "abcscene.toml", tomlDoc},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Load(context.Background(), writeFile(t, tc.file, tc.content))
			require.NoError(t, err)

			want := Default()
			want.Include = "car"
			want.Exclude = "wheel"
			want.Time = 1.5
			want.Mode = "breadth"
			want.Where = `kind == "Mesh"`
			want.Workers = 2
			want.Shutter = "0.5,1"
			want.WidthScale = 0.5
			assert.Equal(t, want, m)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(ctx, writeFile(t, "abcscene.ini", "x=1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := Load(ctx, writeFile(t, "a.yaml", "colour: always\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})

	t.Run("unknown toml key", func(t *testing.T) {
		_, err := Load(ctx, writeFile(t, "a.toml", "colour = \"always\"\n"))
		require.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := Load(ctx, writeFile(t, "a.toml", "workers = \"many\"\n"))
		require.Error(t, err)
	})
}

func TestDecodeKeepsDefaults(t *testing.T) {
	m, err := Decode([]byte("color = \"never\"\n"), TOML)
	require.NoError(t, err)
	assert.Equal(t, "never", m.Color)
	assert.Equal(t, "depth", m.Mode)
	assert.Equal(t, 4, m.Workers)
	assert.True(t, m.Bounds)

	_, err = Decode(nil, Format("json"))
	assert.Error(t, err)
}
