package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/memarchive"
	"github.com/vk/abcscene/internal/scene"
	"github.com/zclconf/go-cty/cty"
)

func fixture(t *testing.T) *scene.Scene {
	t.Helper()
	a := memarchive.New("q")
	car := a.Top().AddXform("car", memarchive.NewXform(memarchive.Constant(archive.XformSample{Matrix: geom.Identity4(), Inherits: true})))
	car.SetUserProperties(memarchive.Constant(archive.Properties{
		{Name: "asset", Value: cty.StringVal("car_v3")},
		{Name: "wheels", Value: cty.NumberIntVal(4)},
		{Name: "tags", Value: cty.TupleVal([]cty.Value{cty.StringVal("hero"), cty.True})},
	}))
	car.AddMesh("body", memarchive.NewShape(memarchive.Constant(archive.MeshSample{})).
		WithBounds(memarchive.Constant(geom.B3(0, 0, 0, 3, 4, 0))))
	car.AddMesh("ghost", memarchive.NewShape(memarchive.Constant(archive.MeshSample{})).
		WithVisibility(memarchive.Constant(archive.VisibilityHidden)))
	a.Top().AddInstance("copy", "/car")

	s, err := scene.New(context.Background(), a, "q", nil)
	require.NoError(t, err)
	require.True(t, s.Update(0))
	return s
}

func TestSelect(t *testing.T) {
	s := fixture(t)
	testCases := []struct {
		name string
		src  string
		want []string
	}{
		{name: "empty matches all", src: "", want: []string{"/car", "/car/body", "/car/ghost", "/copy"}},
		{name: "kind", src: `kind == "Mesh"`, want: []string{"/car/body", "/car/ghost"}},
		{name: "visible meshes", src: `kind == "Mesh" && visible`, want: []string{"/car/body"}},
		{name: "instances", src: `instance && master == "/car"`, want: []string{"/copy"}},
		{name: "under", src: `under(path, "/car") && depth == 2`, want: []string{"/car/body", "/car/ghost"}},
		{name: "size", src: `!empty && size == 5 && children == 0`, want: []string{"/car/body", "/copy"}},
		{name: "props string", src: `props.asset == "car_v3"`, want: []string{"/car", "/copy"}},
		{name: "props number", src: `(props.wheels ?? 0) > 3`, want: []string{"/car", "/copy"}},
		{name: "props list", src: `"hero" in (props.tags ?? [])`, want: []string{"/car", "/copy"}},
		{name: "name", src: `name startsWith "gh"`, want: []string{"/car/ghost"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(tc.src)
			require.NoError(t, err)

			got, err := Select(s, p, 0)
			require.NoError(t, err)

			var paths []string
			for _, n := range got {
				paths = append(paths, n.Path())
			}
			assert.Equal(t, tc.want, paths)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{`kind ==`, `unknown_field`, `path + 1`, `"not bool"`} {
		_, err := Compile(src)
		assert.Error(t, err, src)
	}
}

func TestEnvFor(t *testing.T) {
	s := fixture(t)
	env := EnvFor(s.Find("/car/ghost"), 0)

	assert.Equal(t, "ghost", env.Name)
	assert.Equal(t, "Mesh", env.Kind)
	assert.Equal(t, 2, env.Depth)
	assert.False(t, env.Visible)
	assert.True(t, env.Empty)
	assert.Equal(t, 0.0, env.Size)
	assert.Empty(t, env.Props)
}

func TestUnder(t *testing.T) {
	assert.True(t, under("/a", "/a"))
	assert.True(t, under("/a/b", "/a"))
	assert.False(t, under("/ab", "/a"))
	assert.True(t, under("/a", "/"))
}
