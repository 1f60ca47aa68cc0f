package scene

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/filter"
)

func TestVisitOrders(t *testing.T) {
	testCases := []struct {
		name   string
		mode   Mode
		stopAt string
		skip   string
		wantOK bool
		want   []string
	}{
		{
			name:   "depth first",
			mode:   DepthFirst,
			wantOK: true,
			want: []string{
				"+/", "+/A", "+/A/B", "-/A/B", "+/A/C", "+/A/C/D", "-/A/C/D", "-/A/C", "-/A",
				"+/E", "-/E", "+/F@/A", "-/F@/A", "-/",
			},
		},
		{
			name:   "depth first skip children",
			mode:   DepthFirst,
			skip:   "/A",
			wantOK: true,
			want:   []string{"+/", "+/A", "-/A", "+/E", "-/E", "+/F@/A", "-/F@/A", "-/"},
		},
		{
			name:   "depth first stop",
			mode:   DepthFirst,
			stopAt: "/A/C",
			want:   []string{"+/", "+/A", "+/A/B", "-/A/B", "+/A/C"},
		},
		{
			name:   "breadth first",
			mode:   BreadthFirst,
			wantOK: true,
			want: []string{
				"+/", "-/",
				"+/A", "-/A", "+/E", "-/E", "+/F@/A", "-/F@/A",
				"+/A/B", "-/A/B", "+/A/C", "-/A/C",
				"+/A/C/D", "-/A/C/D",
			},
		},
		{
			name:   "breadth first skip children",
			mode:   BreadthFirst,
			skip:   "/A",
			wantOK: true,
			want:   []string{"+/", "-/", "+/A", "-/A", "+/E", "-/E", "+/F@/A", "-/F@/A"},
		},
		{
			name:   "breadth first stop",
			mode:   BreadthFirst,
			stopAt: "/E",
			want:   []string{"+/", "-/", "+/A", "-/A", "+/E"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newScene(t, traversalArchive(), nil)
			r := &recorder{stopAt: tc.stopAt, skip: tc.skip}

			ok := s.Visit(tc.mode, r)

			assert.Equal(t, tc.wantOK, ok)
			if diff := cmp.Diff(tc.want, r.events); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisitFilteredFlat(t *testing.T) {
	ctx := context.Background()
	s := newScene(t, traversalArchive(), nil)
	s.SetFilter(filter.New(ctx, "C B$", ""))

	r := &recorder{}
	require.True(t, s.Visit(FilteredFlat, r))

	want := []string{"+/A/B", "-/A/B", "+/A/C", "+/A/C/D", "-/A/C/D", "-/A/C"}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"/A/B", "/A/C", "/A/C/D"}, paths(s.Kept()))
}

func TestVisitFilteredFlatEmptyFilterVisitsTopLevel(t *testing.T) {
	s := newScene(t, traversalArchive(), nil)
	r := &recorder{}
	require.True(t, s.Visit(FilteredFlat, r))

	want := []string{
		"+/A", "+/A/B", "-/A/B", "+/A/C", "+/A/C/D", "-/A/C/D", "-/A/C", "-/A",
		"+/E", "-/E", "+/F@/A", "-/F@/A",
	}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownKindContinues(t *testing.T) {
	s := newScene(t, traversalArchive(), nil)
	e := s.Find("/E")
	require.NotNil(t, e)
	e.kind = archive.Kind(99)

	r := &recorder{}
	require.True(t, s.Visit(DepthFirst, r))
	assert.NotContains(t, r.events, "+/E")
	assert.Contains(t, r.events, "+/F@/A")
}

type panicVisitor struct{ BaseVisitor }

func (panicVisitor) EnterMesh(_, _ *Node) Action { panic("boom") }

func TestVisitRecoversPanics(t *testing.T) {
	s := newScene(t, traversalArchive(), nil)
	assert.False(t, s.Visit(DepthFirst, panicVisitor{}))
}

func TestVisitReleasedScene(t *testing.T) {
	s := newScene(t, traversalArchive(), nil)
	s.Release()
	assert.True(t, s.Released())
	assert.False(t, s.Visit(DepthFirst, &recorder{}))
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{DepthFirst, BreadthFirst, FilteredFlat} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("sideways")
	assert.Error(t, err)
}
