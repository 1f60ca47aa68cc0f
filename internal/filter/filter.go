package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/vk/abcscene/internal/ctxlog"
	"github.com/vk/abcscene/internal/objpath"
)

// Item is a node of the hierarchy being filtered.
type Item interface {
	Path() string
	NumChildren() int
	ChildItem(i int) Item
}

// Filter is an include/exclude path filter with a memoized keep decision.
// It is not safe for concurrent use.
type Filter struct {
	includeSrc string
	excludeSrc string
	include    []*regexp.Regexp
	exclude    []*regexp.Regexp
	keep       map[string]bool
}

// New compiles the include and exclude pattern lists. Patterns that fail to
// compile are dropped with a warning.
func New(ctx context.Context, include, exclude string) *Filter {
	f := &Filter{}
	f.SetInclude(ctx, include)
	f.SetExclude(ctx, exclude)
	return f
}

// SetInclude replaces the include patterns and invalidates memoized results.
func (f *Filter) SetInclude(ctx context.Context, patterns string) {
	f.includeSrc = patterns
	f.include = compile(ctx, "include", patterns)
	f.keep = nil
}

// SetExclude replaces the exclude patterns and invalidates memoized results.
func (f *Filter) SetExclude(ctx context.Context, patterns string) {
	f.excludeSrc = patterns
	f.exclude = compile(ctx, "exclude", patterns)
	f.keep = nil
}

// Include returns the include pattern list as given.
func (f *Filter) Include() string {
	if f == nil {
		return ""
	}
	return f.includeSrc
}

// Exclude returns the exclude pattern list as given.
func (f *Filter) Exclude() string {
	if f == nil {
		return ""
	}
	return f.excludeSrc
}

func compile(ctx context.Context, which, patterns string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range strings.Fields(patterns) {
		re, err := regexp.Compile(p)
		if err != nil {
			ctxlog.FromContext(ctx).Warn("Dropping invalid filter pattern.", "set", which, "pattern", p, "error", err)
			continue
		}
		out = append(out, re)
	}
	return out
}

// IsExcluded reports whether any exclude pattern matches path.
func (f *Filter) IsExcluded(path string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.exclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsIncluded reports whether any include pattern matches path. An empty
// include set matches every path.
func (f *Filter) IsIncluded(path string) bool {
	if f == nil || len(f.include) == 0 {
		return true
	}
	for _, re := range f.include {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the filter keeps everything.
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.include) == 0 && len(f.exclude) == 0)
}

// excludedWithin reports whether path or one of its ancestors is excluded.
// The root is never excluded.
func (f *Filter) excludedWithin(path string) bool {
	if path == objpath.Root {
		return false
	}
	if f.IsExcluded(path) {
		return true
	}
	for _, a := range objpath.Ancestors(path) {
		if a != objpath.Root && f.IsExcluded(a) {
			return true
		}
	}
	return false
}

// Keep reports whether it should be materialised. The result is memoized by
// full path until the patterns change. The root is always kept.
func (f *Filter) Keep(it Item) bool {
	if f == nil {
		return true
	}
	path := it.Path()
	if path == objpath.Root {
		return true
	}
	if f.keep == nil {
		f.keep = make(map[string]bool)
	}
	if k, ok := f.keep[path]; ok {
		return k
	}

	k := false
	if !f.excludedWithin(path) {
		if f.IsIncluded(path) {
			k = true
		} else {
			for i := 0; i < it.NumChildren(); i++ {
				if f.Keep(it.ChildItem(i)) {
					k = true
					break
				}
			}
		}
	}
	f.keep[path] = k
	return k
}

// Matches reports whether path is directly included and not excluded,
// without looking at descendants.
func (f *Filter) Matches(path string) bool {
	if f == nil {
		return true
	}
	return !f.excludedWithin(path) && f.IsIncluded(path)
}

// Clone returns a filter with the same patterns and an empty memo.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return nil
	}
	return &Filter{
		includeSrc: f.includeSrc,
		excludeSrc: f.excludeSrc,
		include:    f.include,
		exclude:    f.exclude,
	}
}
