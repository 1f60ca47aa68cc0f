package objpath

import (
	"fmt"
	"strings"
)

// isValidSegment checks for names that would make paths ambiguous.
func isValidSegment(name string) bool {
	return name != "" && name != "." && name != ".."
}

// Parse creates a new Path by parsing its canonical string representation.
// A single trailing slash is tolerated.
func Parse(raw string) (*Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("object path cannot be empty")
	}
	if !strings.HasPrefix(raw, Root) {
		return nil, fmt.Errorf("object path must be absolute: %q", raw)
	}
	if raw == Root {
		return &Path{}, nil
	}

	trimmed := strings.TrimSuffix(raw[1:], "/")
	p := &Path{}
	for _, seg := range strings.Split(trimmed, "/") {
		if !isValidSegment(seg) {
			return nil, fmt.Errorf("invalid object path segment %q in %q", seg, raw)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// Join returns the path of the child called name under parent.
func Join(parent, name string) string {
	if parent == Root || parent == "" {
		return Root + name
	}
	return parent + "/" + name
}

// Parent returns the parent path of a canonical path string.
func Parent(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return Root
	}
	return path[:i]
}

// Base returns the last segment of a canonical path string.
func Base(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// Ancestors returns the proper ancestors of path, nearest first, ending with
// the root. The root has no ancestors.
func Ancestors(path string) []string {
	var out []string
	for path != Root && path != "" {
		path = Parent(path)
		out = append(out, path)
	}
	return out
}

// IsAncestor reports whether a is a proper ancestor of b.
func IsAncestor(a, b string) bool {
	if a == b {
		return false
	}
	if a == Root {
		return strings.HasPrefix(b, Root)
	}
	return strings.HasPrefix(b, a+"/")
}

// Rel splits a lookup path into segments. Absolute paths yield absolute=true.
func Rel(path string) (segments []string, absolute bool) {
	absolute = strings.HasPrefix(path, Root)
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, absolute
}
