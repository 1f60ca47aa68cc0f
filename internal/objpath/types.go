package objpath

import "strings"

// Root is the path of the top-level object of every archive.
const Root = "/"

// Path is the structured representation of an object path.
type Path struct {
	Segments []string
}

// String returns the canonical string form of the path.
func (p Path) String() string {
	if len(p.Segments) == 0 {
		return Root
	}
	return Root + strings.Join(p.Segments, "/")
}

// IsRoot returns true if the path addresses the archive root.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// Base returns the last segment, or "" for the root.
func (p Path) Base() string {
	if p.IsRoot() {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Parent returns the path one level up. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return Path{Segments: p.Segments[:len(p.Segments)-1]}
}

// Child returns the path of the named child.
func (p Path) Child(name string) Path {
	segs := make([]string, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Segments: append(segs, name)}
}
