package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/ctxlog"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/objpath"
	"github.com/vk/abcscene/internal/samples"
)

// Scene is the root node of a materialized archive together with the archive
// handle and the filter it was built with.
type Scene struct {
	*Node

	arena       *arena
	archive     archive.Archive
	archivePath string
	filter      *filter.Filter
	kept        []NodeID
	released    bool
}

// objectItem adapts an archive object to filter.Item.
type objectItem struct{ obj archive.Object }

func (o objectItem) Path() string                { return o.obj.Header().FullName }
func (o objectItem) NumChildren() int            { return o.obj.NumChildren() }
func (o objectItem) ChildItem(i int) filter.Item { return objectItem{o.obj.Child(i)} }

// New materializes the objects of a that f keeps. path is the normalized
// location the archive was opened from. The scene logs to the logger carried
// by ctx. A nil filter keeps everything.
func New(ctx context.Context, a archive.Archive, path string, f *filter.Filter) (s *Scene, err error) {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Archive reader panicked while building scene.", "archive", path, "panic", r)
			s, err = nil, fmt.Errorf("building scene from %s: %v", path, r)
		}
	}()
	if a == nil || a.Root() == nil {
		return nil, fmt.Errorf("building scene from %s: archive has no root", path)
	}

	f = f.Clone()
	ar := &arena{logger: logger}
	root := ar.add(newNode(objpath.Root, "", archive.KindGeneric))
	top := a.Root()
	for i := 0; i < top.NumChildren(); i++ {
		buildObject(ar, root, top.Child(i), f)
	}

	s = &Scene{Node: root, arena: ar, archive: a, archivePath: path, filter: f}
	s.resolveInstances()
	s.computeKept()
	logger.Debug("Built scene.", "archive", path, "nodes", len(ar.nodes), "instances", s.countInstances())
	return s, nil
}

func buildObject(ar *arena, parent *Node, obj archive.Object, f *filter.Filter) {
	if !f.Keep(objectItem{obj}) {
		return
	}
	h := obj.Header()
	n := newNode(h.FullName, h.Name, h.Kind)
	if src := obj.InstanceSource(); src != "" {
		n.masterPath = src
		n.kind = archive.KindGeneric
	} else {
		data, ok := newKindData(h.Kind, obj.Schema())
		if !ok {
			ar.logger.Warn("Treating object as generic.", "path", h.FullName, "kind", h.Kind.String(), "error", archive.ErrKindMismatch)
			n.kind = archive.KindGeneric
		}
		n.data = data
	}
	if up := obj.UserProperties(); up != nil {
		n.user = up
		n.userProps = samples.New[archive.Properties]()
	}
	ar.add(n)
	parent.addChild(n)
	for i := 0; i < obj.NumChildren(); i++ {
		buildObject(ar, n, obj.Child(i), f)
	}
}

// Clone returns an independent scene over the same archive holding the
// nodes of s that f keeps. Node state and cached samples are copied; decoded
// payloads are shared. Instances are resolved against the clone.
func (s *Scene) Clone(f *filter.Filter) *Scene {
	f = f.Clone()
	ar := &arena{logger: s.arena.logger}
	root := ar.add(copyNode(s.Node))
	for i := range s.Node.children {
		cloneNode(ar, root, s.Node.Child(i), f)
	}
	c := &Scene{Node: root, arena: ar, archive: s.archive, archivePath: s.archivePath, filter: f}
	c.resolveInstances()
	c.computeKept()
	return c
}

func cloneNode(ar *arena, parent, src *Node, f *filter.Filter) {
	if src == nil || !f.Keep(src) {
		return
	}
	n := ar.add(copyNode(src))
	parent.addChild(n)
	for i := range src.children {
		cloneNode(ar, n, src.Child(i), f)
	}
}

// copyNode copies the node's own state without links.
func copyNode(src *Node) *Node {
	n := *src
	n.arena = nil
	n.parent = NoNode
	n.children = nil
	n.byName = nil
	n.master = NoNode
	n.instances = nil
	n.instanceNumber = 0
	if n.IsInstance() {
		n.kind = archive.KindGeneric
	}
	if src.data != nil {
		n.data = src.data.clone()
	}
	n.userProps = src.userProps.Clone()
	return &n
}

// resolveInstances links every instance to its master in pre-order, numbering
// instances from 1 per master.
func (s *Scene) resolveInstances() {
	for _, n := range s.arena.nodes {
		n.instances = nil
	}
	for _, n := range s.arena.nodes {
		if !n.IsInstance() {
			continue
		}
		n.master = NoNode
		n.instanceNumber = 0
		m := s.Node.Find(n.masterPath)
		switch {
		case m == nil:
			s.arena.logger.Warn("Instance master not found.", "path", n.path, "master", n.masterPath)
			continue
		case m.IsInstance():
			s.arena.logger.Warn("Instance master is itself an instance.", "path", n.path, "master", n.masterPath)
			continue
		case m == n || objpath.IsAncestor(n.path, m.path):
			s.arena.logger.Warn("Instance master lies within the instance.", "path", n.path, "master", n.masterPath)
			continue
		}
		n.master = m.id
		n.kind = m.kind
		m.instances = append(m.instances, n.id)
		n.instanceNumber = len(m.instances)
	}
}

func (s *Scene) countInstances() int {
	count := 0
	for _, n := range s.arena.nodes {
		if n.Master() != nil {
			count++
		}
	}
	return count
}

// Logger returns the logger the scene reports to.
func (s *Scene) Logger() *slog.Logger { return s.arena.logger }

// Archive returns the archive handle. It is owned by whoever opened it.
func (s *Scene) Archive() archive.Archive { return s.archive }

// ArchivePath returns the normalized path the archive was opened from.
func (s *Scene) ArchivePath() string { return s.archivePath }

// Filter returns the active filter.
func (s *Scene) Filter() *filter.Filter { return s.filter }

// Root returns the root node.
func (s *Scene) Root() *Node { return s.Node }

// Len returns the number of nodes including the root.
func (s *Scene) Len() int { return len(s.arena.nodes) }

// NodeByID returns the node with the given ID, or nil.
func (s *Scene) NodeByID(id NodeID) *Node { return s.arena.get(id) }

// Nodes returns every node in pre-order, root first.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.arena.nodes))
	for _, n := range s.arena.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// SetFilter replaces the active filter and recomputes the kept set. It does
// not add or remove nodes; use Clone to re-materialize.
func (s *Scene) SetFilter(f *filter.Filter) {
	s.filter = f.Clone()
	s.computeKept()
}

// Kept returns the nodes the active filter matches directly, in pre-order.
// With an empty filter every node but the root is kept.
func (s *Scene) Kept() []*Node {
	out := make([]*Node, 0, len(s.kept))
	for _, id := range s.kept {
		if n := s.arena.get(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (s *Scene) computeKept() {
	s.kept = s.kept[:0]
	for _, n := range s.arena.nodes {
		if n.parent == NoNode {
			continue
		}
		if s.filter.IsEmpty() || s.filter.Matches(n.path) {
			s.kept = append(s.kept, n.id)
		}
	}
}

// Visit traverses the scene and reports whether it ran to completion. A
// panic in the visitor or an archive reader is logged and reported as an
// incomplete traversal.
func (s *Scene) Visit(mode Mode, v Visitor) (ok bool) {
	if s.released {
		s.arena.logger.Warn("Visit on released scene.", "archive", s.archivePath)
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			s.arena.logger.Error("Traversal panicked.", "archive", s.archivePath, "mode", mode.String(), "panic", r)
			ok = false
		}
	}()
	switch mode {
	case DepthFirst, BreadthFirst:
		return s.Node.Visit(mode, v)
	case FilteredFlat:
		return s.visitFlat(v)
	}
	s.arena.logger.Warn("Unknown traversal mode.", "mode", int(mode))
	return false
}

// visitFlat visits each kept node that has no kept ancestor.
func (s *Scene) visitFlat(v Visitor) bool {
	kept := make(map[NodeID]bool, len(s.kept))
	for _, id := range s.kept {
		kept[id] = true
	}
	for _, id := range s.kept {
		n := s.arena.get(id)
		if n == nil || s.hasKeptAncestor(n, kept) {
			continue
		}
		if !n.depthFirst(v) {
			return false
		}
	}
	return true
}

func (s *Scene) hasKeptAncestor(n *Node, kept map[NodeID]bool) bool {
	for p := n.parent; p != NoNode; {
		if kept[p] {
			return true
		}
		pn := s.arena.get(p)
		if pn == nil {
			return false
		}
		p = pn.parent
	}
	return false
}

// Release invalidates every node of the scene. The archive handle is left
// to its owner.
func (s *Scene) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := range s.arena.nodes {
		s.arena.nodes[i] = nil
	}
	s.kept = nil
}

// Released reports whether Release was called.
func (s *Scene) Released() bool { return s.released }
