// Package scene is the in-memory model of a hierarchical, time-sampled
// geometry archive.
//
// # Structure
//
// A Scene owns an arena of Nodes addressed by stable NodeIDs. Parent, child,
// master and instance links are IDs into that arena, never pointers, so a
// clone is simply a new arena and releasing a scene invalidates every slot at
// once. Node IDs follow archive pre-order.
//
// Every Node mirrors one archive object: its full path, local name and Kind,
// plus per-kind sample windows (XformData for transforms, ShapeData[T] for
// geometry). Nodes also carry the propagated state consumers read: self and
// child bounds, self and world matrices, the inherits-transform flag,
// visibility and locator values.
//
// # Instances
//
// An instance node names a master by path. After resolution it takes the
// master's Kind and forwards every authoritative accessor (self bounds, self
// matrix, inherits flag, locator, visibility, sample data) to it; the matching
// mutators are no-ops. Only the world matrix and child bounds are stored per
// instance, because they depend on where the instance sits in the hierarchy.
// A master lists its instances in archive order; an instance's number is its
// 1-based position in that list.
//
// # Traversal
//
// Visitors implement one Enter/Leave pair per kind. Node.Enter dispatches on
// the kind tag; entering an instance re-enters its master with the instance
// passed along, so kind logic is written once. Instances are visited as
// leaves: the master's subtree is visited at the master's own location.
//
//	DepthFirst    pre-order Enter, children, post-order Leave
//	BreadthFirst  Enter/Leave every sibling, then recurse into each
//	FilteredFlat  depth-first from each top-most node the filter matches
//
// Stop ends a traversal at once: no further Enter or Leave calls are made,
// including Leave for nodes already entered.
//
// # Propagation
//
// WorldUpdate samples transforms, bounds and visibility at one time on the
// way down and unions child bounds on the way up. Scene.Update runs it.
// Missing or undecodable samples degrade to identity matrices and empty
// bounds; they never abort the traversal.
//
// Scenes are not safe for concurrent use. Give each goroutine its own clone.
package scene
