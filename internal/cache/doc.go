// Package cache provides the archive cache: a reference-counted registry of
// opened archives that hands out independent scenes to consumers.
//
// # Purpose
//
// Opening and parsing an archive is the expensive step, so each archive is
// opened once per normalized path and shared. Consumers never share a
// scene, though: every consumer gets its own Scene it may re-filter, update
// and traverse without affecting anyone else.
//
// # Lifecycle
//
// The first Ref for a path opens the archive and builds the master scene
// with the caller's filter. That master is returned to the first caller as
// is. Later Refs get a scene derived from the shared archive: a clone of a
// private copy of the master when the master is unfiltered, a fresh build
// from the already open archive otherwise. Neither path re-opens the file.
//
// Unref releases the caller's scene (the master excepted) and drops one
// reference. When the count reaches zero and the entry is not persistent,
// the master is released, the archive closed and the entry removed. Close
// tears down every entry, persistent ones included.
//
// # Concurrency Model
//
// A Cache is safe for concurrent use. One mutex guards the entry map and is
// held for the whole of Ref and Unref, including the open and the clone;
// archive readers are not assumed to be reentrant during open. The mutex is
// never held while a consumer traverses its scene.
package cache
