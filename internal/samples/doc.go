// Package samples caches decoded time samples of one archive property.
//
// A Window holds the samples needed to answer queries over a time interval.
// Update loads whatever the interval needs (the floor sample of its start up
// to the ceil sample of its end) and, unless asked to merge, evicts the rest.
// Lookups then run against the cached samples only:
//
//	w := samples.New[archive.XformSample]()
//	if w.Update(schema, t, t, false) {
//	    // cached content changed, recompute anything derived from it
//	}
//	prev, next, blend := w.GetSamples(t)
//
// Windows are not safe for concurrent use; each scene clone owns its own.
package samples
