// Package filter decides which archive objects a scene materialises.
//
// A Filter holds an include and an exclude pattern set, each given as a
// space-separated list of regular expressions matched against full object
// paths. An object is kept when neither it nor any of its ancestors is
// excluded and it is either included itself or has a kept descendant. An
// empty include set includes everything; an empty exclude set excludes
// nothing.
package filter
