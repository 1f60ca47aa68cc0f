// Package objpath defines the canonical form of archive object paths.
//
// Object paths are absolute, slash-separated and rooted at "/", for example
// "/world/car/body". The root object is "/" itself. A segment may hold any
// character except "/", but "." and ".." are rejected.
package objpath
