// Package memarchive provides an in-memory implementation of the archive
// interfaces, with a small builder API. File readers decode into it, and
// tests use it to describe scenes directly in Go.
package memarchive
