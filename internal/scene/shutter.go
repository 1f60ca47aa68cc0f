package scene

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/samples"
)

// Shutter is a motion interval. Open and Close may be given in either order.
type Shutter struct {
	Open, Close float64
	// WidthScale multiplies point and curve widths. Zero means 1.
	WidthScale float64
	// Policy decides what happens to a window lying wholly outside the
	// interval.
	Policy samples.TrimPolicy
}

// shutterData is implemented by payloads that cache samples.
type shutterData interface {
	loadShutter(sh Shutter) bool
	cached() int
	nearest(t float64) (int, bool)
}

// LoadShutter merges every sample covering the shutter interval into each
// node's windows, then trims the samples that cannot contribute to motion
// inside it. It returns the number of nodes with a trimmed window.
func (s *Scene) LoadShutter(sh Shutter) int {
	if sh.WidthScale == 0 {
		sh.WidthScale = 1
	}
	trimmed := 0
	for _, n := range s.Nodes() {
		if n.IsInstance() {
			continue
		}
		d, ok := n.data.(shutterData)
		if !ok {
			continue
		}
		if d.loadShutter(sh) {
			trimmed++
		}
	}
	s.Logger().Debug("Loaded shutter samples.", "archive", s.archivePath, "open", sh.Open, "close", sh.Close, "trimmed", trimmed)
	return trimmed
}

// CachedSamples returns how many transform or geometry samples the node
// holds. Instances report their master's.
func (n *Node) CachedSamples() int {
	if d, ok := n.source().data.(shutterData); ok {
		return d.cached()
	}
	return 0
}

// NearestSample returns the index of the archive sample closest to t. It
// reports false for nodes without samples.
func (n *Node) NearestSample(t float64) (int, bool) {
	if d, ok := n.source().data.(shutterData); ok {
		return d.nearest(t)
	}
	return 0, false
}

func nearIndex[T any](s archive.Schema[T], t float64) (int, bool) {
	if s == nil || s.NumSamples() == 0 {
		return 0, false
	}
	i, _ := s.TimeSampling().NearIndex(t, s.NumSamples())
	return i, true
}

func (x *XformData) loadShutter(sh Shutter) bool {
	x.Update(sh.Open, sh.Close, true)
	trimmed := x.Samples.Optimize(sh.Open, sh.Close, sh.Policy)
	if x.Locator != nil && x.Locator.Optimize(sh.Open, sh.Close, sh.Policy) {
		trimmed = true
	}
	return trimmed
}

func (x *XformData) cached() int { return x.Samples.Len() }

func (x *XformData) nearest(t float64) (int, bool) {
	return nearIndex[archive.XformSample](x.schema, t)
}

func (d *ShapeData[T]) loadShutter(sh Shutter) bool {
	d.SetScale(sh.WidthScale)
	d.Update(sh.Open, sh.Close, true)
	d.UpdateBounds(sh.Open, sh.Close, true)
	trimmed := d.Samples.Optimize(sh.Open, sh.Close, sh.Policy)
	if d.Bounds.Optimize(sh.Open, sh.Close, sh.Policy) {
		trimmed = true
	}
	if d.Params != nil && d.Params.Optimize(sh.Open, sh.Close, sh.Policy) {
		trimmed = true
	}
	return trimmed
}

func (d *ShapeData[T]) cached() int { return d.Samples.Len() }

func (d *ShapeData[T]) nearest(t float64) (int, bool) { return nearIndex[T](d.schema, t) }
