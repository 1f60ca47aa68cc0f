package samples

import (
	"fmt"
	"slices"

	"github.com/vk/abcscene/internal/archive"
)

// TimeTolerance is the distance under which a query time matches a stored
// sample time exactly.
const TimeTolerance = 0.0001

// Sample is one decoded sample.
type Sample[T any] struct {
	Time  float64
	Index int
	// Data is the decoded payload, rescaled when the window has a scale.
	Data T
	// Valid is false when decoding failed; Data is then the zero value.
	Valid bool
	// Err holds the decode failure, if any.
	Err error

	raw   T
	scale float64
}

// Window is a cache of decoded samples keyed by archive sample index.
type Window[T any] struct {
	samples []*Sample[T] // ordered by Index
	scale   float64
	rescale func(data T, scale float64) T

	ts         *archive.TimeSampling
	numSamples int
	updated    bool
}

// New returns an empty window.
func New[T any]() *Window[T] {
	return &Window[T]{scale: 1}
}

// NewScaled returns an empty window whose payloads are derived from the raw
// decode with rescale whenever the scale is not 1.
func NewScaled[T any](rescale func(data T, scale float64) T) *Window[T] {
	return &Window[T]{scale: 1, rescale: rescale}
}

// SetScale changes the payload scale. Cached samples are rescaled on the next
// Update that covers them.
func (w *Window[T]) SetScale(s float64) {
	w.scale = s
}

// Scale returns the current payload scale.
func (w *Window[T]) Scale() float64 { return w.scale }

// Len returns the number of cached samples.
func (w *Window[T]) Len() int { return len(w.samples) }

// Samples returns the cached samples in index order.
func (w *Window[T]) Samples() []*Sample[T] {
	return slices.Clone(w.samples)
}

// Indices returns the cached sample indices in order.
func (w *Window[T]) Indices() []int {
	out := make([]int, len(w.samples))
	for i, s := range w.samples {
		out[i] = s.Index
	}
	return out
}

// Clear drops every cached sample. It reports whether anything was dropped.
func (w *Window[T]) Clear() bool {
	modified := len(w.samples) > 0
	w.samples = nil
	return modified
}

func (w *Window[T]) position(index int) (int, bool) {
	return slices.BinarySearchFunc(w.samples, index, func(s *Sample[T], idx int) int {
		return s.Index - idx
	})
}

// Update loads every sample src needs to cover [t0, t1]: from the floor
// sample at t0 to the ceil sample at t1. A constant property always uses
// index 0 alone and never merges. Unless merge is set, cached samples outside
// the required range are evicted.
//
// Update returns true iff the cached content changed: a sample was decoded,
// rescaled or evicted.
func (w *Window[T]) Update(src archive.Schema[T], t0, t1 float64, merge bool) bool {
	if src == nil || src.NumSamples() == 0 {
		w.ts, w.numSamples, w.updated = nil, 0, true
		return w.Clear()
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}

	n := src.NumSamples()
	ts := src.TimeSampling()
	w.ts, w.numSamples, w.updated = ts, n, true

	i0, i1 := 0, 0
	if n > 1 {
		i0, _ = ts.FloorIndex(t0, n)
		i1, _ = ts.CeilIndex(t1, n)
	} else {
		merge = false
	}

	modified := false
	for idx := i0; idx <= i1; idx++ {
		pos, found := w.position(idx)
		if found {
			s := w.samples[pos]
			if s.Valid {
				if w.rescale != nil && s.scale != w.scale {
					s.Data = w.rescale(s.raw, w.scale)
					s.scale = w.scale
					modified = true
				}
				continue
			}
		}

		s := w.decode(src, ts, idx)
		if found {
			if s.Valid {
				w.samples[pos] = s
				modified = true
			}
			continue
		}
		w.samples = slices.Insert(w.samples, pos, s)
		modified = true
	}

	if !merge {
		kept := w.samples[:0]
		for _, s := range w.samples {
			if s.Index >= i0 && s.Index <= i1 {
				kept = append(kept, s)
			} else {
				modified = true
			}
		}
		clear(w.samples[len(kept):])
		w.samples = kept
	}
	return modified
}

// decode reads one sample. Panics raised by the reader are converted into an
// invalid sample.
func (w *Window[T]) decode(src archive.Schema[T], ts *archive.TimeSampling, idx int) (s *Sample[T]) {
	s = &Sample[T]{Time: ts.SampleTime(idx), Index: idx, scale: w.scale}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			s.Data, s.raw, s.Valid = zero, zero, false
			s.Err = fmt.Errorf("decoding sample %d: %v", idx, r)
		}
	}()

	data, err := src.Sample(idx)
	if err != nil {
		s.Err = err
		return s
	}
	s.raw, s.Data, s.Valid = data, data, true
	if w.rescale != nil && w.scale != 1 {
		s.Data = w.rescale(data, w.scale)
	}
	return s
}

// ValidRange reports whether every sample from the floor index at t0 to the
// ceil index at t1 is cached and decoded. It uses the time sampling seen by
// the last Update and is false before any Update.
func (w *Window[T]) ValidRange(t0, t1 float64) bool {
	if !w.updated || w.numSamples == 0 {
		return false
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	i0, i1 := 0, 0
	if w.numSamples > 1 {
		i0, _ = w.ts.FloorIndex(t0, w.numSamples)
		i1, _ = w.ts.CeilIndex(t1, w.numSamples)
	}
	for idx := i0; idx <= i1; idx++ {
		pos, found := w.position(idx)
		if !found || !w.samples[pos].Valid {
			return false
		}
	}
	return true
}

// Clone returns a window holding copies of the cached samples. Payloads are
// shared: decoded data is never mutated in place.
func (w *Window[T]) Clone() *Window[T] {
	if w == nil {
		return nil
	}
	c := *w
	c.samples = make([]*Sample[T], len(w.samples))
	for i, s := range w.samples {
		cp := *s
		c.samples[i] = &cp
	}
	return &c
}
