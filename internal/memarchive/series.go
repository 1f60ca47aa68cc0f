package memarchive

import (
	"fmt"
	"sync/atomic"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
)

// Series is a time-sampled property held in memory. It implements
// archive.Schema[T].
type Series[T any] struct {
	TS     *archive.TimeSampling
	Values []T
	// Errors simulates decode failures for the given sample indices.
	Errors map[int]error

	reads atomic.Int64
}

// NewSeries returns a series with the given sampling and values.
func NewSeries[T any](ts *archive.TimeSampling, values ...T) *Series[T] {
	return &Series[T]{TS: ts, Values: values}
}

// Constant returns a single-sample series.
func Constant[T any](v T) *Series[T] {
	return NewSeries(archive.NewUniform(0, 1), v)
}

// NumSamples returns the number of stored samples.
func (s *Series[T]) NumSamples() int { return len(s.Values) }

// TimeSampling returns the series' time sampling.
func (s *Series[T]) TimeSampling() *archive.TimeSampling { return s.TS }

// Sample returns the sample at index.
func (s *Series[T]) Sample(index int) (T, error) {
	s.reads.Add(1)
	var zero T
	if index < 0 || index >= len(s.Values) {
		return zero, fmt.Errorf("%w: index %d of %d", archive.ErrNoSuchSample, index, len(s.Values))
	}
	if err, ok := s.Errors[index]; ok {
		return zero, err
	}
	return s.Values[index], nil
}

// Reads returns how many times Sample was called.
func (s *Series[T]) Reads() int64 { return s.reads.Load() }

// Fail makes Sample return err for the given index.
func (s *Series[T]) Fail(index int, err error) *Series[T] {
	if s.Errors == nil {
		s.Errors = make(map[int]error)
	}
	s.Errors[index] = err
	return s
}

// BoundsOf derives a bounds series from a payload series.
func BoundsOf[T interface{ Bounds() geom.Box3 }](s *Series[T]) *Series[geom.Box3] {
	out := &Series[geom.Box3]{TS: s.TS, Values: make([]geom.Box3, len(s.Values))}
	for i, v := range s.Values {
		out.Values[i] = v.Bounds()
	}
	return out
}
