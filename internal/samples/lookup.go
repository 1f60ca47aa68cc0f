package samples

import "math"

// Lookup selects which sample Find returns relative to the query time.
type Lookup int

const (
	// Exact matches a sample within TimeTolerance of t.
	Exact Lookup = iota
	// Previous is the latest sample strictly before t.
	Previous
	// Next is the earliest sample strictly after t.
	Next
	// PreviousOrExact is Exact if there is one, Previous otherwise.
	PreviousOrExact
	// NextOrExact is Exact if there is one, Next otherwise.
	NextOrExact
)

// Find returns the cached sample matching which, or nil. The scan is linear;
// windows only ever hold a handful of samples.
func (w *Window[T]) Find(t float64, which Lookup) *Sample[T] {
	switch which {
	case PreviousOrExact:
		if s := w.Find(t, Exact); s != nil {
			return s
		}
		return w.Find(t, Previous)
	case NextOrExact:
		if s := w.Find(t, Exact); s != nil {
			return s
		}
		return w.Find(t, Next)
	}

	var best *Sample[T]
	for _, s := range w.samples {
		switch which {
		case Exact:
			if math.Abs(s.Time-t) <= TimeTolerance {
				return s
			}
		case Previous:
			if s.Time < t-TimeTolerance && (best == nil || s.Time > best.Time) {
				best = s
			}
		case Next:
			if s.Time > t+TimeTolerance && (best == nil || s.Time < best.Time) {
				best = s
			}
		}
	}
	return best
}

// GetSamples returns the samples bracketing t and the blend factor between
// them: blend = (t - prev.Time) / (next.Time - prev.Time).
//
// When t matches a sample, or lies at or beyond either end of the cached
// range, prev and next are the same sample and blend is 0. Blend is also 0
// when either bracketing sample failed to decode. Both are nil when the
// window is empty.
func (w *Window[T]) GetSamples(t float64) (prev, next *Sample[T], blend float64) {
	if len(w.samples) == 0 {
		return nil, nil, 0
	}
	if s := w.Find(t, Exact); s != nil {
		return s, s, 0
	}
	prev = w.Find(t, Previous)
	next = w.Find(t, Next)
	switch {
	case prev == nil:
		return next, next, 0
	case next == nil:
		return prev, prev, 0
	case !prev.Valid || !next.Valid:
		return prev, next, 0
	}
	return prev, next, (t - prev.Time) / (next.Time - prev.Time)
}
