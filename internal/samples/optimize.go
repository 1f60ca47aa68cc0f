package samples

// TrimPolicy decides what Optimize does when every cached sample lies on the
// same side of the shutter window.
type TrimPolicy int

const (
	// KeepNearest keeps only the cached sample closest to the window.
	KeepNearest TrimPolicy = iota
	// KeepAll leaves the window untouched.
	KeepAll
)

// Optimize drops cached samples that cannot contribute to motion inside the
// shutter window [open, close]. Samples inside the window are kept, plus the
// nearest sample before open and the nearest after close so blending at the
// window edges still has both brackets. It reports whether anything was
// dropped.
func (w *Window[T]) Optimize(open, close float64, policy TrimPolicy) bool {
	if len(w.samples) < 2 {
		return false
	}
	if close < open {
		open, close = close, open
	}

	first, last := w.samples[0], w.samples[len(w.samples)-1]
	allBefore := last.Time < open-TimeTolerance
	allAfter := first.Time > close+TimeTolerance
	if allBefore || allAfter {
		if policy == KeepAll {
			return false
		}
		keep := last
		if allAfter {
			keep = first
		}
		w.samples = []*Sample[T]{keep}
		return true
	}

	lo, hi := 0, len(w.samples)-1
	for i, s := range w.samples {
		if s.Time < open-TimeTolerance {
			lo = i
		}
	}
	for i := len(w.samples) - 1; i >= 0; i-- {
		if w.samples[i].Time > close+TimeTolerance {
			hi = i
		}
	}
	if lo == 0 && hi == len(w.samples)-1 {
		return false
	}
	w.samples = append([]*Sample[T](nil), w.samples[lo:hi+1]...)
	return true
}
