package archive

import (
	"fmt"
	"sort"
)

// timeEpsilon absorbs float noise when comparing a query time to a stored
// sample time.
const timeEpsilon = 1e-9

// SamplingType tells how sample indices map to times.
type SamplingType int

const (
	// Uniform samples are spaced by a fixed time per cycle from a start time.
	Uniform SamplingType = iota
	// Cyclic samples repeat a fixed pattern of times every cycle.
	Cyclic
	// Acyclic samples carry an explicit, increasing time each.
	Acyclic
)

func (s SamplingType) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Cyclic:
		return "cyclic"
	case Acyclic:
		return "acyclic"
	}
	return "unknown"
}

// TimeSampling maps stored sample indices to times and answers floor/ceil
// queries over them. A nil *TimeSampling behaves like NewUniform(0, 1).
type TimeSampling struct {
	kind         SamplingType
	timePerCycle float64
	// times holds the sample times of the first cycle (uniform, cyclic) or of
	// every sample (acyclic).
	times []float64
}

// NewUniform returns a sampling whose sample i lives at start + i*step.
func NewUniform(start, step float64) *TimeSampling {
	if step <= 0 {
		step = 1
	}
	return &TimeSampling{kind: Uniform, timePerCycle: step, times: []float64{start}}
}

// NewCyclic returns a sampling repeating the given times every timePerCycle.
func NewCyclic(timePerCycle float64, times []float64) (*TimeSampling, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("cyclic time sampling needs at least one time per cycle")
	}
	if timePerCycle <= 0 {
		return nil, fmt.Errorf("cyclic time sampling needs a positive time per cycle, got %v", timePerCycle)
	}
	if err := checkIncreasing(times); err != nil {
		return nil, err
	}
	if times[len(times)-1]-times[0] >= timePerCycle {
		return nil, fmt.Errorf("cyclic sample times must fit within one cycle of %v", timePerCycle)
	}
	return &TimeSampling{kind: Cyclic, timePerCycle: timePerCycle, times: append([]float64(nil), times...)}, nil
}

// NewAcyclic returns a sampling with one explicit time per sample.
func NewAcyclic(times []float64) (*TimeSampling, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("acyclic time sampling needs at least one time")
	}
	if err := checkIncreasing(times); err != nil {
		return nil, err
	}
	return &TimeSampling{kind: Acyclic, times: append([]float64(nil), times...)}, nil
}

func checkIncreasing(times []float64) error {
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return fmt.Errorf("sample times must be strictly increasing: %v after %v", times[i], times[i-1])
		}
	}
	return nil
}

// Type returns how indices map to times.
func (ts *TimeSampling) Type() SamplingType {
	if ts == nil {
		return Uniform
	}
	return ts.kind
}

// SampleTime returns the time of sample index i.
func (ts *TimeSampling) SampleTime(i int) float64 {
	if ts == nil {
		return float64(i)
	}
	if i < 0 {
		i = 0
	}
	switch ts.kind {
	case Acyclic:
		if i >= len(ts.times) {
			i = len(ts.times) - 1
		}
		return ts.times[i]
	default:
		n := len(ts.times)
		cycle := i / n
		return ts.times[i%n] + float64(cycle)*ts.timePerCycle
	}
}

// FloorIndex returns the largest index in [0, numSamples) whose time is at or
// before t, clamped to 0, together with that sample's time.
func (ts *TimeSampling) FloorIndex(t float64, numSamples int) (int, float64) {
	if numSamples <= 1 {
		return 0, ts.SampleTime(0)
	}
	i := sort.Search(numSamples, func(i int) bool {
		return ts.SampleTime(i) > t+timeEpsilon
	}) - 1
	if i < 0 {
		i = 0
	}
	return i, ts.SampleTime(i)
}

// CeilIndex returns the smallest index in [0, numSamples) whose time is at or
// after t, clamped to numSamples-1, together with that sample's time.
func (ts *TimeSampling) CeilIndex(t float64, numSamples int) (int, float64) {
	if numSamples <= 1 {
		return 0, ts.SampleTime(0)
	}
	i := sort.Search(numSamples, func(i int) bool {
		return ts.SampleTime(i) >= t-timeEpsilon
	})
	if i >= numSamples {
		i = numSamples - 1
	}
	return i, ts.SampleTime(i)
}

// NearIndex returns whichever of the floor and ceil samples is closer to t.
func (ts *TimeSampling) NearIndex(t float64, numSamples int) (int, float64) {
	fi, ft := ts.FloorIndex(t, numSamples)
	ci, ct := ts.CeilIndex(t, numSamples)
	if t-ft <= ct-t {
		return fi, ft
	}
	return ci, ct
}
