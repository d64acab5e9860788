// Package bench times repeated evaluation of a callable over a screened
// dataset.
//
// The repetition policy is whole-dataset passes: every pass invokes the
// callable once per row, and the early-stop rule is checked only at
// pass boundaries. Call count is therefore always passes * len(rows),
// deterministic for a given dataset size and stop decision. Results are
// accumulated into a consumed sink so the compiler cannot elide the
// work being measured.
package bench

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/specfun/sfbench/internal/dataset"
)

// Func maps one dataset row to a scalar result. Errors during timing
// abort the measurement; they should have been screened out beforehand.
type Func func(dataset.Row) (float64, error)

// Options control the repetition policy.
type Options struct {
	// MinDuration is the wall-clock threshold at which the pass loop
	// stops. Zero selects the 250ms default.
	MinDuration time.Duration

	// MaxPasses caps the number of passes regardless of elapsed time.
	// Zero selects the 10000 default.
	MaxPasses int

	// Now overrides the clock, for tests. Nil selects time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinDuration <= 0 {
		o.MinDuration = 250 * time.Millisecond
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = 10000
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Measurement is one timed run over a dataset.
type Measurement struct {
	// Elapsed is total wall-clock time for all passes. Never negative.
	Elapsed time.Duration

	// Passes is the number of complete traversals of the dataset.
	Passes int

	// Calls is Passes * rows: total callable invocations.
	Calls int
}

// Seconds returns the elapsed time as a floating-point second count.
func (m Measurement) Seconds() float64 {
	return m.Elapsed.Seconds()
}

// NsPerCall returns mean nanoseconds per callable invocation.
func (m Measurement) NsPerCall() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Elapsed.Nanoseconds()) / float64(m.Calls)
}

// sink consumes every result so the timed work cannot be optimized
// away. Package-level on purpose: a dead store to a local can be
// eliminated, a store with package scope cannot.
var sink float64

// TimeExecution invokes fn on every row, in full passes over the
// dataset, until the elapsed wall-clock time reaches the policy
// threshold or the pass cap. Any error from fn aborts the measurement:
// a failure mid-timing invalidates the result, so no partial timing is
// ever returned.
func TimeExecution(rows []dataset.Row, fn Func, opts Options) (Measurement, error) {
	opts = opts.withDefaults()
	if len(rows) == 0 {
		return Measurement{}, fmt.Errorf("empty dataset: nothing to time")
	}

	var acc float64
	passes := 0
	start := opts.Now()
	for {
		for i := range rows {
			v, err := fn(rows[i])
			if err != nil {
				return Measurement{}, fmt.Errorf("timed run aborted at pass %d row %d: %w", passes, i, err)
			}
			acc += v
		}
		passes++
		elapsed := opts.Now().Sub(start)
		if elapsed >= opts.MinDuration || passes >= opts.MaxPasses {
			sink += acc
			m := Measurement{Elapsed: elapsed, Passes: passes, Calls: passes * len(rows)}
			if m.Elapsed < 0 {
				m.Elapsed = 0
			}
			return m, nil
		}
	}
}

// Summary aggregates repeated measurements of one variant.
type Summary struct {
	Measurements []Measurement

	// MeanNsPerCall and StddevNsPerCall summarize per-call cost
	// across the repeats.
	MeanNsPerCall   float64
	StddevNsPerCall float64

	// Best is the measurement with the lowest per-call cost.
	Best Measurement
}

// Repeat runs TimeExecution k times and summarizes the per-call costs
// with their mean and sample standard deviation. k < 1 is treated as 1.
func Repeat(rows []dataset.Row, fn Func, opts Options, k int) (Summary, error) {
	if k < 1 {
		k = 1
	}
	s := Summary{Measurements: make([]Measurement, 0, k)}
	perCall := make([]float64, 0, k)
	for i := 0; i < k; i++ {
		m, err := TimeExecution(rows, fn, opts)
		if err != nil {
			return Summary{}, err
		}
		s.Measurements = append(s.Measurements, m)
		perCall = append(perCall, m.NsPerCall())
		if i == 0 || m.NsPerCall() < s.Best.NsPerCall() {
			s.Best = m
		}
	}
	s.MeanNsPerCall = stat.Mean(perCall, nil)
	if len(perCall) > 1 {
		s.StddevNsPerCall = stat.StdDev(perCall, nil)
	}
	return s, nil
}
