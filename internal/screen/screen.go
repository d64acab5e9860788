// Package screen filters a reference dataset down to the rows a given
// implementation can legitimately evaluate. Screening is about
// applicability, not accuracy: a row survives if the probe evaluates it
// without a domain failure and lands near the reference value; rows the
// implementation cannot represent are dropped, never fatal.
package screen

import (
	"math"

	"github.com/specfun/sfbench/internal/dataset"
)

// DefaultRelTol is the default acceptance tolerance. Loose enough that
// any reasonable double-precision implementation passes in-domain rows,
// tight enough to reject wrong branches and out-of-domain garbage.
const DefaultRelTol = 1e-6

// Probe attempts evaluation of one row with the implementation under
// test. An error marks the row out of domain for that implementation.
type Probe func(dataset.Row) (float64, error)

// RefFunc extracts the reference value from a row.
type RefFunc func(dataset.Row) float64

// Result is a screened working set plus the counts reported alongside
// timings. Used <= Total always; Rows preserves input order.
type Result struct {
	Rows  []dataset.Row
	Total int
	Used  int
}

// Screen runs the probe over every row and keeps those it can evaluate.
// Probe errors and non-finite results drop the row; no row aborts the
// screen. relTol <= 0 selects DefaultRelTol.
func Screen(rows []dataset.Row, probe Probe, ref RefFunc, relTol float64) Result {
	if relTol <= 0 {
		relTol = DefaultRelTol
	}
	kept := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		got, err := probe(row)
		if err != nil {
			continue
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			continue
		}
		if !withinRelTol(got, ref(row), relTol) {
			continue
		}
		kept = append(kept, row)
	}
	return Result{Rows: kept, Total: len(rows), Used: len(kept)}
}

// withinRelTol compares against the reference with relative tolerance,
// falling back to absolute comparison near zero where relative error
// is meaningless.
func withinRelTol(got, want, relTol float64) bool {
	if got == want {
		return true
	}
	denom := math.Abs(want)
	if denom < math.SmallestNonzeroFloat64*1e10 {
		return math.Abs(got-want) <= relTol
	}
	return math.Abs(got-want)/denom <= relTol
}
