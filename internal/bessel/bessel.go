// Package bessel implements the spherical Bessel function of the first
// kind, j_n(x), for integer order n >= 0 and real argument x >= 0.
//
// Three evaluation paths are provided:
//
//   - SphJ: recurrence with internal promotion. The three-term recurrence
//     is carried in double-double (compensated two-float64) arithmetic,
//     which plays the role a wider hardware float would.
//   - SphJNoPromote: the same recurrences in plain float64.
//   - SphJSeries: ascending power series, an independent algorithm used
//     as the alternate implementation in benchmarks.
//
// All three use the closed forms j_0(x) = sin(x)/x and
// j_1(x) = sin(x)/x^2 - cos(x)/x as seeds, upward recurrence in the
// stable regime x > n, and Miller's downward recurrence otherwise.
package bessel

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain reports an (n, x) pair outside the function's domain.
// Callers screening a dataset should treat it as "drop this row".
var ErrDomain = errors.New("outside domain of sph_bessel")

// checkDomain validates (n, x) for all evaluation paths.
func checkDomain(n int, x float64) error {
	if n < 0 {
		return fmt.Errorf("%w: order n=%d < 0", ErrDomain, n)
	}
	if x < 0 || math.IsNaN(x) {
		return fmt.Errorf("%w: argument x=%g", ErrDomain, x)
	}
	return nil
}

// SphJ computes j_n(x) with internal promotion enabled: the recurrence
// runs in double-double arithmetic and the result is rounded back to
// float64. This is the default policy, matching numerical libraries
// that promote to a wider type internally for accuracy.
func SphJ(n int, x float64) (float64, error) {
	if err := checkDomain(n, x); err != nil {
		return 0, err
	}
	if x == 0 {
		if n == 0 {
			return 1, nil
		}
		return 0, nil
	}
	switch n {
	case 0:
		return math.Sin(x) / x, nil
	case 1:
		return math.Sin(x)/(x*x) - math.Cos(x)/x, nil
	}
	if x > float64(n) {
		return upwardDD(n, x), nil
	}
	return downwardDD(n, x), nil
}

// SphJNoPromote computes j_n(x) entirely in float64, with the internal
// promotion policy disabled. Faster, slightly less accurate near
// cancellation-prone arguments.
func SphJNoPromote(n int, x float64) (float64, error) {
	if err := checkDomain(n, x); err != nil {
		return 0, err
	}
	if x == 0 {
		if n == 0 {
			return 1, nil
		}
		return 0, nil
	}
	switch n {
	case 0:
		return math.Sin(x) / x, nil
	case 1:
		return math.Sin(x)/(x*x) - math.Cos(x)/x, nil
	}
	if x > float64(n) {
		return upward64(n, x), nil
	}
	return downward64(n, x), nil
}

// upward64 runs the three-term recurrence
// j_{k+1} = ((2k+1)/x) j_k - j_{k-1} from the closed-form seeds.
// Stable only for x > n.
func upward64(n int, x float64) float64 {
	jm := math.Sin(x) / x
	jc := math.Sin(x)/(x*x) - math.Cos(x)/x
	for k := 1; k < n; k++ {
		jm, jc = jc, (2*float64(k)+1)/x*jc-jm
	}
	return jc
}

// downward64 is Miller's algorithm: recurse downward from an order well
// above n with arbitrary seeds, then normalize against the closed form
// at order 0 (or 1, whichever is better conditioned).
func downward64(n int, x float64) float64 {
	m := millerStart(n)
	jp := 0.0   // unnormalized j_{k+1}
	jc := 1e-30 // unnormalized j_k, arbitrary seed
	var jn, j1u float64
	for k := m; k >= 1; k-- {
		jm := (2*float64(k)+1)/x*jc - jp // j_{k-1}
		jp, jc = jc, jm
		if k-1 == n {
			jn = jc
		}
		if k-1 == 1 {
			j1u = jc
		}
		// Rescale to avoid overflow on long recurrences. All saved
		// values scale together, so ratios are preserved.
		if math.Abs(jc) > 1e250 {
			const s = 1e-250
			jp *= s
			jc *= s
			jn *= s
			j1u *= s
		}
	}
	j0u := jc // unnormalized j_0
	j0 := math.Sin(x) / x
	j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
	if math.Abs(j0) >= math.Abs(j1) {
		return jn * (j0 / j0u)
	}
	return jn * (j1 / j1u)
}

// millerStart picks the starting order for downward recurrence: far
// enough above n that the unwanted solution has decayed by order n.
func millerStart(n int) int {
	return n + 16 + int(math.Sqrt(40*float64(n)+40))
}

// SphJSeries computes j_n(x) from the ascending power series
//
//	j_n(x) = x^n/(2n+1)!! * sum_k (-x^2/2)^k / (k! (2n+2k+1)!!)
//
// It is an independent algorithm from the recurrence paths and serves
// as the alternate implementation under benchmark. The series loses
// accuracy to cancellation for large x; screening drops such rows.
func SphJSeries(n int, x float64) (float64, error) {
	if err := checkDomain(n, x); err != nil {
		return 0, err
	}
	if x == 0 {
		if n == 0 {
			return 1, nil
		}
		return 0, nil
	}
	// Leading factor x^n/(2n+1)!!, built incrementally to avoid
	// overflow of numerator and denominator separately.
	term := 1.0
	for i := 1; i <= n; i++ {
		term *= x / (2*float64(i) + 1)
	}
	sum := term
	half := -x * x / 2
	for k := 1; k <= 500; k++ {
		term *= half / (float64(k) * (2*float64(n) + 2*float64(k) + 1))
		sum += term
		if math.Abs(term) < 1e-17*math.Abs(sum) {
			return sum, nil
		}
	}
	return 0, fmt.Errorf("%w: series did not converge for n=%d x=%g", ErrDomain, n, x)
}
