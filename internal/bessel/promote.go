package bessel

import "math"

// dd is an unevaluated sum hi+lo with |lo| <= ulp(hi)/2, giving roughly
// twice float64 precision. It stands in for the wider internal type
// (long double elsewhere) that Go hardware floats do not offer.
type dd struct {
	hi, lo float64
}

// twoSum computes a+b exactly as a rounded sum and an error term.
func twoSum(a, b float64) dd {
	s := a + b
	bb := s - a
	return dd{s, (a - (s - bb)) + (b - bb)}
}

func ddAdd(a, b dd) dd {
	s := twoSum(a.hi, b.hi)
	s.lo += a.lo + b.lo
	return twoSum(s.hi, s.lo)
}

func ddSub(a, b dd) dd {
	return ddAdd(a, dd{-b.hi, -b.lo})
}

// ddMulF multiplies a double-double by a plain float64, using FMA for
// the exact product error.
func ddMulF(a dd, b float64) dd {
	p := a.hi * b
	e := math.FMA(a.hi, b, -p)
	e += a.lo * b
	return twoSum(p, e)
}

// upwardDD is upward64 with the recurrence carried in double-double.
func upwardDD(n int, x float64) float64 {
	jm := dd{math.Sin(x) / x, 0}
	jc := dd{math.Sin(x)/(x*x) - math.Cos(x)/x, 0}
	for k := 1; k < n; k++ {
		next := ddSub(ddMulF(jc, (2*float64(k)+1)/x), jm)
		jm, jc = jc, next
	}
	return jc.hi + jc.lo
}

// downwardDD is downward64 with the recurrence carried in double-double.
func downwardDD(n int, x float64) float64 {
	m := millerStart(n)
	jp := dd{}
	jc := dd{1e-30, 0}
	var jn, j1u dd
	for k := m; k >= 1; k-- {
		jm := ddSub(ddMulF(jc, (2*float64(k)+1)/x), jp)
		jp, jc = jc, jm
		if k-1 == n {
			jn = jc
		}
		if k-1 == 1 {
			j1u = jc
		}
		if math.Abs(jc.hi) > 1e250 {
			const s = 1e-250
			jp = ddMulF(jp, s)
			jc = ddMulF(jc, s)
			jn = ddMulF(jn, s)
			j1u = ddMulF(j1u, s)
		}
	}
	j0u := jc
	j0 := math.Sin(x) / x
	j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
	if math.Abs(j0) >= math.Abs(j1) {
		r := ddMulF(jn, j0)
		return (r.hi + r.lo) / (j0u.hi + j0u.lo)
	}
	r := ddMulF(jn, j1)
	return (r.hi + r.lo) / (j1u.hi + j1u.lo)
}
