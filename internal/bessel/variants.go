package bessel

// Variant is one implementation/configuration of the function under
// benchmark, tagged with the source label it reports under. Variants
// are iterated in a fixed order so report records are reproducible.
type Variant struct {
	// Name is the source label recorded with each timing, e.g.
	// "sfbench" or "sfbench (no internal promotion)".
	Name string

	// Eval computes j_n(x) or returns a domain error.
	Eval func(n int, x float64) (float64, error)
}

// VariantSet selects which variants a run exercises. The zero value
// runs the default pair: promoted and unpromoted.
type VariantSet struct {
	// SkipUnpromoted drops the promotion-disabled variant.
	SkipUnpromoted bool

	// IncludeSeries adds the alternate power-series implementation.
	IncludeSeries bool
}

// Variants returns the closed set of evaluators for a run, in the
// order they are timed and reported.
func Variants(set VariantSet) []Variant {
	vs := []Variant{
		{Name: "sfbench", Eval: SphJ},
	}
	if !set.SkipUnpromoted {
		vs = append(vs, Variant{
			Name: "sfbench (no internal promotion)",
			Eval: SphJNoPromote,
		})
	}
	if set.IncludeSeries {
		vs = append(vs, Variant{
			Name: "sfbench/series",
			Eval: SphJSeries,
		})
	}
	return vs
}
