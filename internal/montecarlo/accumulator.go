package montecarlo

// Accumulator holds the running counters of one sampling run.
// Invariant: 0 <= Matched <= Total.
type Accumulator struct {
	Matched int64
	Total   int64
}

// Record returns the accumulator advanced by one classified sample.
func (a Accumulator) Record(inside bool) Accumulator {
	a.Total++
	if inside {
		a.Matched++
	}
	return a
}

// Merge returns the field-wise sum of a and b.
func (a Accumulator) Merge(b Accumulator) Accumulator {
	return Accumulator{Matched: a.Matched + b.Matched, Total: a.Total + b.Total}
}

// Valid reports whether the accumulator satisfies 0 <= Matched <= Total.
func (a Accumulator) Valid() bool {
	return a.Matched >= 0 && a.Matched <= a.Total
}

// Fraction returns Matched/Total, or 0 when Total is zero.
func (a Accumulator) Fraction() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Matched) / float64(a.Total)
}

// Combine folds accumulators into one by summing both fields. Addition is
// commutative and associative, so the result does not depend on the order of
// accs.
func Combine(accs ...Accumulator) Accumulator {
	var out Accumulator
	for _, a := range accs {
		out = out.Merge(a)
	}
	return out
}
