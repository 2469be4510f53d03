package montecarlo

import (
	"errors"
	"math"
)

// DefaultScale turns the matched fraction of UnitCircle samples into an
// estimate of π.
const DefaultScale = 4.0

// ErrUndefinedEstimate is returned by Estimate.Float when no sample was taken.
var ErrUndefinedEstimate = errors.New("estimate undefined: no samples were taken")

// Estimate is the scalar result derived from combined counts.
// When Total is zero the estimate is undefined: Defined is false and Value
// is zero, never NaN.
type Estimate struct {
	Value   float64
	Matched int64
	Total   int64
	Scale   float64
	Defined bool
}

// normalizeScale maps a non-positive or NaN scale to DefaultScale.
func normalizeScale(scale float64) float64 {
	if !(scale > 0) {
		return DefaultScale
	}
	return scale
}

// NewEstimate computes scale * Matched / Total for acc. A non-positive
// scale selects DefaultScale.
func NewEstimate(acc Accumulator, scale float64) Estimate {
	scale = normalizeScale(scale)
	e := Estimate{Matched: acc.Matched, Total: acc.Total, Scale: scale}
	if acc.Total == 0 {
		return e
	}
	e.Value = scale * float64(acc.Matched) / float64(acc.Total)
	e.Defined = true
	return e
}

// Float returns the estimate's value, or ErrUndefinedEstimate.
func (e Estimate) Float() (float64, error) {
	if !e.Defined {
		return 0, ErrUndefinedEstimate
	}
	return e.Value, nil
}

// AbsError returns |Value - reference|, or +Inf for an undefined estimate.
func (e Estimate) AbsError(reference float64) float64 {
	if !e.Defined {
		return math.Inf(1)
	}
	return math.Abs(e.Value - reference)
}

// StdError returns the binomial standard error of the estimate,
// scale * sqrt(p(1-p)/n), or +Inf for an undefined estimate.
func (e Estimate) StdError() float64 {
	if !e.Defined {
		return math.Inf(1)
	}
	p := float64(e.Matched) / float64(e.Total)
	return e.Scale * math.Sqrt(p*(1-p)/float64(e.Total))
}
