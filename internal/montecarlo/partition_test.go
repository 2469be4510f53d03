package montecarlo

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/picalc/internal/errors"
)

func TestNewPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		total      int64
		workers    int
		wantShares []int64
	}{
		{"even split", 100, 4, []int64{25, 25, 25, 25}},
		{"remainder spread over first workers", 10, 4, []int64{3, 3, 2, 2}},
		{"fewer samples than workers", 2, 5, []int64{1, 1, 0, 0, 0}},
		{"zero samples", 0, 3, []int64{0, 0, 0}},
		{"single worker", 7, 1, []int64{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewPartition(tt.total, tt.workers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := p.Shares()
			if len(got) != len(tt.wantShares) {
				t.Fatalf("Shares() len = %d, want %d", len(got), len(tt.wantShares))
			}
			for i := range got {
				if got[i] != tt.wantShares[i] {
					t.Errorf("Share(%d) = %d, want %d", i, got[i], tt.wantShares[i])
				}
			}
			if p.Total() != tt.total {
				t.Errorf("Total() = %d, want %d", p.Total(), tt.total)
			}
		})
	}
}

func TestNewPartition_InvalidArguments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		total     int64
		workers   int
		wantField string
	}{
		{"negative samples", -1, 1, "totalSamples"},
		{"zero workers", 100, 0, "workerCount"},
		{"negative workers", 100, -3, "workerCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPartition(tt.total, tt.workers)
			var ve apperrors.ValidationError
			if !errorsAs(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestPartition_ShareOutOfRange(t *testing.T) {
	t.Parallel()
	p, _ := NewPartition(10, 2)
	if p.Share(-1) != 0 || p.Share(2) != 0 {
		t.Error("out-of-range shares must be zero")
	}
}

// TestPartition_PropertyBased checks that no sample is lost or double counted
// and that shares are balanced to within one sample.
func TestPartition_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("shares sum to the requested total", prop.ForAll(
		func(total int64, workers int) bool {
			p, err := NewPartition(total, workers)
			if err != nil {
				return false
			}
			var sum int64
			for _, s := range p.Shares() {
				sum += s
			}
			return sum == total
		},
		gen.Int64Range(0, 1<<40),
		gen.IntRange(1, 512),
	))

	properties.Property("shares differ by at most one", prop.ForAll(
		func(total int64, workers int) bool {
			p, err := NewPartition(total, workers)
			if err != nil {
				return false
			}
			shares := p.Shares()
			lo, hi := shares[0], shares[0]
			for _, s := range shares {
				lo, hi = min(lo, s), max(hi, s)
			}
			return hi-lo <= 1
		},
		gen.Int64Range(0, 1<<40),
		gen.IntRange(1, 512),
	))

	properties.TestingRun(t)
}
