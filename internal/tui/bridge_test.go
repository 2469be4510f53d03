package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/progress"
)

func TestProgramRef_Send_NilProgram(t *testing.T) {
	t.Parallel()
	ref := &programRef{}
	// Should not panic.
	ref.Send(ProgressMsg{Index: 0, Value: 0.5})
	ref.SetProgram(nil)
	ref.Send(ProgressDoneMsg{})
}

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		numMethods int
	}{
		{"one method", 1},
		{"two methods", 2},
		{"zero methods", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reporter := &TUIProgressReporter{ref: &programRef{}}
			ch := make(chan progress.ProgressUpdate, 8)
			for _, v := range []float64{0.25, 0.5, 0.75, 1} {
				ch <- progress.ProgressUpdate{Index: 0, Value: v}
			}
			close(ch)

			var wg sync.WaitGroup
			wg.Add(1)
			go reporter.DisplayProgress(&wg, ch, tt.numMethods, io.Discard)

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("DisplayProgress did not return after the channel closed")
			}
			if len(ch) != 0 {
				t.Errorf("%d updates left in the channel", len(ch))
			}
		})
	}
}

func TestTUIResultPresenter_FormatDuration(t *testing.T) {
	t.Parallel()
	presenter := &TUIResultPresenter{ref: &programRef{}}
	for _, d := range []time.Duration{0, 500 * time.Microsecond, 42 * time.Millisecond, 3 * time.Minute} {
		if presenter.FormatDuration(d) == "" {
			t.Errorf("FormatDuration(%v) is empty", d)
		}
	}
}

func TestTUIResultPresenter_HandleError(t *testing.T) {
	t.Parallel()
	presenter := &TUIResultPresenter{ref: &programRef{}}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"validation", apperrors.NewValidationError("samples", "must be >= 0"), apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := presenter.HandleError(tt.err, time.Second, io.Discard); got != tt.want {
				t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTUIResultPresenter_ImplementsInterfaces(t *testing.T) {
	t.Parallel()
	var presenter orchestration.ResultPresenter = &TUIResultPresenter{ref: &programRef{}}
	// Neither call may block or write without a program.
	presenter.PresentComparisonTable([]orchestration.EstimationResult{testEstimation("p", 785, 1000)}, io.Discard)
	presenter.PresentResult(testEstimation("p", 785, 1000), orchestration.PresentationOptions{}, io.Discard)
}

func TestInstrumentMethods(t *testing.T) {
	t.Parallel()
	seq := montecarlo.SequentialMethod{Seeds: montecarlo.NewFixedSeedSource(3)}
	par := montecarlo.ParallelMethod{Estimator: montecarlo.NewEstimator(montecarlo.WithSeedSource(montecarlo.NewFixedSeedSource(3)))}
	methods := []montecarlo.Method{par, seq, montecarlo.ParallelMethod{}}

	got := instrumentMethods(methods, &programRef{}, 1)
	if len(got) != len(methods) {
		t.Fatalf("got %d methods, want %d", len(got), len(methods))
	}
	if _, ok := got[1].(montecarlo.SequentialMethod); !ok {
		t.Errorf("sequential method was replaced by %T", got[1])
	}
	for _, i := range []int{0, 2} {
		pm, ok := got[i].(montecarlo.ParallelMethod)
		if !ok {
			t.Fatalf("method %d is %T, want ParallelMethod", i, got[i])
		}
		if pm.Estimator == nil {
			t.Fatalf("method %d has no estimator", i)
		}
	}
	if got[0].(montecarlo.ParallelMethod).Estimator == par.Estimator {
		t.Error("the caller's estimator should not be modified in place")
	}

	res, err := got[0].Run(context.Background(), nil, 20_000, 4)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Combined.Total != 20_000 {
		t.Errorf("Total = %d, want 20000", res.Combined.Total)
	}
}
