package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/progress"
)

// timedMethod sleeps for a duration that depends on the worker count.
type timedMethod struct {
	mu    sync.Mutex
	delay map[int]time.Duration
	fail  map[int]bool
	calls []int
}

func (*timedMethod) Name() string { return "timed" }

func (m *timedMethod) Run(ctx context.Context, _ progress.ProgressCallback, _ int64, workers int) (montecarlo.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, workers)
	m.mu.Unlock()
	if m.fail[workers] {
		return montecarlo.Result{}, errors.New("boom")
	}
	select {
	case <-time.After(m.delay[workers]):
		return montecarlo.Result{}, nil
	case <-ctx.Done():
		return montecarlo.Result{}, ctx.Err()
	}
}

func factoryWith(m montecarlo.Method) *montecarlo.MethodFactory {
	f := montecarlo.NewMethodFactory()
	f.Register(montecarlo.MethodParallel, m)
	return f
}

func TestBenchmarkPicksFastest(t *testing.T) {
	t.Parallel()
	m := &timedMethod{delay: map[int]time.Duration{1: 40 * time.Millisecond, 2: 5 * time.Millisecond, 4: 20 * time.Millisecond}}
	results, best, err := benchmark(context.Background(), m, 100, []int{1, 2, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best != 2 {
		t.Errorf("best = %d, want 2", best)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBenchmarkSkipsFailures(t *testing.T) {
	t.Parallel()
	m := &timedMethod{fail: map[int]bool{1: true}, delay: map[int]time.Duration{2: time.Millisecond}}
	_, best, err := benchmark(context.Background(), m, 100, []int{1, 2})
	if err != nil || best != 2 {
		t.Errorf("best = %d, err = %v; want 2, nil", best, err)
	}

	all := &timedMethod{fail: map[int]bool{1: true, 2: true}}
	if _, _, err := benchmark(context.Background(), all, 100, []int{1, 2}); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("err = %v, want ErrNoCandidate", err)
	}
}

func TestBenchmarkCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &timedMethod{}
	if _, _, err := benchmark(ctx, m, 100, []int{1, 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(m.calls) != 0 {
		t.Errorf("no candidate should run after cancellation, ran %v", m.calls)
	}
}

func TestRunCalibration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	m := &timedMethod{delay: map[int]time.Duration{}}
	var out bytes.Buffer

	best, err := RunCalibration(context.Background(), &out, factoryWith(m), path)
	if err != nil {
		t.Fatalf("RunCalibration failed: %v", err)
	}
	if best < 1 {
		t.Errorf("best = %d, want a positive worker count", best)
	}
	if !strings.Contains(out.String(), "Calibration Summary") || !strings.Contains(out.String(), "Optimal") {
		t.Errorf("summary not printed:\n%s", out.String())
	}

	profile, loaded := LoadOrCreateProfile(path)
	if !loaded || profile.OptimalWorkers != best || profile.CalibrationSamples != CalibrationSamples {
		t.Errorf("profile not saved correctly: loaded=%v %+v", loaded, profile)
	}
}

func TestRunCalibration_NoParallelMethod(t *testing.T) {
	t.Parallel()
	if _, err := RunCalibration(context.Background(), &bytes.Buffer{}, montecarlo.NewMethodFactory(), ""); err == nil {
		t.Error("expected an error without a parallel method")
	}
}

func TestAutoCalibrate(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "auto.json")
	cfg := config.AppConfig{CalibrationProfile: path}
	var out bytes.Buffer

	got, ok := AutoCalibrate(context.Background(), cfg, &out, factoryWith(&timedMethod{}))
	if !ok {
		t.Fatal("AutoCalibrate should succeed")
	}
	if got.Workers < 1 {
		t.Errorf("Workers = %d, want a positive count", got.Workers)
	}
	if !strings.Contains(out.String(), "Auto-calibration") {
		t.Errorf("output = %q", out.String())
	}

	cached, ok := LoadCachedCalibration(config.AppConfig{}, path)
	if !ok || cached.Workers != got.Workers {
		t.Errorf("cached calibration = %d (ok=%v), want %d", cached.Workers, ok, got.Workers)
	}
}

func TestAutoCalibrate_KeepsExplicitWorkers(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "auto.json")
	cfg := config.AppConfig{Workers: 3, ExplicitWorkers: true, CalibrationProfile: path}
	m := &timedMethod{}
	var out bytes.Buffer

	got, ok := AutoCalibrate(context.Background(), cfg, &out, factoryWith(m))
	if ok {
		t.Error("AutoCalibrate should skip a user-chosen worker count")
	}
	if got.Workers != 3 {
		t.Errorf("Workers = %d, want 3", got.Workers)
	}
	if len(m.calls) != 0 {
		t.Errorf("benchmark ran %d times, want 0", len(m.calls))
	}
	if _, loaded := LoadOrCreateProfile(path); loaded {
		t.Error("no profile should be written when calibration is skipped")
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	valid := NewProfile()
	valid.OptimalWorkers = 3
	validPath := filepath.Join(dir, "valid.json")
	if err := valid.SaveProfile(validPath); err != nil {
		t.Fatal(err)
	}

	stale := NewProfile()
	stale.OptimalWorkers = 3
	stale.CalibratedAt = time.Now().Add(-2 * DefaultProfileMaxAge)
	stalePath := filepath.Join(dir, "stale.json")
	if err := stale.SaveProfile(stalePath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		cfg         config.AppConfig
		path        string
		wantOK      bool
		wantWorkers int
	}{
		{"valid profile", config.AppConfig{}, validPath, true, 3},
		{"explicit workers win", config.AppConfig{Workers: 7}, validPath, false, 7},
		{"stale profile", config.AppConfig{}, stalePath, false, 0},
		{"missing profile", config.AppConfig{}, filepath.Join(dir, "missing.json"), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LoadCachedCalibration(tt.cfg, tt.path)
			if ok != tt.wantOK || got.Workers != tt.wantWorkers {
				t.Errorf("got workers=%d ok=%v, want %d %v", got.Workers, ok, tt.wantWorkers, tt.wantOK)
			}
		})
	}
}
