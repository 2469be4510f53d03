package tui

import (
	"strings"
	"testing"
	"time"
)

func TestHeaderModel_View(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    string
		notWant string
	}{
		{"v1.0.0", "picalc Monitor v1.0.0", ""},
		{"dev", "picalc Monitor", "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			h := NewHeaderModel(tt.version, 1_000_000, 8)
			h.SetWidth(120)
			view := h.View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q: %s", tt.want, view)
			}
			if !strings.Contains(view, "1,000,000 samples × 8 workers") {
				t.Errorf("view missing run size: %s", view)
			}
			if tt.notWant != "" && strings.Contains(view, tt.notWant) {
				t.Errorf("view should not contain %q: %s", tt.notWant, view)
			}
		})
	}
}

func TestHeaderModel_Elapsed(t *testing.T) {
	t.Parallel()
	h := NewHeaderModel("", 1, 1)
	h.startTime = time.Now().Add(-2 * time.Second)
	h.SetDone()
	frozen := h.Elapsed()
	if frozen < 2*time.Second {
		t.Errorf("Elapsed() = %v, want >= 2s", frozen)
	}
	time.Sleep(10 * time.Millisecond)
	if h.Elapsed() != frozen {
		t.Error("Elapsed() should be frozen after SetDone")
	}

	h.Reset()
	if h.Elapsed() > time.Second {
		t.Errorf("Elapsed() = %v after Reset", h.Elapsed())
	}
}

func TestFooterModel_Status(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		setup func(f *FooterModel)
		want  string
	}{
		{"running", func(*FooterModel) {}, "RUNNING"},
		{"paused", func(f *FooterModel) { f.SetPaused(true) }, "PAUSED"},
		{"done", func(f *FooterModel) { f.SetDone(true) }, "DONE"},
		{"error wins", func(f *FooterModel) { f.SetDone(true); f.SetError(true) }, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := NewFooterModel(DefaultKeyMap())
			f.SetWidth(100)
			tt.setup(&f)
			if view := f.View(); !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q: %s", tt.want, view)
			}
		})
	}
}

func TestFooterModel_ToggleHelp(t *testing.T) {
	t.Parallel()
	f := NewFooterModel(DefaultKeyMap())
	f.SetWidth(120)
	if f.ShowingFullHelp() || f.Height() != 1 {
		t.Fatal("footer should start with the short help on one line")
	}
	if strings.Contains(f.View(), "page up") {
		t.Error("short help should not list scrolling keys")
	}

	f.ToggleHelp()
	if !f.ShowingFullHelp() {
		t.Fatal("ToggleHelp did not show the full help")
	}
	if f.Height() < 4 {
		t.Errorf("Height() = %d with full help, want >= 4", f.Height())
	}
	if !strings.Contains(f.View(), "page up") {
		t.Error("full help should list scrolling keys")
	}
}
