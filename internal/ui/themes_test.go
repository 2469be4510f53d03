package ui

import "testing"

// Theme tests mutate package state and therefore do not run in parallel.

func TestSetTheme(t *testing.T) {
	saved := CurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"solarized", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := CurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme_NoColor(t *testing.T) {
	saved := CurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" || ColorBold() != "" {
		t.Error("no-color theme must not emit escape codes")
	}
	if CurrentTUITheme() != NoColorTUITheme {
		t.Error("TUI palette should follow the no-color theme")
	}
}

func TestInitTheme_NoColorEnv(t *testing.T) {
	saved := CurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if CurrentTheme().Name != NoColorTheme.Name {
		t.Errorf("NO_COLOR should disable colors, got theme %q", CurrentTheme().Name)
	}
}

func TestColorFunctions(t *testing.T) {
	saved := CurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	SetCurrentTheme(DarkTheme)
	pairs := map[string][2]string{
		"red":    {ColorRed(), DarkTheme.Error},
		"green":  {ColorGreen(), DarkTheme.Success},
		"yellow": {ColorYellow(), DarkTheme.Warning},
		"blue":   {ColorBlue(), DarkTheme.Primary},
		"cyan":   {ColorCyan(), DarkTheme.Info},
		"gray":   {ColorGray(), DarkTheme.Secondary},
		"reset":  {ColorReset(), DarkTheme.Reset},
	}
	for name, p := range pairs {
		if p[0] != p[1] || p[0] == "" {
			t.Errorf("%s: got %q, want %q", name, p[0], p[1])
		}
	}
	if CurrentTUITheme() != DarkTUITheme {
		t.Error("dark theme should map to the dark TUI palette")
	}
}
