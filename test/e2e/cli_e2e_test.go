package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// buildBinary compiles cmd/picalc into a temporary directory. go test runs
// with the package directory as working directory, so the build starts from
// the module root two levels up.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "picalc"
	if runtime.GOOS == "windows" {
		binName = "picalc.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/picalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build picalc: %v", err)
	}
	return binPath
}

// TestCLI_E2E verifies the built binary end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := buildBinary(t)
	profile := filepath.Join(t.TempDir(), "profile.json")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Basic Estimate",
			args:     []string{"-n", "100000", "-w", "4", "--method", "parallel"},
			wantOut:  "Estimate:",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "All Methods Comparison",
			args:     []string{"-n", "200000", "-w", "2", "--method", "all", "--seed", "11"},
			wantOut:  "All estimates are consistent",
			wantCode: 0,
		},
		{
			name:     "Zero Samples",
			args:     []string{"-n", "0", "-w", "2", "-q"},
			wantOut:  "undefined",
			wantCode: 5,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-n", "1000000000", "-w", "2", "--timeout", "1ms"},
			wantOut:  "",
			wantCode: 2,
		},
		{
			name:     "Negative Workers",
			args:     []string{"-n", "10", "-w", "-1"},
			wantOut:  "worker count",
			wantCode: 1,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "fish"},
			wantOut:  "complete -c picalc",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "picalc",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--calibration-profile", profile}, tt.args...)
			cmd := exec.Command(binPath, args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command did not run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}

// TestCLI_E2E_SeedIsReproducible runs the same seeded estimate several times
// for each method selection, including the default "all".
func TestCLI_E2E_SeedIsReproducible(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := buildBinary(t)

	run := func(extra ...string) float64 {
		args := append([]string{"-q", "-n", "50000", "-w", "8", "--seed", "99"}, extra...)
		out, err := exec.Command(binPath, args...).Output()
		if err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
		if err != nil {
			t.Fatalf("output %q is not a number", out)
		}
		return v
	}

	for _, tc := range []struct {
		name string
		args []string
	}{
		{"parallel", []string{"--method", "parallel"}},
		{"sequential", []string{"--method", "sequential"}},
		{"default", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := run(tc.args...)
			for i := 0; i < 5; i++ {
				if got := run(tc.args...); got != want {
					t.Fatalf("run %d printed %v, first run printed %v", i, got, want)
				}
			}
		})
	}
}
