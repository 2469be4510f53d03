package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value; empty for boolean flags
	IsFile    bool     // completes file paths
	IsMethod  bool     // values come from the method registry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "samples", Short: "n", Help: "Total number of samples", Values: []string{"1000000", "10000000", "100000000"}, ValueName: "count"},
	{Long: "workers", Short: "w", Help: "Number of workers (0 = adaptive)", Values: []string{"0", "1", "2", "4", "8", "16"}, ValueName: "count"},
	{Long: "seed", Help: "Base seed for reproducible runs", ValueName: "number"},
	{Long: "method", Help: "Estimation method", IsMethod: true, ValueName: "method"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "tolerance", Help: "Maximum accepted difference between methods", Values: []string{"0.001", "0.01", "0.1"}, ValueName: "float"},
	{Long: "verbose", Short: "v", Help: "Print the estimate with full precision"},
	{Long: "details", Short: "d", Help: "Show per-worker details"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "interactive", Short: "i", Help: "Start the interactive shell"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Long: "serve", Help: "Serve estimates over HTTP", Values: []string{":8080"}, ValueName: "address"},
	{Long: "calibrate", Help: "Run calibration mode"},
	{Long: "auto-calibrate", Help: "Enable auto-calibration"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "log-level", Help: "Log level", Values: []string{"trace", "debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish", "powershell"). methods lists the registered method names.
func GenerateCompletion(out io.Writer, shell string, methods []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(methods)
	case "zsh":
		script = zshCompletion(methods)
	case "fish":
		script = fishCompletion(methods)
	case "powershell", "ps":
		script = powerShellCompletion(methods)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagNames returns the dash-prefixed spellings of f.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(methods []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)

		var body string
		switch {
		case f.IsMethod:
			body = `COMPREPLY=( $(compgen -W "${methods}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(names, "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for picalc
# Add this to your ~/.bashrc or ~/.bash_completion

_picalc_completions() {
    local cur prev opts methods
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    methods="%s all"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _picalc_completions picalc
`, strings.Join(opts, " "), strings.Join(methods, " "), cases.String())
}

func zshCompletion(methods []string) string {
	var args []string
	for _, f := range flagRegistry {
		var suffix string
		switch {
		case f.IsFile:
			suffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case f.IsMethod:
			suffix = fmt.Sprintf(":%s:($methods)", f.ValueName)
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		switch {
		case f.Long != "" && f.Short != "":
			args = append(args, fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix))
		case f.Long != "":
			args = append(args, fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, suffix))
		default:
			args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, suffix))
		}
	}

	return fmt.Sprintf(`#compdef picalc

# Zsh completion script for picalc
# Add this to your ~/.zshrc or place in $fpath

_picalc() {
    local -a methods
    methods=(%s all)

    _arguments -s \
%s
}

_picalc "$@"
`, strings.Join(methods, " "), strings.Join(args, " \\\n"))
}

func fishCompletion(methods []string) string {
	lines := []string{
		"# Fish completion script for picalc",
		"# Add this to ~/.config/fish/completions/picalc.fish",
		"",
		"complete -c picalc -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c picalc"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		if f.Long != "" {
			parts = append(parts, "-l "+f.Long)
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case f.IsMethod:
			parts = append(parts, fmt.Sprintf("-xa '%s all'", strings.Join(methods, " ")))
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func powerShellCompletion(methods []string) string {
	var options, switches []string
	for _, f := range flagRegistry {
		for _, name := range flagNames(f) {
			options = append(options, fmt.Sprintf("        @{Name = '%s'; Description = '%s' }", name, f.Help))
		}
		values := f.Values
		if f.IsMethod {
			values = append(append([]string{}, methods...), "all")
		}
		if f.Long == "" || len(values) == 0 {
			continue
		}
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + v + "'"
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quoted, ", ")))
	}

	return fmt.Sprintf(`# PowerShell completion script for picalc
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'picalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(options, "\n"), strings.Join(switches, "\n"))
}
