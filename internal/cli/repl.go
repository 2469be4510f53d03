package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/ui"
)

// REPLConfig holds the initial settings of an interactive session.
type REPLConfig struct {
	// DefaultMethod is the method used by "run". "all" or empty selects the
	// first registered method.
	DefaultMethod string
	// Timeout bounds each run.
	Timeout time.Duration
	// Samples is the sample budget used when a command omits it.
	Samples int64
	// Workers is the worker count passed to every run.
	Workers int
	// Tolerance is used by "compare".
	Tolerance float64
}

// REPL is an interactive estimation session.
type REPL struct {
	config        REPLConfig
	factory       *montecarlo.MethodFactory
	currentMethod string
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a session over the methods of factory.
func NewREPL(factory *montecarlo.MethodFactory, config REPLConfig) *REPL {
	current := config.DefaultMethod
	if _, err := factory.Get(current); err != nil {
		if names := factory.List(); len(names) > 0 {
			current = names[0]
		}
	}
	return &REPL{
		config:        config,
		factory:       factory,
		currentMethod: current,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until "exit" or EOF.
func (r *REPL) Start() {
	fmt.Fprintf(r.out, "\n%spicalc interactive mode%s (type %shelp%s for commands)\n\n",
		ui.ColorBold(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"pi> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" && !r.processCommand(line) {
			return
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range [][2]string{
		{"run [n]", "Estimate with the current method (a bare number also runs)"},
		{"compare [n]", "Run every method on n samples and compare"},
		{"method <name>", "Change method (" + strings.Join(r.factory.List(), ", ") + ")"},
		{"workers <w>", "Set the worker count"},
		{"samples <n>", "Set the default sample count"},
		{"list", "List available methods"},
		{"status", "Display current settings"},
		{"help", "Display this help"},
		{"exit", "Leave interactive mode"},
	} {
		fmt.Fprintf(r.out, "  %s%-14s%s - %s\n", ui.ColorYellow(), c[0], ui.ColorReset(), c[1])
	}
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "run", "r":
		if n, ok := r.samplesArg(args); ok {
			r.run(n)
		}
	case "compare", "cmp":
		if n, ok := r.samplesArg(args); ok {
			r.compare(n)
		}
	case "method", "m":
		r.cmdMethod(args)
	case "workers", "w":
		if v, ok := r.intArg(args, "workers <w>"); ok {
			if v < 1 {
				fmt.Fprintf(r.out, "%sworker count must be at least 1%s\n", ui.ColorRed(), ui.ColorReset())
				break
			}
			r.config.Workers = int(v)
		}
	case "samples", "n":
		if v, ok := r.intArg(args, "samples <n>"); ok {
			r.config.Samples = v
		}
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if n, err := strconv.ParseInt(cmd, 10, 64); err == nil {
			r.run(n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		}
	}
	return true
}

func (r *REPL) samplesArg(args []string) (int64, bool) {
	if len(args) == 0 {
		return r.config.Samples, true
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid sample count: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return n, true
}

func (r *REPL) intArg(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
		return 0, false
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return v, true
}

func (r *REPL) run(n int64) {
	m, err := r.factory.Get(r.currentMethod)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Estimating with %s%s%s on %s samples...\n",
		ui.ColorCyan(), m.Name(), ui.ColorReset(), format.FormatInt(n))

	results := orchestration.ExecuteEstimations(ctx, []montecarlo.Method{m}, n, r.config.Workers, CLIProgressReporter{}, r.out)
	res := results[0]
	if res.Err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		return
	}
	if err := DisplayResultWithConfig(r.out, res.Result, res.Duration, res.Name, OutputConfig{}); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) compare(n int64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	methods := orchestration.GetMethodsToRun(orchestration.MethodAll, r.factory)
	results := orchestration.ExecuteEstimations(ctx, methods, n, r.config.Workers, orchestration.NullProgressReporter{}, io.Discard)

	fmt.Fprintf(r.out, "\n%sComparison on %s samples:%s\n", ui.ColorBold(), format.FormatInt(n), ui.ColorReset())
	var ref *montecarlo.Estimate
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(r.out, "  %s%-28s%s: %sError - %v%s\n",
				ui.ColorYellow(), res.Name, ui.ColorReset(), ui.ColorRed(), res.Err, ui.ColorReset())
			continue
		}
		est := res.Result.Estimate
		if !est.Defined {
			fmt.Fprintf(r.out, "  %s%-28s%s: undefined\n", ui.ColorYellow(), res.Name, ui.ColorReset())
			continue
		}
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if ref == nil {
			ref = &est
		} else if !orchestration.EstimatesAgree(*ref, est, r.config.Tolerance) {
			status = ui.ColorRed() + "✗ MISMATCH" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-28s%s: %.6f (|error| %.6f) %s%10s%s %s\n",
			ui.ColorYellow(), res.Name, ui.ColorReset(), est.Value, est.AbsError(math.Pi),
			ui.ColorCyan(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(), status)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdMethod(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: method <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	name := strings.ToLower(args[0])
	m, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown method: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		return
	}
	r.currentMethod = name
	fmt.Fprintf(r.out, "Method changed to: %s%s%s\n", ui.ColorGreen(), m.Name(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	for _, name := range r.factory.List() {
		m, _ := r.factory.Get(name)
		marker := "  "
		if name == r.currentMethod {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-12s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), m.Name())
	}
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "  Method:   %s%s%s\n", ui.ColorCyan(), r.currentMethod, ui.ColorReset())
	fmt.Fprintf(r.out, "  Samples:  %s%s%s\n", ui.ColorCyan(), format.FormatInt(r.config.Samples), ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers:  %s%d%s\n", ui.ColorCyan(), r.config.Workers, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:  %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
}
