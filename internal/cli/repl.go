package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/internal/ui"
)

// DefaultMaxTake bounds a single take command.
const DefaultMaxTake = 10_000

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// MaxTake caps the count accepted by take. Zero means DefaultMaxTake.
	MaxTake int
}

// REPL is an interactive session stepping through one spiral sequence.
type REPL struct {
	config   REPLConfig
	seq      *spiral.Sequence[int64]
	produced uint64
	in       io.Reader
	out      io.Writer
}

// NewREPL returns a session positioned at the origin, reading stdin and
// writing stdout.
func NewREPL(config REPLConfig) *REPL {
	if config.MaxTake <= 0 {
		config.MaxTake = DefaultMaxTake
	}
	return &REPL{
		config: config,
		seq:    spiral.New[int64](),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until exit, quit or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.Colorize(ui.ColorGreen(), "ulam> "))

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if err != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sUlam Spiral - Interactive Mode%s         %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(s string) string { return ui.Colorize(ui.ColorYellow(), s) }
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s          - Emit the next coordinate\n", cmd("next"))
	fmt.Fprintf(r.out, "  %s      - Emit the next n coordinates (or just type n)\n", cmd("take <n>"))
	fmt.Fprintf(r.out, "  %s          - Show the next coordinate without consuming it\n", cmd("peek"))
	fmt.Fprintf(r.out, "  %s          - Describe the current ring\n", cmd("ring"))
	fmt.Fprintf(r.out, "  %s        - Display session state\n", cmd("status"))
	fmt.Fprintf(r.out, "  %s       - Start over from the origin\n", cmd("restart"))
	fmt.Fprintf(r.out, "  %s          - Display this help\n", cmd("help"))
	fmt.Fprintf(r.out, "  %s / %s   - Exit interactive mode\n", cmd("exit"), cmd("quit"))
}

// processCommand executes one command line and reports whether the session
// continues.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "next", "n":
		r.emit(1)
	case "take", "t":
		r.cmdTake(args)
	case "peek", "p":
		c := r.seq.Peek()
		fmt.Fprintf(r.out, "  next #%d %s ring %d\n", r.produced, FormatCoord(c), c.Chebyshev())
	case "ring", "r":
		r.cmdRing()
	case "status", "st":
		r.cmdStatus()
	case "restart", "reset":
		r.seq = spiral.New[int64]()
		r.produced = 0
		fmt.Fprintf(r.out, "Sequence restarted at %s\n", FormatCoord(r.seq.Peek()))
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, ui.Colorize(ui.ColorGreen(), "Goodbye!"))
		return false
	default:
		if n, err := strconv.Atoi(cmd); err == nil {
			r.take(n)
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %s to see available commands.\n", ui.Colorize(ui.ColorYellow(), "help"))
	}
	return true
}

func (r *REPL) cmdTake(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: take <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.take(n)
}

func (r *REPL) take(n int) {
	if n <= 0 || n > r.config.MaxTake {
		fmt.Fprintf(r.out, "%sCount must be between 1 and %d%s\n", ui.ColorRed(), r.config.MaxTake, ui.ColorReset())
		return
	}
	r.emit(n)
}

// emit prints the next n coordinates with their index and ring.
func (r *REPL) emit(n int) {
	for c := range spiral.Take(r.seq.All(), n) {
		fmt.Fprintf(r.out, "  #%d %s ring %d\n", r.produced, FormatCoord(c), c.Chebyshev())
		r.produced++
	}
}

func (r *REPL) cmdRing() {
	k := r.seq.Ring()
	size := spiral.RingSize(k)
	fmt.Fprintf(r.out, "Ring %s: cell %d of %d, side %d, %d cells through this ring\n",
		ui.Colorize(ui.ColorMagenta(), strconv.FormatUint(k, 10)),
		r.seq.Position()+1, size, r.seq.Diameter(), spiral.CellsThroughRing(k))
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sSession state:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Produced:       %s\n", ui.Colorize(ui.ColorCyan(), FormatCount(r.produced)))
	fmt.Fprintf(r.out, "  Complete rings: %s\n", ui.Colorize(ui.ColorCyan(), FormatCount(spiral.CompleteRings(r.produced))))
	fmt.Fprintf(r.out, "  Next:           %s\n", FormatCoord(r.seq.Peek()))
	fmt.Fprintf(r.out, "  Max take:       %s\n", ui.Colorize(ui.ColorCyan(), FormatCount(r.config.MaxTake)))
	fmt.Fprintln(r.out)
}
