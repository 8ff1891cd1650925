package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"mico/internal/graph"
	"mico/pkg/logging"
)

// commandTimeout bounds a single REPL command, dialogs included.
const commandTimeout = 5 * time.Minute

var errQuit = errors.New("quit")

type replCommand struct {
	usage       string
	description string
	run         func(ctx context.Context, args []string) error
}

// GraphREPL is the interactive shell of `mico graph --interactive`.
type GraphREPL struct {
	session  *GraphSession
	out      io.Writer
	colors   bool
	commands map[string]replCommand

	mu sync.Mutex
	rl *readline.Instance
}

// NewGraphREPL creates a shell over session writing to out.
func NewGraphREPL(session *GraphSession, out io.Writer, colors bool) *GraphREPL {
	r := &GraphREPL{session: session, out: out, colors: colors}
	r.registerCommands()
	return r
}

func (r *GraphREPL) registerCommands() {
	r.commands = map[string]replCommand{
		"show": {
			usage:       "show",
			description: "Print the graph as a table and include tree",
			run: func(ctx context.Context, args []string) error {
				return r.session.WriteText(r.out, r.colors)
			},
		},
		"dot": {
			usage:       "dot",
			description: "Print the graph in Graphviz DOT format",
			run: func(ctx context.Context, args []string) error {
				return r.session.WriteDOT(r.out)
			},
		},
		"refresh": {
			usage:       "refresh",
			description: "Reload the application from the backend",
			run: func(ctx context.Context, args []string) error {
				return r.session.Refresh(ctx)
			},
		},
		"change": {
			usage:       "change <service>",
			description: "Pick another version of an included service",
			run:         r.change,
		},
		"help": {
			usage:       "help",
			description: "Show this help",
			run: func(ctx context.Context, args []string) error {
				r.printHelp()
				return nil
			},
		},
		"quit": {
			usage:       "quit",
			description: "Leave the session",
			run: func(ctx context.Context, args []string) error {
				return errQuit
			},
		},
	}
}

func (r *GraphREPL) change(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: change <service>")
	}
	picked, changed, err := r.session.ChangeServiceVersion(ctx, args[0])
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(r.out, "Version unchanged")
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s now uses version %s", picked.ShortName, picked.Version)))
	return nil
}

func (r *GraphREPL) printHelp() {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.out, "Available commands:")
	for _, name := range names {
		cmd := r.commands[name]
		fmt.Fprintf(r.out, "  %-18s %s\n", cmd.usage, cmd.description)
	}
}

// Execute runs one input line. It returns errQuit for quit and exit.
func (r *GraphREPL) Execute(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	switch name {
	case "?":
		name = "help"
	case "exit":
		name = "quit"
	}

	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return cmd.run(cmdCtx, parts[1:])
}

func (r *GraphREPL) completer() *readline.PrefixCompleter {
	services := func(string) []string {
		var names []string
		for _, n := range r.session.Reconciler().Nodes() {
			if n.Kind == graph.KindService {
				names = append(names, n.ShortName)
			}
		}
		return names
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("show"),
		readline.PcItem("dot"),
		readline.PcItem("refresh"),
		readline.PcItem("change", readline.PcItemDynamic(services)),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}

// Run reads commands until quit, EOF or ctx is done. The readline instance
// is closed while a command runs so that dialogs own the terminal.
func (r *GraphREPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Type 'help' for available commands. Use TAB for completion.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if err := r.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			logging.Debug("Session", "command %q failed: %v", line, err)
			fmt.Fprintln(r.out, FormatError(err))
		}
	}
}

func (r *GraphREPL) readLine() (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            fmt.Sprintf("mico %s@%s> ", r.session.short, r.session.version),
		HistoryFile:       filepath.Join(os.TempDir(), ".mico_graph_history"),
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
		Stdout:            r.out,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create readline instance: %w", err)
	}

	r.mu.Lock()
	r.rl = rl
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.rl = nil
		r.mu.Unlock()
		rl.Close()
	}()

	line, err := rl.Readline()
	if err != nil && !errors.Is(err, readline.ErrInterrupt) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("readline error: %w", err)
	}
	return line, err
}

// Notify prints msg above the prompt while a session is running.
func (r *GraphREPL) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rl == nil {
		return
	}
	_, _ = r.rl.Stdout().Write([]byte("\r\033[K" + msg + "\n"))
	r.rl.Refresh()
}
