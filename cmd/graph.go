package cmd

import (
	"fmt"
	"time"

	"mico/internal/api"
	"mico/internal/cli"
	"mico/internal/graph"
	"mico/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	graphFormat      string
	graphWatch       bool
	graphInteractive bool
	graphInterval    time.Duration
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

var graphCmd = &cobra.Command{
	Use:   "graph <app> <version>",
	Short: "Show the dependency graph of an application",
	Long: `Show the application node and the services it includes.

With --watch the graph is redrawn whenever the application changes; the
backend is polled every --interval. With --interactive a shell lets you
inspect the graph and switch service versions.

Examples:
  mico graph shop 1.0.0
  mico graph shop 1.0.0 --format dot | dot -Tsvg > shop.svg
  mico graph shop 1.0.0 --watch
  mico graph shop 1.0.0 --interactive`,
	Args: cobra.ExactArgs(2),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphFormat, "format", "table", "Graph format (table, dot)")
	graphCmd.Flags().BoolVarP(&graphWatch, "watch", "w", false, "Redraw the graph when the application changes")
	graphCmd.Flags().BoolVarP(&graphInteractive, "interactive", "i", false, "Open an interactive shell on the graph")
	graphCmd.Flags().DurationVar(&graphInterval, "interval", 5*time.Second, "Polling interval for --watch")
}

func runGraph(cmd *cobra.Command, args []string) error {
	short, version := args[0], args[1]
	if graphFormat != "table" && graphFormat != "dot" {
		return fmt.Errorf("unsupported graph format %q (use table or dot)", graphFormat)
	}
	if graphWatch && graphInteractive {
		return fmt.Errorf("--watch and --interactive cannot be combined")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	colors := !s.Config.Output.NoColor
	switch {
	case graphInteractive:
		return runGraphInteractive(cmd, s, short, version, colors)
	case graphWatch:
		return runGraphWatch(cmd, s, short, version, colors)
	}

	ctx := cmd.Context()
	gs := cli.NewGraphSession(s.Client, graph.NewSceneRenderer(), cli.FixedVersionPicker{}, short, version)
	defer gs.Close()

	if err := s.Spin("Loading application...", func() error { return gs.Load(ctx) }); err != nil {
		return err
	}
	if graphFormat == "dot" {
		return gs.WriteDOT(s.Out())
	}
	return gs.WriteText(s.Out(), colors)
}

func runGraphWatch(cmd *cobra.Command, s *cli.Session, short, version string, colors bool) error {
	ctx := cmd.Context()
	out := s.Out()

	var renderer graph.Renderer
	if graphFormat == "dot" {
		renderer = graph.NewDOTRenderer(out, short+"@"+version)
	} else {
		renderer = graph.NewTextRenderer(out,
			graph.WithColors(colors),
			graph.WithFrameHook(func() { fmt.Fprint(out, clearScreen) }),
		)
	}

	gs := cli.NewGraphSession(s.Client, renderer, cli.FixedVersionPicker{}, short, version,
		cli.WithErrorHook(func(err error) { s.Warn("%v", err) }),
	)
	defer gs.Close()

	if err := gs.Load(ctx); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(graphInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := gs.Refresh(ctx); err != nil {
					logging.Debug("Session", "Refresh of %s@%s failed: %v", short, version, err)
				}
			}
		}
	}()

	return gs.Follow(ctx)
}

func runGraphInteractive(cmd *cobra.Command, s *cli.Session, short, version string, colors bool) error {
	ctx := cmd.Context()

	var repl *cli.GraphREPL
	picker := cli.NewHuhVersionPicker(cmd.InOrStdin(), cmd.ErrOrStderr())
	gs := cli.NewGraphSession(s.Client, graph.NewSceneRenderer(), picker, short, version,
		cli.WithApplyHook(func(app api.Application) {
			if repl != nil {
				repl.Notify(fmt.Sprintf("graph updated: %s includes %d services", app, len(app.Services)))
			}
		}),
		cli.WithErrorHook(func(err error) {
			if repl != nil {
				repl.Notify(cli.FormatError(err))
			}
		}),
	)
	defer gs.Close()

	if err := s.Spin("Loading application...", func() error { return gs.Load(ctx) }); err != nil {
		return err
	}
	if err := gs.WriteText(s.Out(), colors); err != nil {
		return err
	}

	repl = cli.NewGraphREPL(gs, s.Out(), colors)
	go func() { _ = gs.Follow(ctx) }()
	return repl.Run(ctx)
}
