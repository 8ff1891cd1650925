package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mico/internal/cli"
	"mico/pkg/logging"

	"github.com/spf13/cobra"
)

// rootFlags holds the global flags shared by every command.
var rootFlags cli.CommandFlags

// rootCmd represents the base command for the mico application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mico",
	Short: "Administer applications and services on a MICO platform",
	Long: `mico is the command-line admin client for the MICO orchestration platform.

It lists and edits applications and services, manages which service
versions an application includes, and shows the dependency graph of an
application, interactively if you like.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute together with a hint.
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootFlags.Debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mico version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	return cli.ExitCodeForError(err)
}

// newSession opens a backend session configured from the global flags.
func newSession(cmd *cobra.Command) (*cli.Session, error) {
	return cli.NewSession(&rootFlags,
		cli.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		cli.WithUserAgent("mico/"+rootCmd.Version),
	)
}

func init() {
	cli.RegisterCommonFlags(rootCmd, &rootFlags)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
