package cmd

import (
	"fmt"
	"strings"

	"mico/internal/transport"
	"mico/pkg/logging"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <application|service> <short-name> <version>",
	Short: "Delete an application or service version",
	Long: `Delete one version of an application or a service.

Examples:
  mico delete service hello 0.1.0
  mico delete application shop 1.0.0`,
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{"application", "service"},
	RunE:      runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	short, version := args[1], args[2]

	var remove func() (transport.Result, error)
	switch kind {
	case "application", "app":
		kind = "application"
	case "service", "svc":
		kind = "service"
	default:
		return fmt.Errorf("unknown resource type '%s'. Available types: application, service", args[0])
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if kind == "application" {
		remove = func() (transport.Result, error) { return s.Client.DeleteApplication(ctx, short, version) }
	} else {
		remove = func() (transport.Result, error) { return s.Client.DeleteService(ctx, short, version) }
	}

	var res transport.Result
	err = s.Spin(fmt.Sprintf("Deleting %s...", kind), func() error {
		var err error
		res, err = remove()
		return err
	})
	if err != nil {
		return err
	}

	logging.Debug("Session", "Delete of %s %s@%s answered with %s", kind, short, version, res)
	s.Success("Deleted %s %s@%s", kind, short, version)
	return nil
}
