package cmd

import (
	"fmt"
	"strings"

	"mico/internal/cli"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <resource> [short-name version]",
	Short: "Show a single resource",
	Long: `Show one resource from the MICO platform.

Available resource types:
  application <name> <version>  - An application with the services it includes
  service <name> <version>      - One service version
  dependees <name> <version>    - Services the given service depends on
  dependers <name> <version>    - Services depending on the given service
  interfaces <name> <version>   - Interfaces the service exposes
  status <name> <version>       - Runtime status of a deployed application
  models                        - Model definitions published by the backend

Examples:
  mico get application shop 1.0.0
  mico get service hello 0.1.0 -o yaml
  mico get interfaces hello 0.1.0 -o wide
  mico get models`,
	Args:      cobra.RangeArgs(1, 3),
	ValidArgs: []string{"application", "service", "dependees", "dependers", "interfaces", "status", "models"},
	RunE:      runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	resource := strings.ToLower(args[0])
	switch resource {
	case "models":
		if len(args) != 1 {
			return fmt.Errorf("get models takes no further arguments")
		}
	case "application", "app", "service", "svc", "dependees", "dependers", "interfaces", "status":
		if len(args) != 3 {
			return fmt.Errorf("get %s requires a short name and a version", resource)
		}
	default:
		return fmt.Errorf("unknown resource type '%s'. Available types: application, service, dependees, dependers, interfaces, status, models", args[0])
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if resource == "models" {
		models, err := cli.Await(ctx, s, "Loading model definitions...", s.Client.ModelDefinitions(ctx))
		if err != nil {
			return err
		}
		return s.Print(cli.ModelTable(models))
	}

	short, version := args[1], args[2]
	switch resource {
	case "application", "app":
		app, err := cli.Await(ctx, s, "Loading application...", s.Client.Application(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.ApplicationDetail(app))
	case "service", "svc":
		svc, err := cli.Await(ctx, s, "Loading service...", s.Client.Service(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.ServiceDetail(svc))
	case "dependees":
		services, err := cli.Await(ctx, s, "Loading dependees...", s.Client.ServiceDependees(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.ServiceTable(services))
	case "dependers":
		services, err := cli.Await(ctx, s, "Loading dependers...", s.Client.ServiceDependers(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.ServiceTable(services))
	case "interfaces":
		ifaces, err := cli.Await(ctx, s, "Loading interfaces...", s.Client.ServiceInterfaces(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.InterfaceTable(ifaces))
	default:
		status, err := cli.Await(ctx, s, "Loading status...", s.Client.ApplicationStatus(ctx, short, version))
		if err != nil {
			return err
		}
		return s.Print(cli.StatusTable(status))
	}
}
