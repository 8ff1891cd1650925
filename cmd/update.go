package cmd

import (
	"fmt"
	"strings"

	"mico/internal/api"
	"mico/internal/cli"
	"mico/internal/client"

	"github.com/spf13/cobra"
)

var updateFile string

var updateCmd = &cobra.Command{
	Use:   "update <application|service> <short-name> <version> -f <file>",
	Short: "Update an application or service version",
	Long: `Replace the definition of an application or service version with the
contents of a YAML or JSON file. shortName and version may be omitted from
the file; when present they must match the arguments.

Examples:
  mico update service hello 0.1.0 -f hello.yaml
  mico update application shop 1.0.0 -f shop.yaml`,
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{"application", "service"},
	RunE:      runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateFile, "filename", "f", "", "Resource file (YAML or JSON), - for stdin")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	short, version := args[1], args[2]

	switch strings.ToLower(args[0]) {
	case "application", "app":
		var app api.Application
		if err := readResourceFile(cmd, updateFile, &app); err != nil {
			return err
		}
		if err := matchIdentity("application", short, version, &app.ShortName, &app.Version); err != nil {
			return err
		}
		if err := validateApplication(app); err != nil {
			return err
		}
		return updateApplication(cmd, app)
	case "service", "svc":
		var svc api.Service
		if err := readResourceFile(cmd, updateFile, &svc); err != nil {
			return err
		}
		if err := matchIdentity("service", short, version, &svc.ShortName, &svc.Version); err != nil {
			return err
		}
		if err := validateService(svc); err != nil {
			return err
		}
		return updateService(cmd, svc)
	default:
		return fmt.Errorf("unknown resource type '%s'. Available types: application, service", args[0])
	}
}

func updateApplication(cmd *cobra.Command, app api.Application) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var w *client.Watch[api.Application]
	err = s.Spin("Updating application...", func() error {
		var err error
		w, err = s.Client.PutApplication(ctx, app.ShortName, app.Version, &app)
		return err
	})
	if err != nil {
		return err
	}
	updated, err := w.Once(ctx)
	if err != nil {
		return err
	}

	s.Success("Updated application %s", updated)
	return s.Print(cli.ApplicationDetail(updated))
}

func updateService(cmd *cobra.Command, svc api.Service) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var w *client.Watch[api.Service]
	err = s.Spin("Updating service...", func() error {
		var err error
		w, err = s.Client.PutService(ctx, svc.ShortName, svc.Version, &svc)
		return err
	})
	if err != nil {
		return err
	}
	updated, err := w.Once(ctx)
	if err != nil {
		return err
	}

	s.Success("Updated service %s", updated)
	return s.Print(cli.ServiceDetail(updated))
}
