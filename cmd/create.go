package cmd

import (
	"fmt"
	"strings"

	"mico/internal/api"
	"mico/internal/cli"
	"mico/internal/client"

	"github.com/spf13/cobra"
)

var createFile string

var createCmd = &cobra.Command{
	Use:   "create <application|service> -f <file>",
	Short: "Create an application or service version",
	Long: `Create an application or service version from a YAML or JSON file.

Versions must be semantic versions (1.2.3). An application file may list
the services it includes by shortName and version.

Examples:
  mico create service -f hello.yaml
  mico create application -f shop.json
  cat shop.yaml | mico create application -f -`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"application", "service"},
	RunE:      runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createFile, "filename", "f", "", "Resource file (YAML or JSON), - for stdin")
}

func runCreate(cmd *cobra.Command, args []string) error {
	switch strings.ToLower(args[0]) {
	case "application", "app":
		var app api.Application
		if err := readResourceFile(cmd, createFile, &app); err != nil {
			return err
		}
		if err := validateApplication(app); err != nil {
			return err
		}
		return createApplication(cmd, app)
	case "service", "svc":
		var svc api.Service
		if err := readResourceFile(cmd, createFile, &svc); err != nil {
			return err
		}
		if err := validateService(svc); err != nil {
			return err
		}
		return createService(cmd, svc)
	default:
		return fmt.Errorf("unknown resource type '%s'. Available types: application, service", args[0])
	}
}

func createApplication(cmd *cobra.Command, app api.Application) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var w *client.Watch[api.Application]
	err = s.Spin("Creating application...", func() error {
		var err error
		w, err = s.Client.PostApplication(ctx, &app)
		return err
	})
	if err != nil {
		return err
	}
	created, err := w.Once(ctx)
	if err != nil {
		return err
	}

	s.Success("Created application %s", created)
	return s.Print(cli.ApplicationDetail(created))
}

func createService(cmd *cobra.Command, svc api.Service) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var w *client.Watch[api.Service]
	err = s.Spin("Creating service...", func() error {
		var err error
		w, err = s.Client.PostService(ctx, &svc)
		return err
	})
	if err != nil {
		return err
	}
	created, err := w.Once(ctx)
	if err != nil {
		return err
	}

	s.Success("Created service %s", created)
	return s.Print(cli.ServiceDetail(created))
}
