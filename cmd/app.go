package cmd

import (
	"fmt"

	"mico/internal/api"
	"mico/internal/cli"
	"mico/internal/client"
	"mico/internal/graph"

	"github.com/spf13/cobra"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage the services included in an application",
	Long: `Change which service versions an application version includes, or
promote an application to a new version.`,
}

var appAddServiceCmd = &cobra.Command{
	Use:     "add-service <app> <version> <service> <service-version>",
	Short:   "Include a service version in an application",
	Example: `  mico app add-service shop 1.0.0 cart 2.1.0`,
	Args:    cobra.ExactArgs(4),
	RunE:    runAppAddService,
}

var appRemoveServiceCmd = &cobra.Command{
	Use:     "remove-service <app> <version> <service>",
	Short:   "Remove a service from an application",
	Example: `  mico app remove-service shop 1.0.0 cart`,
	Args:    cobra.ExactArgs(3),
	RunE:    runAppRemoveService,
}

var appChangeVersionCmd = &cobra.Command{
	Use:   "change-version <app> <version> <service> [service-version]",
	Short: "Switch an included service to another version",
	Long: `Switch a service included in an application to another version. The
old version is removed first and the new one added afterwards; if the add
fails the application is left without the service and the command exits
with code 4.

Without a service version an interactive picker lists the available
versions, newest first.`,
	Example: `  mico app change-version shop 1.0.0 cart 2.0.0
  mico app change-version shop 1.0.0 cart`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runAppChangeVersion,
}

var appPromoteCmd = &cobra.Command{
	Use:     "promote <app> <version> <new-version>",
	Short:   "Copy an application version to a new version",
	Example: `  mico app promote shop 1.0.0 1.1.0`,
	Args:    cobra.ExactArgs(3),
	RunE:    runAppPromote,
}

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(appAddServiceCmd)
	appCmd.AddCommand(appRemoveServiceCmd)
	appCmd.AddCommand(appChangeVersionCmd)
	appCmd.AddCommand(appPromoteCmd)
}

func runAppAddService(cmd *cobra.Command, args []string) error {
	short, version, svcShort, svcVersion := args[0], args[1], args[2], args[3]
	if err := cli.ValidateVersion(svcVersion); err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	err = s.Spin("Adding service...", func() error {
		return s.Client.AddApplicationService(ctx, short, version, svcShort, svcVersion)
	})
	if err != nil {
		return err
	}
	s.Success("Added %s@%s to %s@%s", svcShort, svcVersion, short, version)
	return nil
}

func runAppRemoveService(cmd *cobra.Command, args []string) error {
	short, version, svcShort := args[0], args[1], args[2]

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	err = s.Spin("Removing service...", func() error {
		return s.Client.RemoveApplicationService(ctx, short, version, svcShort)
	})
	if err != nil {
		return err
	}
	s.Success("Removed %s from %s@%s", svcShort, short, version)
	return nil
}

func runAppChangeVersion(cmd *cobra.Command, args []string) error {
	short, version, svcShort := args[0], args[1], args[2]

	var picker cli.VersionPicker
	if len(args) == 4 {
		if err := cli.ValidateVersion(args[3]); err != nil {
			return err
		}
		picker = cli.FixedVersionPicker{Version: args[3]}
	} else {
		picker = cli.NewHuhVersionPicker(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	gs := cli.NewGraphSession(s.Client, graph.NewSceneRenderer(), picker, short, version)
	defer gs.Close()

	if err := s.Spin("Loading application...", func() error { return gs.Load(ctx) }); err != nil {
		return err
	}

	picked, changed, err := gs.ChangeServiceVersion(ctx, svcShort)
	if err != nil {
		return err
	}
	if !changed {
		if !s.Quiet() {
			fmt.Fprintf(s.Out(), "%s stays at its current version\n", svcShort)
		}
		return nil
	}
	s.Success("%s@%s now includes %s", short, version, picked)
	return nil
}

func runAppPromote(cmd *cobra.Command, args []string) error {
	short, version, newVersion := args[0], args[1], args[2]
	if err := cli.ValidateVersion(newVersion); err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var w *client.Watch[api.Application]
	err = s.Spin("Promoting application...", func() error {
		var err error
		w, err = s.Client.PromoteApplication(ctx, short, version, newVersion)
		return err
	})
	if err != nil {
		return err
	}
	promoted, err := w.Once(ctx)
	if err != nil {
		return err
	}

	s.Success("Promoted %s@%s to %s", short, version, promoted.Version)
	return s.Print(cli.ApplicationDetail(promoted))
}
