package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mico/internal/api"
	"mico/internal/cli"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// readResourceFile decodes a YAML or JSON resource file into out. A path of
// "-" reads standard input. Unknown fields are rejected.
func readResourceFile(cmd *cobra.Command, path string, out any) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("a resource file is required (-f)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func validateService(svc api.Service) error {
	if svc.ShortName == "" {
		return fmt.Errorf("service shortName is required")
	}
	if err := cli.ValidateVersion(svc.Version); err != nil {
		return fmt.Errorf("service %s: %w", svc.ShortName, err)
	}
	return nil
}

func validateApplication(app api.Application) error {
	if app.ShortName == "" {
		return fmt.Errorf("application shortName is required")
	}
	if err := cli.ValidateVersion(app.Version); err != nil {
		return fmt.Errorf("application %s: %w", app.ShortName, err)
	}
	for _, svc := range app.Services {
		if err := validateService(svc); err != nil {
			return fmt.Errorf("application %s: %w", app.ShortName, err)
		}
	}
	return nil
}

// matchIdentity fills empty identity fields from the command line and rejects
// a body naming a different resource.
func matchIdentity(kind string, short, version string, bodyShort, bodyVersion *string) error {
	if *bodyShort == "" {
		*bodyShort = short
	}
	if *bodyVersion == "" {
		*bodyVersion = version
	}
	if *bodyShort != short || *bodyVersion != version {
		return fmt.Errorf("%s file describes %s@%s, not %s@%s", kind, *bodyShort, *bodyVersion, short, version)
	}
	return nil
}
