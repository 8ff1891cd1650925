package cmd

import (
	"fmt"
	"sort"
	"strings"

	"mico/internal/cli"

	"github.com/spf13/cobra"
)

// listResourceAliases maps every accepted spelling to its canonical resource.
var listResourceAliases = map[string]string{
	"application":          "applications",
	"applications":         "applications",
	"app":                  "applications",
	"apps":                 "applications",
	"service":              "services",
	"services":             "services",
	"svc":                  "services",
	"application-version":  "application-versions",
	"application-versions": "application-versions",
	"service-version":      "service-versions",
	"service-versions":     "service-versions",
}

// getListResourceTypes returns the accepted resource names for completion.
func getListResourceTypes() []string {
	types := make([]string, 0, len(listResourceAliases))
	for alias := range listResourceAliases {
		types = append(types, alias)
	}
	sort.Strings(types)
	return types
}

var listCmd = &cobra.Command{
	Use:   "list <resource> [short-name]",
	Short: "List resources",
	Long: `List resources on the MICO platform.

Available resource types:
  applications                 - Every version of every application
  services                     - Every version of every service
  application-versions <name>  - All versions of one application
  service-versions <name>      - All versions of one service

Examples:
  mico list applications
  mico list services -o wide
  mico list service-versions hello -o json
  mico list apps -o template --template '{{range .}}{{.shortName}}@{{.version}}{{"\n"}}{{end}}'`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: getListResourceTypes(),
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	resource, ok := listResourceAliases[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown resource type '%s'. Available types: applications, services, application-versions, service-versions", args[0])
	}

	needsName := resource == "application-versions" || resource == "service-versions"
	if needsName && len(args) != 2 {
		return fmt.Errorf("list %s requires a short name", resource)
	}
	if !needsName && len(args) != 1 {
		return fmt.Errorf("list %s takes no further arguments", resource)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	switch resource {
	case "applications":
		apps, err := cli.Await(ctx, s, "Loading applications...", s.Client.Applications(ctx))
		if err != nil {
			return err
		}
		return s.Print(cli.ApplicationTable(apps))
	case "application-versions":
		apps, err := cli.Await(ctx, s, "Loading application versions...", s.Client.ApplicationVersions(ctx, args[1]))
		if err != nil {
			return err
		}
		return s.Print(cli.ApplicationTable(apps))
	case "services":
		services, err := cli.Await(ctx, s, "Loading services...", s.Client.Services(ctx))
		if err != nil {
			return err
		}
		return s.Print(cli.ServiceTable(services))
	default:
		services, err := cli.Await(ctx, s, "Loading service versions...", s.Client.ServiceVersions(ctx, args[1]))
		if err != nil {
			return err
		}
		cli.SortServiceVersions(services)
		return s.Print(cli.ServiceTable(services))
	}
}
