package cli

import (
	"mico/internal/config"
	"mico/internal/formatting"

	"github.com/spf13/cobra"
)

// CommandFlags holds the global flag values shared by every command that
// talks to the MICO backend. Empty strings mean "not set on the command line"
// so that config file and environment values survive.
type CommandFlags struct {
	// APIURL overrides the backend root (env: MICO_API_URL)
	APIURL string
	// Token is a static bearer token (env: MICO_TOKEN)
	Token string
	// TokenFile names a file holding the bearer token, reloaded on change
	TokenFile string
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// OutputFormat specifies the desired output format (table, wide, json, yaml, template)
	OutputFormat string
	// Template is the Go template used with --output template
	Template string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables verbose logging of HTTP traffic and cache activity
	Debug bool
}

// RegisterCommonFlags registers the global flags on cmd.
//
// The registered flags are:
//   - --api-url: MICO backend root (env: MICO_API_URL)
//   - --token / --token-file: bearer token, inline or from a file
//   - --config-path: Configuration directory
//   - --output/-o: Output format (table, wide, json, yaml, template)
//   - --template: Template text for -o template
//   - --no-headers, --quiet/-q, --debug
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	defaultConfigPath, err := config.GetDefaultConfigPath()
	if err != nil {
		defaultConfigPath = ""
	}

	cmd.PersistentFlags().StringVar(&flags.APIURL, "api-url", "", "MICO API root URL (env: MICO_API_URL, default "+config.DefaultAPIURL+")")
	cmd.PersistentFlags().StringVar(&flags.Token, "token", "", "Bearer token for the MICO API (env: MICO_TOKEN)")
	cmd.PersistentFlags().StringVar(&flags.TokenFile, "token-file", "", "File containing the bearer token, reloaded on change (env: MICO_TOKEN_FILE)")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", defaultConfigPath, "Configuration directory")
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", "", "Output format (table, wide, json, yaml, template)")
	cmd.PersistentFlags().StringVar(&flags.Template, "template", "", "Go template for --output template (sprig functions available)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
}

// Apply layers the flag values over cfg. Flags win over config and env.
func (f *CommandFlags) Apply(cfg config.MicoConfig) config.MicoConfig {
	if f.APIURL != "" {
		cfg.API.URL = f.APIURL
	}
	if f.Token != "" {
		cfg.API.Token = f.Token
		cfg.API.TokenFile = ""
	}
	if f.TokenFile != "" {
		cfg.API.TokenFile = f.TokenFile
		cfg.API.Token = ""
	}
	if f.OutputFormat != "" {
		cfg.Output.Format = f.OutputFormat
	}
	if f.NoHeaders {
		cfg.Output.NoHeaders = true
	}
	return cfg
}

// FormatOptions validates the output flags against out and builds the
// formatter options.
func (f *CommandFlags) FormatOptions(out config.OutputConfig) (formatting.Options, error) {
	format, err := formatting.ParseFormat(out.Format)
	if err != nil {
		return formatting.Options{}, err
	}
	if f.Template != "" && f.OutputFormat == "" {
		format = formatting.FormatTemplate
	}
	return formatting.Options{
		Format:    format,
		Template:  f.Template,
		NoHeaders: out.NoHeaders,
		Quiet:     f.Quiet,
		Color:     !out.NoColor,
	}, nil
}
