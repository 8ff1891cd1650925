package cli

import (
	"errors"
	"fmt"
	"strings"

	"mico/internal/client"
	"mico/internal/config"
	"mico/internal/transport"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates the backend answered 404 for the resource.
	ExitCodeNotFound = 2
	// ExitCodeConnection indicates the backend could not be reached.
	ExitCodeConnection = 3
	// ExitCodePartialWrite indicates a multi-step write stopped half way.
	ExitCodePartialWrite = 4
)

// ExitCodeForError maps err to one of the exit codes above.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var partial *client.PartialWriteError
	if errors.As(err, &partial) {
		return ExitCodePartialWrite
	}

	var connErr *transport.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeConnection
	}

	if transport.IsNotFound(err) {
		return ExitCodeNotFound
	}

	return ExitCodeError
}

// Hint returns a follow-up suggestion for err, or "" when there is none.
func Hint(err error) string {
	var partial *client.PartialWriteError
	if errors.As(err, &partial) {
		return fmt.Sprintf("the %s step failed after %s succeeded; re-run the command or fix the application by hand",
			partial.Step, strings.Join(partial.Completed, ", "))
	}

	var connErr *transport.ConnectionError
	if errors.As(err, &connErr) {
		switch connErr.Type {
		case transport.ConnectionErrorTLS:
			return "check the server certificate or use an http:// URL for local backends"
		case transport.ConnectionErrorDNS:
			return fmt.Sprintf("the host in %s could not be resolved; check --api-url or %s", connErr.Endpoint, config.EnvAPIURL)
		case transport.ConnectionErrorTimeout:
			return "the backend did not answer in time; raise api.timeout in config.yaml"
		default:
			return fmt.Sprintf("is the MICO backend running at %s? Set --api-url or %s", connErr.Endpoint, config.EnvAPIURL)
		}
	}

	if transport.IsUnauthorized(err) {
		return fmt.Sprintf("provide a bearer token with --token, --token-file or %s", config.EnvToken)
	}

	if transport.IsConflict(err) {
		return "the resource already exists; use 'mico update' or choose another version"
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) && len(cfgErr.Suggestions) > 0 {
		return strings.Join(cfgErr.Suggestions, "; ")
	}

	return ""
}
