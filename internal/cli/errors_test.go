package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"mico/internal/client"
	"mico/internal/config"
	"mico/internal/transport"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitCodeSuccess},
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{
			name: "not found",
			err:  fmt.Errorf("get service: %w", &transport.HTTPError{Method: http.MethodGet, StatusCode: http.StatusNotFound}),
			want: ExitCodeNotFound,
		},
		{
			name: "server error",
			err:  &transport.HTTPError{Method: http.MethodGet, StatusCode: http.StatusInternalServerError},
			want: ExitCodeError,
		},
		{
			name: "connection",
			err:  fmt.Errorf("list: %w", &transport.ConnectionError{Endpoint: "http://localhost:8080", Type: transport.ConnectionErrorNetwork, Reason: errors.New("refused")}),
			want: ExitCodeConnection,
		},
		{
			name: "partial write wins over the wrapped cause",
			err: &client.PartialWriteError{
				Step:      "add",
				Completed: []string{"remove"},
				Err:       &transport.HTTPError{Method: http.MethodPost, StatusCode: http.StatusNotFound},
			},
			want: ExitCodePartialWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "partial write names the steps",
			err:      &client.PartialWriteError{Step: "add", Completed: []string{"remove"}, Err: errors.New("x")},
			contains: "add step failed after remove succeeded",
		},
		{
			name:     "network error points at the api url",
			err:      &transport.ConnectionError{Endpoint: "http://mico:8080", Type: transport.ConnectionErrorNetwork},
			contains: config.EnvAPIURL,
		},
		{
			name:     "timeout suggests the config knob",
			err:      &transport.ConnectionError{Endpoint: "http://mico:8080", Type: transport.ConnectionErrorTimeout},
			contains: "api.timeout",
		},
		{
			name:     "unauthorized suggests a token",
			err:      &transport.HTTPError{StatusCode: http.StatusUnauthorized},
			contains: "--token",
		},
		{
			name:     "conflict suggests update",
			err:      &transport.HTTPError{StatusCode: http.StatusConflict},
			contains: "mico update",
		},
		{
			name:     "configuration suggestions are joined",
			err:      &config.ConfigurationError{Suggestions: []string{"a", "b"}},
			contains: "a; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Hint(tt.err), tt.contains)
		})
	}

	assert.Empty(t, Hint(errors.New("plain")))
}
