package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelfUpdateCommand(t *testing.T) {
	c := newSelfUpdateCmd()

	assert.Equal(t, "self-update", c.Use)
	assert.Contains(t, c.Long, "latest release of mico")
	assert.NotNil(t, c.RunE)
	assert.Equal(t, "UST-MICO/mico", githubRepoSlug)
}

func TestRunSelfUpdateRefusesUnreleasedBuilds(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "dev", version: "dev"},
		{name: "empty", version: ""},
		{name: "git describe output", version: "main-3f2a1c9"},
		{name: "not a version", version: "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version)

			err := runSelfUpdate(nil, nil)
			assert.EqualError(t, err, "cannot self-update a development version")
		})
	}
}
