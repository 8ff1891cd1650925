// Package config loads the mico client configuration.
//
// Configuration is read from config.yaml in a single directory. The default
// directory is ~/.config/mico; commands accept --config-path to use another
// one. A missing file is not an error: defaults apply.
//
//	api:
//	  url: https://mico.example.com
//	  tokenFile: /var/run/secrets/mico/token
//	  timeout: 30s
//	output:
//	  format: wide
//	cache:
//	  maxStreams: 200
//
// Environment variables override the file (MICO_API_URL, MICO_TOKEN,
// MICO_TOKEN_FILE) and command-line flags override both.
package config
