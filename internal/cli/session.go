package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/oauth2"

	"mico/internal/cache"
	"mico/internal/client"
	"mico/internal/config"
	"mico/internal/formatting"
	"mico/internal/transport"
	"mico/pkg/logging"
)

// Session bundles everything a command needs to talk to the backend: the
// resolved configuration, the API client with its resource registry, and
// the output formatter. A session owns the registry; Close tears it down.
type Session struct {
	Config   config.MicoConfig
	Client   *client.Client
	Registry *cache.Registry

	formatter formatting.Formatter
	quiet     bool
	out       io.Writer
	errOut    io.Writer
	closers   []io.Closer
}

// SessionOption customizes NewSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	out        io.Writer
	errOut     io.Writer
	getenv     func(string) string
	httpClient *http.Client
	userAgent  string
}

// WithOutput sets the writers for command output and progress messages.
func WithOutput(out, errOut io.Writer) SessionOption {
	return func(o *sessionOptions) {
		o.out = out
		o.errOut = errOut
	}
}

// WithGetenv replaces os.Getenv for the MICO_* overrides.
func WithGetenv(getenv func(string) string) SessionOption {
	return func(o *sessionOptions) {
		o.getenv = getenv
	}
}

// WithHTTPClient sets the HTTP client used by the transport.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(o *sessionOptions) {
		o.httpClient = c
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) SessionOption {
	return func(o *sessionOptions) {
		o.userAgent = ua
	}
}

// ResolveConfig loads config.yaml from the flag's config path and layers the
// environment and then the flags on top.
func ResolveConfig(flags *CommandFlags, getenv func(string) string) (config.MicoConfig, error) {
	cfg := config.GetDefaultConfig()
	if flags.ConfigPath != "" {
		loaded, err := config.LoadConfig(flags.ConfigPath)
		if err != nil {
			return config.MicoConfig{}, err
		}
		cfg = loaded
	}
	cfg = config.ApplyEnv(cfg, getenv)
	cfg = flags.Apply(cfg)

	if err := config.ValidateAPIURL(cfg.API.URL); err != nil {
		return config.MicoConfig{}, err
	}
	return cfg, nil
}

// NewSession resolves the configuration and wires transport, registry and
// client together.
func NewSession(flags *CommandFlags, opts ...SessionOption) (*Session, error) {
	o := sessionOptions{
		out:       os.Stdout,
		errOut:    os.Stderr,
		getenv:    os.Getenv,
		userAgent: "mico",
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := ResolveConfig(flags, o.getenv)
	if err != nil {
		return nil, err
	}

	formatOpts, err := flags.FormatOptions(cfg.Output)
	if err != nil {
		return nil, err
	}
	formatter, err := formatting.NewFactory().CreateFormatter(formatOpts)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:    cfg,
		formatter: formatter,
		quiet:     flags.Quiet,
		out:       o.out,
		errOut:    o.errOut,
	}

	tokens, err := s.tokenSource()
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		timeout := cfg.API.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	t, err := transport.New(transport.Options{
		BaseURL:     cfg.API.URL,
		HTTPClient:  httpClient,
		TokenSource: tokens,
		UserAgent:   o.userAgent,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Registry = cache.NewRegistry(
		cache.WithMaxStreams(cfg.Cache.MaxStreams),
		cache.WithBaseURL(t.BaseURL()),
	)
	s.Client = client.New(t, s.Registry)

	logging.Debug("Session", "Connected session to %s (max streams %d)", t.BaseURL(), cfg.Cache.MaxStreams)
	return s, nil
}

func (s *Session) tokenSource() (oauth2.TokenSource, error) {
	if s.Config.API.TokenFile != "" {
		src, err := transport.NewFileTokenSource(s.Config.API.TokenFile)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, src)
		return src, nil
	}
	return transport.StaticTokenSource(s.Config.API.Token), nil
}

// Print writes data with the configured formatter.
func (s *Session) Print(data any) error {
	return s.formatter.Format(s.out, data)
}

// Out is the writer for command output.
func (s *Session) Out() io.Writer {
	return s.out
}

// Quiet reports whether non-essential output is suppressed.
func (s *Session) Quiet() bool {
	return s.quiet
}

// Success prints a success line unless the session is quiet.
func (s *Session) Success(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintln(s.out, FormatSuccess(fmt.Sprintf(format, args...)))
}

// Warn prints a warning line to the error writer.
func (s *Session) Warn(format string, args ...any) {
	fmt.Fprintln(s.errOut, FormatWarning(fmt.Sprintf(format, args...)))
}

// Spin runs fn while showing a spinner with msg, unless the session is quiet.
func (s *Session) Spin(msg string, fn func() error) error {
	if s.quiet {
		return fn()
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(s.errOut))
	sp.Suffix = " " + msg
	sp.Start()
	defer sp.Stop()

	return fn()
}

// Close waits for background refreshes and tears down the registry and the
// token watcher.
func (s *Session) Close() {
	if s.Client != nil {
		s.Client.Wait()
	}
	if s.Registry != nil {
		s.Registry.Close()
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			logging.Debug("Session", "close: %v", err)
		}
	}
	s.closers = nil
}

// Await reads the first value of w under a spinner and closes the watch.
func Await[T any](ctx context.Context, s *Session, msg string, w *client.Watch[T]) (T, error) {
	var v T
	err := s.Spin(msg, func() error {
		var err error
		v, err = w.Once(ctx)
		return err
	})
	return v, err
}
