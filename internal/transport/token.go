package transport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/oauth2"

	"mico/pkg/logging"
)

// ErrNoToken is returned by a token source that has nothing to offer.
var ErrNoToken = errors.New("no bearer token available")

// StaticTokenSource returns a source that always yields token, or nil when
// token is empty so that requests go out unauthenticated.
func StaticTokenSource(token string) oauth2.TokenSource {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// FileTokenSource serves a bearer token read from a file and re-reads it
// whenever the file is written or replaced. Token files mounted by secret
// managers are swapped atomically, so the parent directory is watched.
type FileTokenSource struct {
	path string

	mu    sync.RWMutex
	token string

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	once    sync.Once
}

// NewFileTokenSource reads path once and starts watching it. When the watcher
// cannot be created the token is still served, just never reloaded.
func NewFileTokenSource(path string) (*FileTokenSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve token file %s: %w", path, err)
	}

	s := &FileTokenSource{path: abs, stopCh: make(chan struct{})}
	if err := s.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("Transport", "Token file %s will not be reloaded: %v", abs, err)
		return s, nil
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		logging.Warn("Transport", "Cannot watch %s, token will not be reloaded: %v", filepath.Dir(abs), err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher

	go s.processEvents(watcher.Events, watcher.Errors)
	return s, nil
}

// Token implements oauth2.TokenSource. It serves the last token read
// successfully.
func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, fmt.Errorf("token file %s: %w", s.path, ErrNoToken)
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// Close stops watching the token file.
func (s *FileTokenSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stopCh)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

// reload replaces the token with the file content. A missing or empty file
// is reported but leaves the previous token in place, since writers truncate
// before they write.
func (s *FileTokenSource) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read token file %s: %w", s.path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file %s: %w", s.path, ErrNoToken)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *FileTokenSource) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-s.stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				logging.Warn("Transport", "Reloading token file failed, keeping previous token: %v", err)
				continue
			}
			logging.Debug("Transport", "Reloaded bearer token from %s", s.path)

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("Transport", err, "fsnotify error")
		}
	}
}
