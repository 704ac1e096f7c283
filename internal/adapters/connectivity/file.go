package connectivity

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConnectivitySource = (*FileSource)(nil)

// FileSource reads connectivity from a status file maintained by the host,
// for example by a network dispatcher hook. The file holds "online" or "offline".
type FileSource struct {
	path      string
	fallback  bool
	logger    ports.Logger
	fsWatcher *fsnotify.Watcher
	events    chan domain.ConnectivityState

	mu   sync.Mutex
	last domain.ConnectivityState
}

// NewFileSource creates a source for the status file at path.
// fallback is the state reported while the file is missing or unreadable.
func NewFileSource(path string, fallback bool, logger ports.Logger) (*FileSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create connectivity watcher")
	}
	return &FileSource{
		path:      filepath.Clean(path),
		fallback:  fallback,
		logger:    logger,
		fsWatcher: watcher,
		events:    make(chan domain.ConnectivityState, eventChannelBuffer),
	}, nil
}

// Current reads the status file synchronously.
func (s *FileSource) Current() domain.ConnectivityState {
	//nolint:gosec // Path is provided by trusted configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.StateOf(s.fallback)
	}
	state, ok := ParseStatus(string(data))
	if !ok {
		return domain.StateOf(s.fallback)
	}
	return state
}

// Start watches the directory holding the status file.
func (s *FileSource) Start(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create status directory"), "path", dir)
	}
	if err := s.fsWatcher.Add(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch status file"), "path", s.path)
	}

	s.mu.Lock()
	s.last = s.Current()
	s.mu.Unlock()

	go s.processEvents(ctx)
	return nil
}

// Stop stops the watcher and ends the event sequence.
func (s *FileSource) Stop() error {
	return s.fsWatcher.Close()
}

// Events returns an iterator of state changes read from the status file.
func (s *FileSource) Events() iter.Seq[domain.ConnectivityState] {
	return func(yield func(domain.ConnectivityState) bool) {
		for state := range s.events {
			if !yield(state) {
				return
			}
		}
	}
}

func (s *FileSource) processEvents(ctx context.Context) {
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}

			state, changed := s.observe()
			if !changed {
				continue
			}

			select {
			case s.events <- state:
			case <-ctx.Done():
				return
			}

		case err, ok := <-s.fsWatcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.Warn("connectivity watcher error", "error", err.Error())
			}
		}
	}
}

func (s *FileSource) observe() (domain.ConnectivityState, bool) {
	state := s.Current()

	s.mu.Lock()
	defer s.mu.Unlock()

	if state == s.last {
		return state, false
	}
	s.last = state
	return state, true
}

// ParseStatus parses the content of a status file.
func ParseStatus(content string) (domain.ConnectivityState, bool) {
	switch strings.ToLower(strings.TrimSpace(content)) {
	case "online", "up":
		return domain.Online, true
	case "offline", "down":
		return domain.Offline, true
	default:
		return domain.Offline, false
	}
}
