// Package session implements the project session: the root object scripts,
// commands and servers open to create wells, run calculators and simulators
// against them, and persist results between invocations.
//
// All public methods are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ambia/UTAPWeLS/internal/config"
	"github.com/ambia/UTAPWeLS/internal/logging"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/store"
)

var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("session is closed")
)

// Session is the root object of a modeling project. It owns the project
// configuration, the case store and the set of open wells. Wells loaded or
// created through a session are cached until Close, which flushes them back
// to the store.
type Session struct {
	mu     sync.RWMutex
	cfg    *config.WelsConfig
	logger *slog.Logger
	audit  *logging.AuditLogger
	store  store.CaseStore
	wells  map[string]*model.Well
	closed bool
}

// Open opens a session rooted at projectRoot. It loads the project
// configuration, opens the SQLite case store under .wels/ and indexes the
// stored wells. The logger may be nil, in which case logging is discarded
// at the default level.
func Open(projectRoot string, logger *slog.Logger) (*Session, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cs, err := store.NewSQLiteCaseStore(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open case store: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	audit := logging.NewAuditLogger(store.LocalWelsPath(projectRoot), cfg.Logging.Level)

	s := New(cs, cfg, logger)
	s.audit = audit
	return s, nil
}

// New creates a session over an existing store with the given configuration.
// Used directly in tests with an in-memory store.
func New(cs store.CaseStore, cfg *config.WelsConfig, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		cfg:    cfg,
		logger: logger,
		store:  cs,
		wells:  make(map[string]*model.Well),
	}
}

// Config returns the session configuration.
func (s *Session) Config() *config.WelsConfig {
	return s.cfg
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// CreateWell creates a new well with a single-layer earth model over
// [top, bottom]. Well names are unique within a session.
func (s *Session) CreateWell(ctx context.Context, name string, top, bottom float64) (*model.Well, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if _, ok := s.wells[name]; ok {
		return nil, fmt.Errorf("%w: %q", store.ErrWellExists, name)
	}
	exists, err := s.store.HasWell(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check well existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", store.ErrWellExists, name)
	}

	w, err := model.NewWell(name, top, bottom)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveWell(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save well %q: %w", name, err)
	}
	s.wells[name] = w

	s.logger.Info("well created", "well", name, "top_md", top, "bottom_md", bottom)
	s.audit.Op("create_well", map[string]any{"well": name, "top_md": top, "bottom_md": bottom})

	return w, nil
}

// Well returns an open well by name, loading it from the store on first use.
func (s *Session) Well(ctx context.Context, name string) (*model.Well, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if w, ok := s.wells[name]; ok {
		return w, nil
	}

	w, err := s.store.LoadWell(ctx, name)
	if err != nil {
		return nil, err
	}
	s.wells[name] = w
	return w, nil
}

// DeleteWell removes a well from the session and the store.
func (s *Session) DeleteWell(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if err := s.store.DeleteWell(ctx, name); err != nil {
		// A well created then deleted within one unsaved session may only
		// exist in the cache.
		if _, ok := s.wells[name]; !ok || !errors.Is(err, store.ErrWellNotFound) {
			return err
		}
	}
	delete(s.wells, name)

	s.logger.Info("well deleted", "well", name)
	s.audit.Op("delete_well", map[string]any{"well": name})
	return nil
}

// Wells returns the names of all wells in the project, open or stored, sorted.
func (s *Session) Wells(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	stored, err := s.store.ListWells(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stored)+len(s.wells))
	var names []string
	for _, n := range stored {
		seen[n] = true
		names = append(names, n)
	}
	for n := range s.wells {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// SaveWell flushes one open well back to the store.
func (s *Session) SaveWell(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	w, ok := s.wells[name]
	if !ok {
		return fmt.Errorf("%w: %q", store.ErrWellNotFound, name)
	}
	return s.store.SaveWell(ctx, w)
}

// Flush saves every open well back to the store and syncs it.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	return s.flushUnlocked(ctx)
}

func (s *Session) flushUnlocked(ctx context.Context) error {
	for name, w := range s.wells {
		if err := s.store.SaveWell(ctx, w); err != nil {
			return fmt.Errorf("failed to save well %q: %w", name, err)
		}
	}
	return s.store.Sync(ctx)
}

// Close flushes open wells and releases the store. The session is unusable
// afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.flushUnlocked(context.Background())
	closeErr := s.store.Close()
	s.audit.Close()

	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
