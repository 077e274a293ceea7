// Package editor ties the content tree, the upload queue, the synchronizer
// and the view state into one editing session for one course.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor/store"
	"github.com/dmitrijs2005/goinglive/internal/editor/synchronizer"
	"github.com/dmitrijs2005/goinglive/internal/editor/uploads"
	"github.com/dmitrijs2005/goinglive/internal/editor/viewstate"
	"github.com/dmitrijs2005/goinglive/internal/idgen"
	"github.com/dmitrijs2005/goinglive/internal/logging"
)

var ErrUnknownTab = errors.New("unknown tab")

// Backend is the server side of a session.
type Backend interface {
	FetchContent(ctx context.Context, courseID string) (course.Snapshot, error)
	CommitContent(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error)
}

type Config struct {
	CourseID string
	Backend  Backend
	Executor uploads.Executor
	Policy   uploads.Policy
	Storage  store.StateStorage
	Logger   logging.Logger

	// IDGenerator overrides the store's id generator.
	IDGenerator idgen.Generator
}

// Session is one user's editing session of one course.
type Session struct {
	courseID string
	backend  Backend
	policy   uploads.Policy
	storage  store.StateStorage
	logger   logging.Logger

	store *store.Store
	sync  *synchronizer.Synchronizer
	tabs  *viewstate.Tabs

	mu      sync.Mutex
	invalid map[string]error
}

func contentKey(courseID string) string { return "content:" + courseID }
func tabKey(courseID string) string     { return "tab:" + courseID }

// Open restores the local state of cfg.CourseID. Call Mount to reconcile it
// with the server.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.CourseID == "" {
		return nil, errors.New("course id is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("course_id", cfg.CourseID)

	opts := []store.Option{store.WithLogger(logger)}
	if cfg.Storage != nil {
		opts = append(opts, store.WithStorage(cfg.Storage, contentKey(cfg.CourseID)))
	}
	if cfg.IDGenerator != nil {
		opts = append(opts, store.WithIDGenerator(cfg.IDGenerator))
	}
	st, err := store.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		courseID: cfg.CourseID,
		backend:  cfg.Backend,
		policy:   cfg.Policy,
		storage:  cfg.Storage,
		logger:   logger.With("module", "editor"),
		store:    st,
		tabs:     viewstate.NewTabs(ctx, cfg.Storage, tabKey(cfg.CourseID), logger),
		invalid:  make(map[string]error),
	}
	s.sync = synchronizer.New(st, cfg.Executor, cfg.Backend, cfg.CourseID, logger)
	return s, nil
}

func (s *Session) CourseID() string    { return s.courseID }
func (s *Session) Store() *store.Store { return s.store }
func (s *Session) Tab() string         { return s.tabs.Current() }
func (s *Session) Saving() bool        { return s.sync.Saving() }

// Mount hydrates the tree from the server. Local state carrying unsaved work
// is kept instead, and Mount reports recovered = true.
func (s *Session) Mount(ctx context.Context) (recovered bool, err error) {
	if s.store.Dirty() {
		s.logger.Info(ctx, "keeping unsaved local changes",
			"pending", len(s.store.PendingUploads()))
		s.reconcileTabs()
		return true, nil
	}

	snapshot, err := s.backend.FetchContent(ctx, s.courseID)
	if err != nil {
		return false, fmt.Errorf("error fetching course content: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return false, fmt.Errorf("server returned inconsistent content: %w", err)
	}
	s.store.LoadState(snapshot)
	s.store.MarkSaved(snapshot)
	s.reconcileTabs()
	s.logger.Debug(ctx, "content hydrated", "sections", len(snapshot.Sections), "elements", len(snapshot.Elements))
	return false, nil
}

// SelectFile validates the file at path for a media element and queues its
// upload. A rejected file discards any earlier selection for the element and
// marks it invalid until a valid file is selected.
func (s *Session) SelectFile(elementID, path string, public bool) error {
	e, ok := s.store.Element(elementID)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrElementNotFound, elementID)
	}

	file, err := s.policy.Inspect(elementID, e.Type, path)
	if err != nil {
		s.store.DeletePendingUpload(elementID)
		s.setInvalid(elementID, err)
		return err
	}

	s.setInvalid(elementID, nil)
	s.store.CreatePendingUpload(uploads.NewPendingUpload(elementID, file, public, course.DispositionFor(e.Type)))
	return nil
}

// InvalidUpload returns the validation error of the last file selected for
// elementID, or nil.
func (s *Session) InvalidUpload(elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalid[elementID]
}

func (s *Session) setInvalid(elementID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.invalid, elementID)
		return
	}
	s.invalid[elementID] = err
}

func (s *Session) Save(ctx context.Context) (*synchronizer.Result, error) {
	return s.sync.Save(ctx)
}

// Reset discards unsaved work and returns to the last-saved content.
func (s *Session) Reset() {
	s.store.Reset()
	s.mu.Lock()
	clear(s.invalid)
	s.mu.Unlock()
	s.reconcileTabs()
}

// DeleteSection removes the section and leaves its tab if it was active.
func (s *Session) DeleteSection(id string) {
	s.store.DeleteSection(id)
	s.reconcileTabs()
}

// DeleteElement removes the element and forgets its invalid-upload flag.
func (s *Session) DeleteElement(id string) {
	s.store.DeleteElement(id)
	s.setInvalid(id, nil)
}

// SetTab activates a section's tab or the overview.
func (s *Session) SetTab(tab string) error {
	if tab != viewstate.SectionsTab {
		if _, ok := s.store.Section(tab); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
		}
	}
	s.tabs.SetTab(tab)
	return nil
}

func (s *Session) ResetTab() {
	s.tabs.ResetTab()
}

// Logout wipes the session's local state, in memory and in storage.
func (s *Session) Logout(ctx context.Context) error {
	s.store.ClearState()
	s.tabs.ResetTab()
	s.mu.Lock()
	clear(s.invalid)
	s.mu.Unlock()

	if err := s.store.Purge(ctx); err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.Delete(ctx, tabKey(s.courseID)); err != nil {
			return fmt.Errorf("error purging view state: %w", err)
		}
	}
	return nil
}

func (s *Session) reconcileTabs() {
	sections := s.store.Sections()
	ids := make([]string, len(sections))
	for i, sec := range sections {
		ids[i] = sec.ID
	}
	s.tabs.Reconcile(ids)
}
