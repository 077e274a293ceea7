// Package store implements the editor's content tree: the in-memory sections,
// elements and pending uploads of one course, together with the last-saved
// snapshot used by Reset.
//
// Every mutation is synchronous and is written through the StateStorage port
// so an editing session survives a restart. Calls that would break the
// tree's structure (updating a missing section, moving from an index that
// does not exist) panic: they indicate a bug in the caller, not a user error.
// Deleting something that is already gone is a no-op.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor/uploads"
	"github.com/dmitrijs2005/goinglive/internal/idgen"
	"github.com/dmitrijs2005/goinglive/internal/logging"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrElementNotFound = errors.New("element not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvariant       = errors.New("content tree invariant violated")

	ErrInvalidElementType = course.ErrUnknownElementType
)

// StateStorage is the key/value port used to persist the editor state
// between runs. Get returns (nil, nil) for a missing key.
type StateStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type persistedState struct {
	Sections       []course.Section `json:"sections"`
	Elements       []course.Element `json:"elements"`
	PendingUploads *uploads.Queue   `json:"pending_uploads"`
	LastSaved      course.Snapshot  `json:"last_saved"`
}

// Store is the content tree of one course. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	sections  []course.Section
	elements  []course.Element
	uploads   *uploads.Queue
	lastSaved course.Snapshot

	newID   idgen.Generator
	storage StateStorage
	key     string
	logger  logging.Logger
}

type Option func(*Store)

// WithStorage persists the store under key in s.
func WithStorage(s StateStorage, key string) Option {
	return func(st *Store) {
		st.storage = s
		st.key = key
	}
}

func WithLogger(l logging.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithIDGenerator replaces the UUIDv7 generator, mostly for tests.
func WithIDGenerator(g idgen.Generator) Option {
	return func(st *Store) { st.newID = g }
}

// New builds a store and restores any state previously persisted under the
// configured key. A stored blob that cannot be decoded or fails validation is
// discarded with a warning.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	s := &Store{
		sections:  []course.Section{},
		elements:  []course.Element{},
		uploads:   uploads.NewQueue(),
		lastSaved: course.Snapshot{}.Clone(),
		newID:     idgen.New,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "store")

	if s.storage == nil {
		return s, nil
	}

	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("error restoring editor state: %w", err)
	}
	if raw == nil {
		return s, nil
	}

	state := persistedState{PendingUploads: uploads.NewQueue()}
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Warn(ctx, "discarding unreadable editor state", "key", s.key, "error", err)
		return s, nil
	}
	restored := course.Snapshot{Sections: state.Sections, Elements: state.Elements}.Clone()
	if err := restored.Validate(); err != nil {
		s.logger.Warn(ctx, "discarding inconsistent editor state", "key", s.key, "error", err)
		return s, nil
	}

	s.sections = restored.Sections
	s.elements = restored.Elements
	s.lastSaved = state.LastSaved.Clone()
	if state.PendingUploads != nil {
		for _, p := range state.PendingUploads.List() {
			if s.elementIndex(p.ElementID) >= 0 {
				s.uploads.Put(p)
			}
		}
	}
	s.logger.Debug(ctx, "editor state restored", "key", s.key,
		"sections", len(s.sections), "elements", len(s.elements), "pending", s.uploads.Len())
	return s, nil
}

func fatal(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}

// LoadState replaces sections and elements with a copy of snapshot. Pending
// uploads of elements that no longer exist are dropped.
func (s *Store) LoadState(snapshot course.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := snapshot.Clone()
	s.sections = c.Sections
	s.elements = c.Elements
	for _, p := range s.uploads.List() {
		if s.elementIndex(p.ElementID) < 0 {
			s.uploads.Delete(p.ElementID)
		}
	}
	s.persistLocked()
}

// ClearState empties the tree, the upload queue and the last-saved snapshot.
func (s *Store) ClearState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = []course.Section{}
	s.elements = []course.Element{}
	s.uploads.Clear()
	s.lastSaved = course.Snapshot{}.Clone()
	s.persistLocked()
}

// CreateSection appends an untitled, empty section and returns its id.
func (s *Store) CreateSection() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.sections = append(s.sections, course.Section{ID: id, Title: "", Children: []string{}})
	s.persistLocked()
	return id
}

// DeleteSection removes the section and every element it lists, together
// with their pending uploads.
func (s *Store) DeleteSection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.sectionIndex(id)
	if i < 0 {
		return
	}
	for _, child := range slices.Clone(s.sections[i].Children) {
		s.removeElementLocked(child)
	}
	s.sections = slices.Delete(s.sections, i, i+1)
	s.persistLocked()
}

// UpdateSection replaces the stored section with the same id. The new
// children must reference existing elements not listed by another section;
// elements dropped from the list are deleted.
func (s *Store) UpdateSection(section course.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.sectionIndex(section.ID)
	if i < 0 {
		fatal(ErrSectionNotFound, "update %q", section.ID)
	}

	seen := make(map[string]struct{}, len(section.Children))
	for _, child := range section.Children {
		if s.elementIndex(child) < 0 {
			fatal(ErrInvariant, "section %q lists unknown element %q", section.ID, child)
		}
		if _, dup := seen[child]; dup {
			fatal(ErrInvariant, "section %q lists element %q twice", section.ID, child)
		}
		seen[child] = struct{}{}
		if owner, _ := s.ownerOf(child); owner >= 0 && owner != i {
			fatal(ErrInvariant, "element %q already belongs to section %q", child, s.sections[owner].ID)
		}
	}

	for _, old := range slices.Clone(s.sections[i].Children) {
		if _, kept := seen[old]; !kept {
			s.removeElementLocked(old)
		}
	}

	children := slices.Clone(section.Children)
	if children == nil {
		children = []string{}
	}
	s.sections[i] = course.Section{ID: section.ID, Title: section.Title, Children: children}
	s.persistLocked()
}

// MoveSection moves the section at oldIndex to newIndex. oldIndex must be a
// valid position; newIndex is clamped into the list.
func (s *Store) MoveSection(oldIndex, newIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldIndex < 0 || oldIndex >= len(s.sections) {
		fatal(ErrIndexOutOfRange, "section index %d of %d", oldIndex, len(s.sections))
	}
	s.sections = move(s.sections, oldIndex, newIndex)
	s.persistLocked()
}

// CreateElement adds an empty element of type t to the section at
// insertIndex (clamped) and returns the element's id.
func (s *Store) CreateElement(t course.ElementType, sectionID string, insertIndex int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.Valid() {
		fatal(ErrInvalidElementType, "%q", t)
	}
	i := s.sectionIndex(sectionID)
	if i < 0 {
		fatal(ErrSectionNotFound, "create element in %q", sectionID)
	}

	id := string(t) + "-" + s.newID()
	children := s.sections[i].Children
	s.sections[i].Children = slices.Insert(children, clamp(insertIndex, 0, len(children)), id)
	s.elements = append(s.elements, course.Element{ID: id, Type: t, Content: ""})
	s.persistLocked()
	return id
}

// DeleteElement removes the element, its place in its section and its
// pending upload. Missing pieces are ignored.
func (s *Store) DeleteElement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeElementLocked(id)
	s.persistLocked()
}

// UpdateElement sets the content of an existing element.
func (s *Store) UpdateElement(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.elementIndex(id)
	if i < 0 {
		fatal(ErrElementNotFound, "update %q", id)
	}
	s.elements[i].Content = content
	s.persistLocked()
}

// MoveElement moves element id within its section. The owning section is
// found by scanning children for id. oldIndex must be a valid position in
// that section; when it no longer points at id the element's actual position
// is used instead. newIndex is clamped.
func (s *Store) MoveElement(id string, oldIndex, newIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	si, pos := s.ownerOf(id)
	if si < 0 {
		fatal(ErrElementNotFound, "move %q", id)
	}
	children := s.sections[si].Children
	if oldIndex < 0 || oldIndex >= len(children) {
		fatal(ErrIndexOutOfRange, "element index %d of %d in section %q", oldIndex, len(children), s.sections[si].ID)
	}
	if children[oldIndex] != id {
		s.logger.Debug(context.Background(), "element index drifted", "element_id", id, "given", oldIndex, "actual", pos)
	}
	s.sections[si].Children = move(children, pos, newIndex)
	s.persistLocked()
}

// CreatePendingUpload queues p, replacing any earlier selection for the same
// element. The element must exist and be a media element.
func (s *Store) CreatePendingUpload(p uploads.PendingUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.elementIndex(p.ElementID)
	if i < 0 {
		fatal(ErrElementNotFound, "queue upload for %q", p.ElementID)
	}
	if !s.elements[i].Type.IsMedia() {
		fatal(ErrInvariant, "upload queued for %s element %q", s.elements[i].Type, p.ElementID)
	}
	s.uploads.Put(p)
	s.persistLocked()
}

// DeletePendingUpload discards the queued upload for elementID, if any.
func (s *Store) DeletePendingUpload(elementID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.uploads.Delete(elementID)
	if ok {
		s.persistLocked()
	}
	return ok
}

func (s *Store) ClearPendingUploads() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads.Clear()
	s.persistLocked()
}

// CompletePendingUpload removes the queued upload for elementID only if it
// still carries token, so a newer selection made during an upload survives.
func (s *Store) CompletePendingUpload(elementID, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.uploads.Complete(elementID, token)
	if ok {
		s.persistLocked()
	}
	return ok
}

// ApplyUpload records a finished upload: the element's content becomes key
// if the element still exists, and the queue entry is removed if it still
// carries token. It reports whether the content was written.
func (s *Store) ApplyUpload(elementID, token, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := false
	if i := s.elementIndex(elementID); i >= 0 {
		s.elements[i].Content = key
		written = true
	}
	s.uploads.Complete(elementID, token)
	s.persistLocked()
	return written
}

// MarkSaved records snapshot as the state Reset returns to.
func (s *Store) MarkSaved(snapshot course.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSaved = snapshot.Clone()
	s.persistLocked()
}

// MarkCommitted records stored, the content the server kept for sent, as
// the last-saved snapshot. When the tree has not changed since sent was
// taken it is replaced by stored, so server-side normalization does not
// leave the tree dirty. It reports whether the tree was replaced.
func (s *Store) MarkCommitted(sent, stored course.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSaved = stored.Clone()
	adopt := s.snapshotLocked().Equal(sent)
	if adopt {
		c := stored.Clone()
		s.sections = c.Sections
		s.elements = c.Elements
		for _, p := range s.uploads.List() {
			if s.elementIndex(p.ElementID) < 0 {
				s.uploads.Delete(p.ElementID)
			}
		}
	}
	s.persistLocked()
	return adopt
}

// Reset reverts the tree to the last-saved snapshot and drops every pending
// upload.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lastSaved.Clone()
	s.sections = c.Sections
	s.elements = c.Elements
	s.uploads.Clear()
	s.persistLocked()
}

// Flush writes the current state to storage and returns any error.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.persist(ctx)
}

// Purge deletes the persisted state. The in-memory tree is untouched.
func (s *Store) Purge(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("error purging editor state: %w", err)
	}
	return nil
}

func (s *Store) Sections() []course.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked().Sections
}

func (s *Store) Elements() []course.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.elements)
}

func (s *Store) Section(id string) (course.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.sectionIndex(id)
	if i < 0 {
		return course.Section{}, false
	}
	sec := s.sections[i]
	sec.Children = slices.Clone(sec.Children)
	return sec, true
}

func (s *Store) Element(id string) (course.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.elementIndex(id)
	if i < 0 {
		return course.Element{}, false
	}
	return s.elements[i], true
}

func (s *Store) HasElement(id string) bool {
	_, ok := s.Element(id)
	return ok
}

func (s *Store) PendingUpload(elementID string) (uploads.PendingUpload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.uploads.Get(elementID)
}

// PendingUploads returns the queued uploads in FIFO order.
func (s *Store) PendingUploads() []uploads.PendingUpload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.uploads.List()
}

// Snapshot returns a deep copy of the current sections and elements.
func (s *Store) Snapshot() course.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) LastSaved() course.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSaved.Clone()
}

// Dirty reports whether there is work not yet saved: a tree that differs
// from the last-saved snapshot or a queued upload.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.uploads.Len() > 0 || !s.snapshotLocked().Equal(s.lastSaved)
}

func (s *Store) snapshotLocked() course.Snapshot {
	return course.Snapshot{Sections: s.sections, Elements: s.elements}.Clone()
}

func (s *Store) removeElementLocked(id string) {
	if i := s.elementIndex(id); i >= 0 {
		s.elements = slices.Delete(s.elements, i, i+1)
	}
	if si, pos := s.ownerOf(id); si >= 0 {
		s.sections[si].Children = slices.Delete(s.sections[si].Children, pos, pos+1)
	}
	s.uploads.Delete(id)
}

func (s *Store) sectionIndex(id string) int {
	return slices.IndexFunc(s.sections, func(sec course.Section) bool { return sec.ID == id })
}

func (s *Store) elementIndex(id string) int {
	return slices.IndexFunc(s.elements, func(e course.Element) bool { return e.ID == id })
}

// ownerOf returns the index of the section listing id and id's position in
// it, or (-1, -1).
func (s *Store) ownerOf(id string) (int, int) {
	for si, sec := range s.sections {
		if pos := slices.Index(sec.Children, id); pos >= 0 {
			return si, pos
		}
	}
	return -1, -1
}

func (s *Store) persistLocked() {
	ctx := context.Background()
	if err := s.persist(ctx); err != nil {
		s.logger.Warn(ctx, "editor state not persisted", "key", s.key, "error", err)
	}
}

func (s *Store) persist(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	raw, err := json.Marshal(persistedState{
		Sections:       s.sections,
		Elements:       s.elements,
		PendingUploads: s.uploads,
		LastSaved:      s.lastSaved,
	})
	if err != nil {
		return fmt.Errorf("error encoding editor state: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("error saving editor state: %w", err)
	}
	return nil
}

// move removes the item at from and reinserts it at to, clamped to the
// bounds of the shortened list.
func move[T any](list []T, from, to int) []T {
	item := list[from]
	list = slices.Delete(list, from, from+1)
	return slices.Insert(list, clamp(to, 0, len(list)), item)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
