// Package viewstate keeps the editor's small bits of view state, currently
// the active tab: either the section overview or one section being edited.
package viewstate

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/goinglive/internal/editor/store"
	"github.com/dmitrijs2005/goinglive/internal/logging"
)

// SectionsTab is the overview tab listing every section.
const SectionsTab = "sections"

// Tabs tracks the active tab and writes it through storage on every change.
type Tabs struct {
	mu      sync.Mutex
	current string
	storage store.StateStorage
	key     string
	logger  logging.Logger
}

// NewTabs restores the active tab stored under key, defaulting to
// SectionsTab. storage may be nil.
func NewTabs(ctx context.Context, storage store.StateStorage, key string, logger logging.Logger) *Tabs {
	if logger == nil {
		logger = logging.Nop()
	}
	t := &Tabs{
		current: SectionsTab,
		storage: storage,
		key:     key,
		logger:  logger.With("module", "viewstate"),
	}
	if storage == nil {
		return t
	}
	raw, err := storage.Get(ctx, key)
	if err != nil {
		t.logger.Warn(ctx, "active tab not restored", "key", key, "error", err)
		return t
	}
	if len(raw) > 0 {
		t.current = string(raw)
	}
	return t
}

func (t *Tabs) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tabs) SetTab(tab string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = tab
	t.persistLocked()
}

func (t *Tabs) ResetTab() {
	t.SetTab(SectionsTab)
}

// Reconcile resets the active tab when it names a section that is not in
// known, and reports whether it did.
func (t *Tabs) Reconcile(known []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == SectionsTab || slices.Contains(known, t.current) {
		return false
	}
	t.current = SectionsTab
	t.persistLocked()
	return true
}

func (t *Tabs) persistLocked() {
	if t.storage == nil {
		return
	}
	ctx := context.Background()
	if err := t.storage.Set(ctx, t.key, []byte(t.current)); err != nil {
		t.logger.Warn(ctx, "active tab not persisted", "key", t.key, "error", err)
	}
}
