package course

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrDanglingChild   = errors.New("child references unknown element")
	ErrSharedElement   = errors.New("element listed by more than one section")
	ErrOrphanElement   = errors.New("element not listed by any section")
	ErrDuplicateChild  = errors.New("element listed twice")
	ErrEmptyIdentifier = errors.New("empty id")
)

// Snapshot is a complete copy of a course's content, used to hydrate the
// editor, to commit to the server and to roll back on reset.
type Snapshot struct {
	Sections []Section `json:"sections"`
	Elements []Element `json:"elements"`
}

// Clone returns a deep copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Sections: make([]Section, len(s.Sections)),
		Elements: slices.Clone(s.Elements),
	}
	if out.Elements == nil {
		out.Elements = []Element{}
	}
	for i, sec := range s.Sections {
		sec.Children = slices.Clone(sec.Children)
		if sec.Children == nil {
			sec.Children = []string{}
		}
		out.Sections[i] = sec
	}
	return out
}

// Equal reports whether both snapshots hold the same sections and elements
// in the same order. Nil and empty slices compare equal.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.Sections) != len(o.Sections) || len(s.Elements) != len(o.Elements) {
		return false
	}
	for i := range s.Sections {
		a, b := s.Sections[i], o.Sections[i]
		if a.ID != b.ID || a.Title != b.Title || !slices.Equal(a.Children, b.Children) {
			return false
		}
	}
	return slices.Equal(s.Elements, o.Elements)
}

// Element returns the element with id, if present.
func (s Snapshot) Element(id string) (Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// Validate checks the structural invariants of a content tree: unique ids,
// known element types, every child resolves to an element, every element is
// listed by exactly one section.
func (s Snapshot) Validate() error {
	elements := make(map[string]struct{}, len(s.Elements))
	for _, e := range s.Elements {
		if e.ID == "" {
			return fmt.Errorf("element: %w", ErrEmptyIdentifier)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("element %s: %w: %q", e.ID, ErrUnknownElementType, e.Type)
		}
		if _, dup := elements[e.ID]; dup {
			return fmt.Errorf("element %s: %w", e.ID, ErrDuplicateID)
		}
		elements[e.ID] = struct{}{}
	}

	owner := make(map[string]string, len(s.Elements))
	sections := make(map[string]struct{}, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("section: %w", ErrEmptyIdentifier)
		}
		if _, dup := sections[sec.ID]; dup {
			return fmt.Errorf("section %s: %w", sec.ID, ErrDuplicateID)
		}
		sections[sec.ID] = struct{}{}

		for _, child := range sec.Children {
			if _, ok := elements[child]; !ok {
				return fmt.Errorf("section %s: %w: %s", sec.ID, ErrDanglingChild, child)
			}
			if prev, taken := owner[child]; taken {
				if prev == sec.ID {
					return fmt.Errorf("section %s: %w: %s", sec.ID, ErrDuplicateChild, child)
				}
				return fmt.Errorf("sections %s and %s: %w: %s", prev, sec.ID, ErrSharedElement, child)
			}
			owner[child] = sec.ID
		}
	}

	for _, e := range s.Elements {
		if _, ok := owner[e.ID]; !ok {
			return fmt.Errorf("element %s: %w", e.ID, ErrOrphanElement)
		}
	}
	return nil
}
