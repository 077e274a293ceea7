// Package course defines the content model shared by the editor and the
// course server: sections, typed elements and the snapshot that carries
// them between the two.
package course

import (
	"errors"
	"fmt"
)

// ElementType classifies an element. The set is closed.
type ElementType string

const (
	ElementText       ElementType = "text"
	ElementImage      ElementType = "image"
	ElementAttachment ElementType = "attachment"
)

var ErrUnknownElementType = errors.New("unknown element type")

// ElementTypes lists every known element type in display order.
func ElementTypes() []ElementType {
	return []ElementType{ElementText, ElementImage, ElementAttachment}
}

func ParseElementType(s string) (ElementType, error) {
	t := ElementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownElementType, s)
	}
	return t, nil
}

func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementImage, ElementAttachment:
		return true
	default:
		return false
	}
}

// IsMedia reports whether the element's content is a storage key filled in
// by an upload rather than inline HTML.
func (t ElementType) IsMedia() bool {
	switch t {
	case ElementImage, ElementAttachment:
		return true
	default:
		return false
	}
}

// Disposition tells the browser how to present a stored object.
type Disposition string

const (
	DispositionInline     Disposition = "inline"
	DispositionAttachment Disposition = "attachment"
)

// DispositionFor returns the default disposition of uploads for t.
func DispositionFor(t ElementType) Disposition {
	if t == ElementAttachment {
		return DispositionAttachment
	}
	return DispositionInline
}

// Section is a titled, ordered group of elements.
type Section struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// Title is free text; it may be empty and need not be unique.
	Title string `json:"title"`

	// Children holds element IDs in reading order.
	Children []string `json:"children"`
}

// Element is a single content unit owned by exactly one section.
type Element struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`

	// Content is rich-text HTML for text elements and the object storage key
	// for media elements (empty until the upload completes).
	Content string `json:"content"`
}

// MediaRecord describes an uploaded object for later retrieval.
type MediaRecord struct {
	Key         string      `json:"key"`
	CourseID    string      `json:"course_id"`
	FileName    string      `json:"file_name"`
	Public      bool        `json:"public"`
	URL         string      `json:"url"`
	Disposition Disposition `json:"disposition"`
}

// Profile is the identity returned by a session lookup.
type Profile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
