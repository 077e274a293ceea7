package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor"
	"github.com/dmitrijs2005/goinglive/internal/editor/store"
	"github.com/dmitrijs2005/goinglive/internal/editor/viewstate"
)

// position parses a 1-based position typed by the user.
func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return n - 1, nil
}

func findSection(s *editor.Session, id string) (course.Section, error) {
	sec, ok := s.Store().Section(id)
	if !ok {
		return course.Section{}, fmt.Errorf("%w: %s", store.ErrSectionNotFound, id)
	}
	return sec, nil
}

func findElement(s *editor.Session, id string) (course.Element, error) {
	e, ok := s.Store().Element(id)
	if !ok {
		return course.Element{}, fmt.Errorf("%w: %s", store.ErrElementNotFound, id)
	}
	return e, nil
}

// elementPosition returns the section listing id and id's index in it.
func elementPosition(s *editor.Session, id string) (course.Section, int, bool) {
	for _, sec := range s.Store().Sections() {
		if i := slices.Index(sec.Children, id); i >= 0 {
			return sec, i, true
		}
	}
	return course.Section{}, -1, false
}

func (a *App) addSectionCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	id := s.Store().CreateSection()
	if title := strings.Join(args, " "); title != "" {
		s.Store().UpdateSection(course.Section{ID: id, Title: title, Children: []string{}})
	}
	fmt.Fprintf(a.out, "Created section %s\n", id)
	return nil
}

func (a *App) titleCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: title <section-id> [title]")
	}
	sec, err := findSection(s, args[0])
	if err != nil {
		return err
	}
	sec.Title = strings.Join(args[1:], " ")
	s.Store().UpdateSection(sec)
	return nil
}

func (a *App) deleteSectionCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: delsection <section-id>")
	}
	sec, err := findSection(s, args[0])
	if err != nil {
		return err
	}
	s.DeleteSection(sec.ID)
	fmt.Fprintf(a.out, "Deleted section %s and %d elements\n", sec.ID, len(sec.Children))
	return nil
}

func (a *App) moveSectionCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errors.New("usage: movesection <from> <to>")
	}
	from, err := position(args[0])
	if err != nil {
		return err
	}
	to, err := position(args[1])
	if err != nil {
		return err
	}
	if n := len(s.Store().Sections()); from >= n {
		return fmt.Errorf("%w: section %d of %d", store.ErrIndexOutOfRange, from+1, n)
	}
	s.Store().MoveSection(from, to)
	return nil
}

func (a *App) addElementCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: add <text|image|attachment> <section-id> [position]")
	}
	t, err := course.ParseElementType(args[0])
	if err != nil {
		return err
	}
	sec, err := findSection(s, args[1])
	if err != nil {
		return err
	}
	at := len(sec.Children)
	if len(args) == 3 {
		if at, err = position(args[2]); err != nil {
			return err
		}
	}
	id := s.Store().CreateElement(t, sec.ID, at)
	fmt.Fprintf(a.out, "Created %s element %s\n", t, id)
	return nil
}

func (a *App) editCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: edit <element-id>")
	}
	e, err := findElement(s, args[0])
	if err != nil {
		return err
	}
	if e.Type.IsMedia() {
		return fmt.Errorf("%s is a %s element, use 'upload'", e.ID, e.Type)
	}

	html, err := GetMultiline(a.reader, "HTML content", a.out)
	if err != nil {
		return err
	}
	s.Store().UpdateElement(e.ID, html)
	return nil
}

func (a *App) deleteElementCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: delete <element-id>")
	}
	if _, err := findElement(s, args[0]); err != nil {
		return err
	}
	s.DeleteElement(args[0])
	return nil
}

func (a *App) moveElementCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errors.New("usage: move <element-id> <to>")
	}
	to, err := position(args[1])
	if err != nil {
		return err
	}
	_, from, ok := elementPosition(s, args[0])
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrElementNotFound, args[0])
	}
	s.Store().MoveElement(args[0], from, to)
	return nil
}

func (a *App) uploadCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: upload <element-id> <path> [public]")
	}
	e, err := findElement(s, args[0])
	if err != nil {
		return err
	}
	if !e.Type.IsMedia() {
		return fmt.Errorf("%s is a %s element, use 'edit'", e.ID, e.Type)
	}
	public := len(args) == 3 && args[2] == "public"

	if err := s.SelectFile(e.ID, args[1], public); err != nil {
		return err
	}
	p, _ := s.Store().PendingUpload(e.ID)
	fmt.Fprintf(a.out, "Queued %s (%s, %d bytes) for %s, run 'save' to upload\n",
		p.File.Name, p.File.ContentType, p.File.Size, e.ID)
	return nil
}

func (a *App) pendingCommand(_ context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	queued := s.Store().PendingUploads()
	if len(queued) == 0 {
		fmt.Fprintln(a.out, "No pending uploads")
		return nil
	}
	for i, p := range queued {
		fmt.Fprintf(a.out, "%d. %s\t%s\t%d bytes\n", i+1, p.ElementID, p.File.Path, p.File.Size)
	}
	return nil
}

func (a *App) tabCommand(_ context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		fmt.Fprintf(a.out, "Active tab: %s\n", s.Tab())
		return nil
	case 1:
		if args[0] == viewstate.SectionsTab {
			s.ResetTab()
			return nil
		}
		return s.SetTab(args[0])
	default:
		return errors.New("usage: tab [section-id|sections]")
	}
}
