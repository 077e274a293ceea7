package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor"
	"github.com/dmitrijs2005/goinglive/internal/editor/viewstate"
)

const previewWidth = 72

var markdown = sync.OnceValue(func() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
})

// preview renders the HTML of a text element as indented markdown.
func preview(html string) string {
	if strings.TrimSpace(html) == "" {
		return "(empty)"
	}
	md, err := markdown().ConvertString(html)
	if err != nil {
		return truncate(html)
	}
	return strings.TrimSpace(md)
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= previewWidth {
		return s
	}
	return s[:previewWidth-3] + "..."
}

func (a *App) showCommand(_ context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	renderSession(a.out, s)
	return nil
}

// renderSession prints the overview, or a single section when its tab is
// active.
func renderSession(w io.Writer, s *editor.Session) {
	sections := s.Store().Sections()
	if len(sections) == 0 {
		fmt.Fprintln(w, "No sections yet, use 'addsection'")
		return
	}

	tab := s.Tab()
	for i, sec := range sections {
		if tab != viewstate.SectionsTab && sec.ID != tab {
			continue
		}
		renderSection(w, s, i, sec)
	}
}

func renderSection(w io.Writer, s *editor.Session, i int, sec course.Section) {
	title := sec.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%d. %s [%s]\n", i+1, title, sec.ID)

	for j, id := range sec.Children {
		e, ok := s.Store().Element(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "   %d.%d %s [%s]", i+1, j+1, e.Type, e.ID)
		if !e.Type.IsMedia() {
			fmt.Fprintln(w)
			for _, line := range strings.Split(preview(e.Content), "\n") {
				fmt.Fprintf(w, "        %s\n", line)
			}
			continue
		}
		fmt.Fprintf(w, " %s\n", mediaState(s, e))
	}
}

func mediaState(s *editor.Session, e course.Element) string {
	if err := s.InvalidUpload(e.ID); err != nil {
		return "invalid file: " + err.Error()
	}
	if p, queued := s.Store().PendingUpload(e.ID); queued {
		return "pending upload of " + p.File.Name
	}
	if e.Content == "" {
		return "no file"
	}
	return e.Content
}

func (a *App) statusCommand(_ context.Context, _ []string) error {
	a.mu.Lock()
	profile, s, mode := a.profile, a.session, a.mode
	a.mu.Unlock()

	if mode == "" {
		mode = "unknown"
	}
	fmt.Fprintf(a.out, "Connection: %s\n", mode)
	if profile == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "User: %s (%s)\n", profile.DisplayName, profile.Username)
	if s == nil {
		fmt.Fprintln(a.out, "No course open")
		return nil
	}

	st := s.Store()
	fmt.Fprintf(a.out, "Course: %s\n", s.CourseID())
	fmt.Fprintf(a.out, "Sections: %d, elements: %d, pending uploads: %d\n",
		len(st.Sections()), len(st.Elements()), len(st.PendingUploads()))
	if st.Dirty() {
		fmt.Fprintln(a.out, "Unsaved changes")
	} else {
		fmt.Fprintln(a.out, "All changes saved")
	}
	if s.Saving() {
		fmt.Fprintln(a.out, "Save in progress")
	}
	return nil
}
