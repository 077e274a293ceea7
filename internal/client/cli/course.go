package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goinglive/internal/client/services"
	"github.com/dmitrijs2005/goinglive/internal/editor"
)

// openCommand starts an editing session for a course, keeping unsaved local
// work from a previous run when there is any.
func (a *App) openCommand(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: open <course-id>")
	}
	courseID := args[0]

	if err := a.flushSession(ctx); err != nil {
		return err
	}

	s, err := editor.Open(ctx, editor.Config{
		CourseID: courseID,
		Backend:  a.api,
		Executor: services.NewUploader(a.api, courseID, a.httpClient, a.logger),
		Policy:   a.policy(),
		Storage:  a.repo,
		Logger:   a.logger,

		IDGenerator: a.newID,
	})
	if err != nil {
		return err
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	recovered, err := s.Mount(rctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	if recovered {
		fmt.Fprintf(a.out, "Recovered unsaved changes for %s (%d pending uploads)\n",
			courseID, len(s.Store().PendingUploads()))
	} else {
		fmt.Fprintf(a.out, "Opened %s\n", courseID)
	}
	return nil
}

// flushSession writes the open session's state to local storage.
func (a *App) flushSession(ctx context.Context) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}
	return s.Store().Flush(ctx)
}

func (a *App) requireSession() (*editor.Session, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	s := a.currentSession()
	if s == nil {
		return nil, ErrNoCourse
	}
	return s, nil
}

func (a *App) saveCommand(ctx context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}

	for _, e := range s.Store().Elements() {
		if err := s.InvalidUpload(e.ID); err != nil {
			return fmt.Errorf("element %s has an invalid file selected: %w", e.ID, err)
		}
	}

	res, err := s.Save(ctx)
	if res != nil {
		for _, id := range res.Uploaded {
			fmt.Fprintf(a.out, "uploaded %s\n", id)
		}
		for _, id := range res.Discarded {
			fmt.Fprintf(a.out, "discarded upload for deleted element %s\n", id)
		}
	}
	if err != nil {
		return err
	}
	if res.Normalized {
		fmt.Fprintln(a.out, "The server cleaned up some text content, showing the stored version")
	}
	fmt.Fprintln(a.out, "Saved")
	return nil
}

func (a *App) resetCommand(_ context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if s.Saving() {
		return errors.New("a save is in progress")
	}
	s.Reset()
	fmt.Fprintln(a.out, "Reverted to last saved content")
	return nil
}

func (a *App) mediaCommand(ctx context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	records, err := a.api.ListMedia(rctx, s.CourseID())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No media uploaded")
		return nil
	}
	for _, r := range records {
		visibility := "private"
		if r.Public {
			visibility = "public"
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", r.Key, r.FileName, r.Disposition, visibility)
		if r.URL != "" {
			fmt.Fprintf(a.out, "\t%s\n", r.URL)
		}
	}
	return nil
}
