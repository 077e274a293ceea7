// Package synchronizer saves an editing session: it drains the pending
// upload queue one command at a time, writes each resulting storage key
// into its element and then commits the content snapshot to the server.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/editor/uploads"
	"github.com/dmitrijs2005/goinglive/internal/logging"
)

var (
	ErrSaveInProgress = errors.New("save already in progress")
	ErrUploadFailed   = errors.New("upload failed")
	ErrCommitFailed   = errors.New("commit failed")
)

// Committer durably stores a course's content and returns the snapshot as
// stored, which may differ from the one sent (sanitized HTML).
type Committer interface {
	CommitContent(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error)
}

type CommitterFunc func(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error)

func (f CommitterFunc) CommitContent(ctx context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error) {
	return f(ctx, courseID, snapshot)
}

// Store is the part of the content tree the synchronizer needs.
type Store interface {
	PendingUploads() []uploads.PendingUpload
	ApplyUpload(elementID, token, key string) bool
	Snapshot() course.Snapshot
	MarkCommitted(sent, stored course.Snapshot) bool
}

// Result summarises a save.
type Result struct {
	// Uploaded lists elements whose upload finished and was applied.
	Uploaded []string

	// Discarded lists elements deleted while their upload was running.
	Discarded []string

	// Committed is the snapshot the server stored; zero if the commit was
	// not reached.
	Committed course.Snapshot

	// Normalized reports that the server changed the content on commit.
	Normalized bool
}

type Synchronizer struct {
	store     Store
	executor  uploads.Executor
	committer Committer
	courseID  string
	logger    logging.Logger

	saving atomic.Bool
}

func New(store Store, executor uploads.Executor, committer Committer, courseID string, logger logging.Logger) *Synchronizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Synchronizer{
		store:     store,
		executor:  executor,
		committer: committer,
		courseID:  courseID,
		logger:    logger.With("module", "synchronizer", "course_id", courseID),
	}
}

// Saving reports whether a save is running.
func (s *Synchronizer) Saving() bool {
	return s.saving.Load()
}

// Save uploads every queued file in FIFO order and then commits the
// resulting snapshot. The first failing upload stops the save: it and the
// uploads behind it stay queued, and nothing is committed. Uploads that
// already finished are not queued any more, so calling Save again resumes
// where the failure happened.
func (s *Synchronizer) Save(ctx context.Context) (*Result, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer s.saving.Store(false)

	started := time.Now()
	res := &Result{}

	if err := s.drain(ctx, res); err != nil {
		return res, err
	}

	snapshot := s.store.Snapshot()
	if err := snapshot.Validate(); err != nil {
		return res, fmt.Errorf("%w: %w: %w", ErrCommitFailed, common.ErrorInvalidSnapshot, err)
	}
	stored, err := s.committer.CommitContent(ctx, s.courseID, snapshot)
	if err != nil {
		s.logger.Error(ctx, "commit failed", "error", err)
		return res, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	res.Normalized = !stored.Equal(snapshot)
	if !s.store.MarkCommitted(snapshot, stored) {
		s.logger.Info(ctx, "tree changed during save, keeping local edits")
	}
	res.Committed = stored

	s.logger.Info(ctx, "content saved",
		"uploaded", len(res.Uploaded),
		"sections", len(snapshot.Sections),
		"elements", len(snapshot.Elements),
		"elapsed", time.Since(started))
	return res, nil
}

func (s *Synchronizer) drain(ctx context.Context, res *Result) error {
	for {
		queue := s.store.PendingUploads()
		if len(queue) == 0 {
			return nil
		}
		p := queue[0]

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: element %s: %w", ErrUploadFailed, p.ElementID, err)
		}

		s.logger.Debug(ctx, "uploading", "element_id", p.ElementID, "file", p.File.Name, "size", p.File.Size)
		key, err := s.executor.Execute(ctx, p)
		if err != nil {
			s.logger.Warn(ctx, "upload failed", "element_id", p.ElementID, "error", err)
			return fmt.Errorf("%w: element %s: %w", ErrUploadFailed, p.ElementID, err)
		}

		if s.store.ApplyUpload(p.ElementID, p.Token, key) {
			res.Uploaded = append(res.Uploaded, p.ElementID)
		} else {
			s.logger.Info(ctx, "element removed during upload", "element_id", p.ElementID, "key", key)
			res.Discarded = append(res.Discarded, p.ElementID)
		}
	}
}
