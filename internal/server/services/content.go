package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/dbx"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/repomanager"
)

// ContentService serves and commits course content snapshots.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      *bluemonday.Policy
	logger      logging.Logger
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContentService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ContentService{
		db:          db,
		repomanager: m,
		policy:      bluemonday.UGCPolicy(),
		logger:      logger,
	}
}

// Fetch returns the committed content of courseID. A course nobody has
// committed yet comes back as an empty snapshot at version 0.
func (s *ContentService) Fetch(ctx context.Context, userID, courseID string) (*models.CourseContent, error) {
	empty := &models.CourseContent{
		CourseID: courseID,
		Snapshot: course.Snapshot{Sections: []course.Section{}, Elements: []course.Element{}},
	}

	exists, err := checkCourse(ctx, s.repomanager.Courses(s.db), courseID, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return empty, nil
	}

	c, err := s.repomanager.Courses(s.db).GetContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return empty, nil
		}
		return nil, fmt.Errorf("error fetching content: %w", err)
	}
	return c, nil
}

// Commit validates, sanitizes and stores snapshot as the new content of
// courseID and returns the content as stored.
func (s *ContentService) Commit(ctx context.Context, userID, courseID string, snapshot course.Snapshot) (*models.CourseContent, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInvalidSnapshot, err)
	}
	prefix := mediaPrefix(courseID)
	for _, e := range snapshot.Elements {
		if e.Type.IsMedia() && e.Content != "" && !strings.HasPrefix(e.Content, prefix) {
			return nil, fmt.Errorf("%w: element %s references foreign object %q", common.ErrorInvalidSnapshot, e.ID, e.Content)
		}
	}
	clean := s.sanitize(snapshot)

	var version int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Courses(tx)
		if _, err := claimCourse(ctx, repo, courseID, userID); err != nil {
			return err
		}
		v, err := repo.SaveContent(ctx, &models.CourseContent{
			CourseID:  courseID,
			Snapshot:  clean,
			UpdatedBy: userID,
		})
		if err != nil {
			return fmt.Errorf("error saving content: %w", err)
		}
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "content committed",
		"course_id", courseID,
		"user_id", userID,
		"version", version,
		"sections", len(clean.Sections),
		"elements", len(clean.Elements))
	return &models.CourseContent{
		CourseID:  courseID,
		Snapshot:  clean,
		Version:   version,
		UpdatedBy: userID,
	}, nil
}

// sanitize returns a copy of snapshot with every text element's HTML passed
// through the UGC policy.
func (s *ContentService) sanitize(snapshot course.Snapshot) course.Snapshot {
	out := snapshot.Clone()
	for i, e := range out.Elements {
		if e.Type == course.ElementText {
			out.Elements[i].Content = s.policy.Sanitize(e.Content)
		}
	}
	return out
}
