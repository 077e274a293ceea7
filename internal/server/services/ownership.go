package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/courses"
)

// claimCourse returns the course, creating it owned by userID on first use.
// A course owned by someone else yields common.ErrorForbidden.
func claimCourse(ctx context.Context, repo courses.Repository, courseID, userID string) (*models.Course, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, fmt.Errorf("%w: course id is required", common.ErrorInvalidInput)
	}
	c, err := repo.Create(ctx, &models.Course{ID: courseID, OwnerID: userID})
	if err != nil {
		return nil, fmt.Errorf("error claiming course %s: %w", courseID, err)
	}
	if c.OwnerID != userID {
		return nil, fmt.Errorf("course %s: %w", courseID, common.ErrorForbidden)
	}
	return c, nil
}

// checkCourse reports whether the course exists and may be read by userID.
func checkCourse(ctx context.Context, repo courses.Repository, courseID, userID string) (bool, error) {
	if strings.TrimSpace(courseID) == "" {
		return false, fmt.Errorf("%w: course id is required", common.ErrorInvalidInput)
	}
	c, err := repo.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error reading course %s: %w", courseID, err)
	}
	if c.OwnerID != userID {
		return false, fmt.Errorf("course %s: %w", courseID, common.ErrorForbidden)
	}
	return true, nil
}

// mediaPrefix is the storage key prefix of every object of a course.
func mediaPrefix(courseID string) string {
	return "courses/" + courseID + "/"
}
