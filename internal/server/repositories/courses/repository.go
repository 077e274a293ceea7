// Package courses persists course ownership and the committed content
// snapshot of each course.
package courses

import (
	"context"

	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id string) (*models.Course, error)
	// Create inserts the course unless it exists and returns the stored row.
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	GetContent(ctx context.Context, courseID string) (*models.CourseContent, error)
	// SaveContent upserts the snapshot and returns the new version.
	SaveContent(ctx context.Context, c *models.CourseContent) (int64, error)
}
