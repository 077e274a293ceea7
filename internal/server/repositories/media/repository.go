// Package media persists metadata of uploaded objects.
package media

import (
	"context"

	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

type Repository interface {
	// Upsert stores m, replacing any record with the same key.
	Upsert(ctx context.Context, m *models.Media) error
	Get(ctx context.Context, key string) (*models.Media, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Media, error)
}
