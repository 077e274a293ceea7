package courses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/dbx"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, created_at FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, owner_id) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		c.ID, c.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, c.ID)
}

func (r *PostgresRepository) GetContent(ctx context.Context, courseID string) (*models.CourseContent, error) {
	var raw []byte
	c := &models.CourseContent{CourseID: courseID}
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot, version, updated_by, updated_at FROM course_content WHERE course_id = $1`, courseID).
		Scan(&raw, &c.Version, &c.UpdatedBy, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(raw, &c.Snapshot); err != nil {
		return nil, fmt.Errorf("error decoding snapshot of %s: %w", courseID, err)
	}
	return c, nil
}

func (r *PostgresRepository) SaveContent(ctx context.Context, c *models.CourseContent) (int64, error) {
	raw, err := json.Marshal(c.Snapshot)
	if err != nil {
		return 0, fmt.Errorf("error encoding snapshot: %w", err)
	}

	var version int64
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO course_content (course_id, snapshot, version, updated_by, updated_at)
		VALUES ($1, $2, 1, $3, now())
		ON CONFLICT (course_id) DO UPDATE
		SET snapshot = excluded.snapshot,
		    version = course_content.version + 1,
		    updated_by = excluded.updated_by,
		    updated_at = excluded.updated_at
		RETURNING version`,
		c.CourseID, raw, c.UpdatedBy).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}
