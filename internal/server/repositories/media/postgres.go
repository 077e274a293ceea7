package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/goinglive/internal/common"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/dbx"
	"github.com/dmitrijs2005/goinglive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, m *models.Media) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (key, course_id, owner_id, file_name, public, url, disposition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE
		SET file_name = excluded.file_name,
		    public = excluded.public,
		    url = excluded.url,
		    disposition = excluded.disposition`,
		m.Key, m.CourseID, m.OwnerID, m.FileName, m.Public, m.URL, string(m.Disposition))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectMedia = `SELECT key, course_id, owner_id, file_name, public, url, disposition, created_at FROM media`

type scanner interface {
	Scan(dest ...any) error
}

func scanMedia(s scanner) (models.Media, error) {
	var m models.Media
	var disposition string
	err := s.Scan(&m.Key, &m.CourseID, &m.OwnerID, &m.FileName, &m.Public, &m.URL, &disposition, &m.CreatedAt)
	m.Disposition = course.Disposition(disposition)
	return m, err
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.Media, error) {
	m, err := scanMedia(r.db.QueryRowContext(ctx, selectMedia+` WHERE key = $1`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &m, nil
}

func (r *PostgresRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Media, error) {
	rows, err := r.db.QueryContext(ctx, selectMedia+` WHERE course_id = $1 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media rows: %w", err)
	}
	return out, nil
}
