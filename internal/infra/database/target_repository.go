package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
)

type TargetRepository struct {
	DB *sql.DB
}

func NewTargetRepository(db *sql.DB) *TargetRepository {
	return &TargetRepository{DB: db}
}

func (r *TargetRepository) List(ctx context.Context) ([]entity.Target, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT username, last_scraped FROM targets ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []entity.Target
	for rows.Next() {
		var t entity.Target
		if err := rows.Scan(&t.Username, &t.LastScraped); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// Upsert registers a target without clobbering its scrape timestamp.
func (r *TargetRepository) Upsert(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO targets (username) VALUES ($1)
		ON CONFLICT (username) DO NOTHING
	`, username)
	return err
}

// Touch records a completed scrape run.
func (r *TargetRepository) Touch(ctx context.Context, username string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO targets (username, last_scraped) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET last_scraped = EXCLUDED.last_scraped
	`, username, at)
	return err
}
