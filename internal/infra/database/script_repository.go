package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type ScriptRepository struct {
	DB *sql.DB
}

func NewScriptRepository(db *sql.DB) *ScriptRepository {
	return &ScriptRepository{DB: db}
}

func (r *ScriptRepository) List(ctx context.Context, ownerID string) ([]entity.Script, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, title, content, category, created_at, updated_at
		FROM scripts WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	scripts := []entity.Script{}
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	entity.SortOldestFirst(scripts)
	return scripts, nil
}

func (r *ScriptRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Script, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, title, content, category, created_at, updated_at
		FROM scripts WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	s, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrScriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find script: %w", err)
	}
	return s, nil
}

func (r *ScriptRepository) Create(ctx context.Context, s *entity.Script) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO scripts (id, owner_id, title, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.OwnerID, s.Title, s.Content, string(s.Category), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	return nil
}

func (r *ScriptRepository) Update(ctx context.Context, s *entity.Script) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE scripts SET title = $3, content = $4, category = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`, s.ID, s.OwnerID, s.Title, s.Content, string(s.Category), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update script: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrScriptNotFound
	}
	return nil
}

func (r *ScriptRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM scripts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrScriptNotFound
	}
	return nil
}

func scanScript(s rowScanner) (*entity.Script, error) {
	var (
		script   entity.Script
		category string
	)
	if err := s.Scan(&script.ID, &script.OwnerID, &script.Title, &script.Content, &category, &script.CreatedAt, &script.UpdatedAt); err != nil {
		return nil, err
	}
	script.Category = entity.ScriptCategory(category)
	return &script, nil
}
