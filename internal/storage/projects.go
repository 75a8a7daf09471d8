package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tiliavir/project-time-tracker/internal/model"
)

const projectColumns = `id, name, datetime(created_at)`

// CreateProject inserts a project. It returns ErrDuplicateName if the name is taken.
func (s *Store) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO projects (name) VALUES (?) RETURNING `+projectColumns,
		name,
	)
	p, err := model.ScanProject(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		s.log.Error("create project failed", "name", name, "error", err)
		return nil, fmt.Errorf("failed to insert project '%s': %w", name, err)
	}
	s.log.Debug("project created", "id", p.ID, "name", p.Name)
	return &p, nil
}

// GetProject returns the project with the given id, or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`,
		id,
	)
	return s.scanOneProject(row, fmt.Sprintf("id %d", id))
}

// GetProjectByName returns the project with exactly this name, or ErrNotFound.
func (s *Store) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE name = ?`,
		name,
	)
	return s.scanOneProject(row, fmt.Sprintf("name '%s'", name))
}

func (s *Store) scanOneProject(row *sql.Row, key string) (*model.Project, error) {
	p, err := model.ScanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", key, err)
	}
	return &p, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer s.closeRows(rows)

	projects := make([]model.Project, 0, 10)
	for rows.Next() {
		p, err := model.ScanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// RenameProject changes a project's name. The uniqueness constraint is
// checked on every rename; renaming a project to its current name succeeds.
func (s *Store) RenameProject(ctx context.Context, id int64, name string) error {
	n, err := s.exec(ctx, `UPDATE projects SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		s.log.Error("rename project failed", "id", id, "error", err)
		return fmt.Errorf("failed to update project %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Debug("project renamed", "id", id, "name", name)
	return nil
}

// DeleteProject removes a project. Its time entries are left in place.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		s.log.Error("delete project failed", "id", id, "error", err)
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Debug("project deleted", "id", id)
	return nil
}
