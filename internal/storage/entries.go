package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/project-time-tracker/internal/model"
	"github.com/Tiliavir/project-time-tracker/internal/timecalc"
)

const (
	entryColumns = `id, project_id, duration_minutes, description, date(entry_date), datetime(created_at)`

	joinedEntryColumns = `te.id, te.project_id, p.name, te.duration_minutes, te.description,
		date(te.entry_date), datetime(te.created_at)`
)

// CreateTimeEntry inserts a time entry. The project id is not checked;
// callers must verify the project exists. A nil EntryDate defaults to today.
func (s *Store) CreateTimeEntry(ctx context.Context, in model.NewTimeEntry) (*model.TimeEntry, error) {
	date := timecalc.FormatDate(s.now())
	if in.EntryDate != nil {
		date = timecalc.FormatDate(*in.EntryDate)
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO time_entries (project_id, duration_minutes, description, entry_date)
		VALUES (?, ?, ?, ?) RETURNING `+entryColumns,
		in.ProjectID, in.DurationMinutes, in.Description, date,
	)
	e, err := model.ScanTimeEntry(row)
	if err != nil {
		s.log.Error("create time entry failed", "project_id", in.ProjectID, "error", err)
		return nil, fmt.Errorf("failed to insert time entry for project %d: %w", in.ProjectID, err)
	}
	s.log.Debug("time entry created", "id", e.ID, "project_id", e.ProjectID, "minutes", e.DurationMinutes)
	return &e, nil
}

// GetTimeEntry returns the entry with the given id, or ErrNotFound.
// Orphaned entries are returned as well.
func (s *Store) GetTimeEntry(ctx context.Context, id int64) (*model.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`,
		id,
	)
	e, err := model.ScanTimeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry %d: %w", id, err)
	}
	return &e, nil
}

// ListTimeEntriesByProject returns a project's entries, newest date first.
func (s *Store) ListTimeEntriesByProject(ctx context.Context, projectID int64) ([]model.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		WHERE project_id = ?
		ORDER BY entry_date DESC, id DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries for project %d: %w", projectID, err)
	}
	defer s.closeRows(rows)

	entries := make([]model.TimeEntry, 0, 16)
	for rows.Next() {
		e, err := model.ScanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entry rows: %w", err)
	}
	return entries, nil
}

// ListTimeEntries returns every entry whose project still exists, joined
// with the project name, newest date first.
func (s *Store) ListTimeEntries(ctx context.Context) ([]model.EntryWithProject, error) {
	return s.queryJoined(ctx, nil)
}

func (s *Store) queryJoined(ctx context.Context, projectID *int64) ([]model.EntryWithProject, error) {
	query := `SELECT ` + joinedEntryColumns + `
		FROM time_entries te
		JOIN projects p ON te.project_id = p.id`
	var args []any
	if projectID != nil {
		query += ` WHERE te.project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY te.entry_date DESC, te.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer s.closeRows(rows)

	entries := make([]model.EntryWithProject, 0, 16)
	for rows.Next() {
		e, err := model.ScanEntryWithProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time entry rows: %w", err)
	}
	return entries, nil
}

// UpdateTimeEntry applies a partial update. It returns ErrNoChanges for an
// empty patch and ErrNotFound if the entry does not exist.
func (s *Store) UpdateTimeEntry(ctx context.Context, id int64, patch model.TimeEntryPatch) error {
	if patch.Empty() {
		return ErrNoChanges
	}

	var (
		sets []string
		args []any
	)
	if patch.DurationMinutes != nil {
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *patch.DurationMinutes)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.EntryDate != nil {
		sets = append(sets, "entry_date = ?")
		args = append(args, timecalc.FormatDate(*patch.EntryDate))
	}
	args = append(args, id)

	n, err := s.exec(ctx, `UPDATE time_entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		s.log.Error("update time entry failed", "id", id, "error", err)
		return fmt.Errorf("failed to update time entry %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Debug("time entry updated", "id", id, "fields", len(sets))
	return nil
}

// DeleteTimeEntry removes a single entry.
func (s *Store) DeleteTimeEntry(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		s.log.Error("delete time entry failed", "id", id, "error", err)
		return fmt.Errorf("failed to delete time entry %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Debug("time entry deleted", "id", id)
	return nil
}

// SumProjectMinutes returns the total minutes logged for a project, 0 if none.
func (s *Store) SumProjectMinutes(ctx context.Context, projectID int64) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM time_entries WHERE project_id = ?`,
		projectID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum time for project %d: %w", projectID, err)
	}
	return total, nil
}

func (s *Store) closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		s.log.Error("failed to close rows", "error", err)
	}
}
