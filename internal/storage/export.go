package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Tiliavir/project-time-tracker/internal/model"
	"github.com/Tiliavir/project-time-tracker/internal/timecalc"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"ID", "Project", "Duration (minutes)", "Description", "Date", "Created At"}

// ExportCSV writes time entries joined with their project name to path,
// newest date first. A nil projectID exports all projects. It returns the
// number of data rows written. On failure the partial file is removed.
func (s *Store) ExportCSV(ctx context.Context, path string, projectID *int64) (int, error) {
	entries, err := s.queryJoined(ctx, projectID)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeCSV(f, entries); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		s.log.Error("csv export failed", "path", path, "error", err)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.log.Info("csv exported", "path", path, "rows", len(entries))
	return len(entries), nil
}

func writeCSV(out io.Writer, entries []model.EntryWithProject) error {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			e.ProjectName,
			strconv.FormatInt(e.DurationMinutes, 10),
			e.Description,
			timecalc.FormatDate(e.EntryDate),
			e.CreatedAt.Format(model.TimestampLayout),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
