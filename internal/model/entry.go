package model

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the storage and display format of entry dates.
	DateLayout = "2006-01-02"
	// TimestampLayout matches SQLite's CURRENT_TIMESTAMP text form (UTC).
	TimestampLayout = "2006-01-02 15:04:05"
)

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// TimeEntry is one recorded duration against a project.
type TimeEntry struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	DurationMinutes int64     `json:"duration_minutes"`
	Description     string    `json:"description"`
	EntryDate       time.Time `json:"entry_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// EntryWithProject is a TimeEntry joined with the name of its project.
type EntryWithProject struct {
	TimeEntry
	ProjectName string `json:"project_name"`
}

// NewTimeEntry holds the fields needed to create a TimeEntry.
// A nil EntryDate means "today" according to the store's clock.
type NewTimeEntry struct {
	ProjectID       int64
	DurationMinutes int64
	Description     string
	EntryDate       *time.Time
}

// TimeEntryPatch is a partial update; nil fields are left unchanged.
type TimeEntryPatch struct {
	DurationMinutes *int64
	Description     *string
	EntryDate       *time.Time
}

// Empty reports whether the patch changes nothing.
func (p TimeEntryPatch) Empty() bool {
	return p.DurationMinutes == nil && p.Description == nil && p.EntryDate == nil
}

// ScanTimeEntry decodes a row selected as
// (id, project_id, duration_minutes, description, entry_date, created_at).
func ScanTimeEntry(row RowScanner) (TimeEntry, error) {
	var (
		e             TimeEntry
		date, created string
	)
	if err := row.Scan(&e.ID, &e.ProjectID, &e.DurationMinutes, &e.Description, &date, &created); err != nil {
		return TimeEntry{}, err
	}
	return e.withTimes(date, created)
}

// ScanEntryWithProject decodes a row selected as
// (id, project_id, project_name, duration_minutes, description, entry_date, created_at).
func ScanEntryWithProject(row RowScanner) (EntryWithProject, error) {
	var (
		e             EntryWithProject
		date, created string
	)
	if err := row.Scan(&e.ID, &e.ProjectID, &e.ProjectName, &e.DurationMinutes, &e.Description, &date, &created); err != nil {
		return EntryWithProject{}, err
	}
	te, err := e.TimeEntry.withTimes(date, created)
	if err != nil {
		return EntryWithProject{}, err
	}
	e.TimeEntry = te
	return e, nil
}

func (e TimeEntry) withTimes(date, created string) (TimeEntry, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("entry %d: bad entry_date %q: %w", e.ID, date, err)
	}
	c, err := ParseTimestamp(created)
	if err != nil {
		return TimeEntry{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.EntryDate = d
	e.CreatedAt = c
	return e, nil
}

// ParseTimestamp parses a stored created_at value as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
