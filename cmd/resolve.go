package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/project-time-tracker/internal/model"
	"github.com/Tiliavir/project-time-tracker/internal/storage"
	"github.com/Tiliavir/project-time-tracker/internal/timecalc"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, usageErrorf("invalid %s %q: expected a number", what, s)
	}
	return id, nil
}

func parseMinutes(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, usageErrorf("invalid duration %q: expected whole minutes", s)
	}
	return n, nil
}

func parseDateFlag(s string) (*time.Time, error) {
	d, err := timecalc.ParseDate(s)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return &d, nil
}

// pickProject lists all projects and asks for one. ok is false when there
// was nothing to choose from; empty is printed in that case.
func (rt *runtime) pickProject(cmd *cobra.Command, label, empty string) (id int64, ok bool, err error) {
	p := out(cmd)
	projects, err := rt.store.ListProjects(cmd.Context())
	if err != nil {
		return 0, false, rt.internal(err)
	}
	if len(projects) == 0 {
		p.warn("%s", empty)
		return 0, false, nil
	}

	p.line("Available projects:")
	for _, pj := range projects {
		p.line("  %d: %s", pj.ID, pj.Name)
	}
	id, err = rt.prompt.Int(label, nil)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// pickEntry lists all (non-orphaned) entries and asks for one.
func (rt *runtime) pickEntry(cmd *cobra.Command, label string) (id int64, ok bool, err error) {
	p := out(cmd)
	entries, err := rt.store.ListTimeEntries(cmd.Context())
	if err != nil {
		return 0, false, rt.internal(err)
	}
	if len(entries) == 0 {
		p.warn("No time entries found.")
		return 0, false, nil
	}

	p.line("Available time entries:")
	for _, e := range entries {
		p.line("  %s", formatJoinedEntry(e))
	}
	id, err = rt.prompt.Int(label, nil)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// lookupProject fetches a project, printing "not found" when it is absent.
func (rt *runtime) lookupProject(cmd *cobra.Command, id int64) (*model.Project, error) {
	pj, err := rt.store.GetProject(cmd.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		out(cmd).fail("Project %d not found.", id)
		return nil, nil
	}
	if err != nil {
		return nil, rt.internal(err)
	}
	return pj, nil
}

// lookupEntry fetches a time entry, printing "not found" when it is absent.
func (rt *runtime) lookupEntry(cmd *cobra.Command, id int64) (*model.TimeEntry, error) {
	e, err := rt.store.GetTimeEntry(cmd.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		out(cmd).fail("Time entry %d not found.", id)
		return nil, nil
	}
	if err != nil {
		return nil, rt.internal(err)
	}
	return e, nil
}

// projectFilter returns the --project-id value, or nil when the flag was not
// set. Project ids start at 1, so 0 also means no filter.
func projectFilter(cmd *cobra.Command, v int64) *int64 {
	if !cmd.Flags().Changed("project-id") || v == 0 {
		return nil
	}
	return &v
}

func formatEntry(e model.TimeEntry) string {
	return fmt.Sprintf("%d min - %s (%s)", e.DurationMinutes, e.Description, timecalc.FormatDate(e.EntryDate))
}

func formatJoinedEntry(e model.EntryWithProject) string {
	return fmt.Sprintf("%d: [%s] %s", e.ID, e.ProjectName, formatEntry(e.TimeEntry))
}

func formatIDEntry(e model.TimeEntry) string {
	return fmt.Sprintf("%d: %s", e.ID, formatEntry(e))
}
