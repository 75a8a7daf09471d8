package cmd

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/project-time-tracker/internal/model"
	"github.com/Tiliavir/project-time-tracker/internal/storage"
	"github.com/Tiliavir/project-time-tracker/internal/timecalc"
)

func newTimeCmd(rt *runtime) *cobra.Command {
	c := &cobra.Command{
		Use:   "time",
		Short: "Manage time entries",
	}
	c.AddCommand(
		newTimeAddCmd(rt),
		newTimeListCmd(rt),
		newTimeUpdateCmd(rt),
		newTimeDeleteCmd(rt),
		newTimeSummaryCmd(rt),
		newTimeExportCmd(rt),
	)
	return c
}

func newTimeAddCmd(rt *runtime) *cobra.Command {
	var dateFlag string

	c := &cobra.Command{
		Use:   "add [project_id] [duration] [description]",
		Short: "Add a time entry to a project",
		Long: `Add a time entry to a project. Duration is in whole minutes.
The entry is dated today unless --date is given.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var date *time.Time
			if dateFlag != "" {
				d, err := parseDateFlag(dateFlag)
				if err != nil {
					return err
				}
				date = d
			}

			var projectID int64
			if len(args) >= 1 {
				var err error
				if projectID, err = parseID(args[0], "project id"); err != nil {
					return err
				}
			} else {
				var (
					ok  bool
					err error
				)
				projectID, ok, err = rt.pickProject(cmd, "Project ID", "No projects found. Create a project first.")
				if err != nil || !ok {
					return err
				}
			}

			pj, err := rt.lookupProject(cmd, projectID)
			if err != nil || pj == nil {
				return err
			}

			var minutes int64
			if len(args) >= 2 {
				if minutes, err = parseMinutes(args[1]); err != nil {
					return err
				}
			} else if minutes, err = rt.prompt.Int("Duration in minutes", nil); err != nil {
				return err
			}

			var description string
			if len(args) == 3 {
				description = strings.TrimSpace(args[2])
			}
			if description == "" {
				if description, err = rt.prompt.String("Description", ""); err != nil {
					return err
				}
			}

			_, err = rt.store.CreateTimeEntry(cmd.Context(), model.NewTimeEntry{
				ProjectID:       projectID,
				DurationMinutes: minutes,
				Description:     description,
				EntryDate:       date,
			})
			if err != nil {
				return rt.internal(err)
			}
			p.success("Time entry added: %d minutes for project '%s'", minutes, pj.Name)
			return nil
		},
	}
	c.Flags().StringVar(&dateFlag, "date", "", "Date of the entry (YYYY-MM-DD); defaults to today")
	return c
}

func newTimeListCmd(rt *runtime) *cobra.Command {
	var projectID int64

	c := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			ctx := cmd.Context()

			var (
				lines []string
				total int64
			)
			if filter := projectFilter(cmd, projectID); filter != nil {
				pj, err := rt.lookupProject(cmd, *filter)
				if err != nil || pj == nil {
					return err
				}
				entries, err := rt.store.ListTimeEntriesByProject(ctx, pj.ID)
				if err != nil {
					return rt.internal(err)
				}
				p.line("Time entries for project '%s':", pj.Name)
				for _, e := range entries {
					lines = append(lines, formatIDEntry(e))
					total += e.DurationMinutes
				}
			} else {
				entries, err := rt.store.ListTimeEntries(ctx)
				if err != nil {
					return rt.internal(err)
				}
				p.line("All time entries:")
				for _, e := range entries {
					lines = append(lines, formatJoinedEntry(e))
					total += e.DurationMinutes
				}
			}

			if len(lines) == 0 {
				p.line("No time entries found.")
				return nil
			}
			for _, l := range lines {
				p.line("  %s", l)
			}
			p.blank()
			p.line("Total time: %s", timecalc.FormatTotal(total))
			return nil
		},
	}
	c.Flags().Int64Var(&projectID, "project-id", 0, "Only list entries of this project")
	return c
}

func newTimeUpdateCmd(rt *runtime) *cobra.Command {
	var (
		duration    int64
		description string
		dateFlag    string
	)

	c := &cobra.Command{
		Use:   "update [entry_id]",
		Short: "Update a time entry",
		Long: `Update a time entry. Fields not given as flags are prompted for, with
the current value as default. With --no-input they are left unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			flags := cmd.Flags()

			var patch model.TimeEntryPatch
			if flags.Changed("duration") {
				patch.DurationMinutes = &duration
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("date") {
				d, err := parseDateFlag(dateFlag)
				if err != nil {
					return err
				}
				patch.EntryDate = d
			}

			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0], "entry id"); err != nil {
					return err
				}
			} else {
				var (
					ok  bool
					err error
				)
				id, ok, err = rt.pickEntry(cmd, "Entry ID to update")
				if err != nil || !ok {
					return err
				}
			}

			e, err := rt.lookupEntry(cmd, id)
			if err != nil || e == nil {
				return err
			}

			if !rt.noInput {
				p.line("Current entry: %s", formatEntry(*e))
				if err := rt.promptMissing(&patch, *e); err != nil {
					return err
				}
			}

			err = rt.store.UpdateTimeEntry(cmd.Context(), id, patch)
			switch {
			case errors.Is(err, storage.ErrNoChanges):
				p.fail("Failed to update time entry %d: nothing to change.", id)
			case errors.Is(err, storage.ErrNotFound):
				p.fail("Time entry %d not found.", id)
			case err != nil:
				return rt.internal(err)
			default:
				p.success("Time entry %d updated successfully.", id)
			}
			return nil
		},
	}
	c.Flags().Int64Var(&duration, "duration", 0, "New duration in minutes")
	c.Flags().StringVar(&description, "description", "", "New description")
	c.Flags().StringVar(&dateFlag, "date", "", "New date (YYYY-MM-DD)")
	return c
}

// promptMissing asks for every field the patch leaves unset, offering the
// entry's current value as default.
func (rt *runtime) promptMissing(patch *model.TimeEntryPatch, cur model.TimeEntry) error {
	if patch.DurationMinutes == nil {
		n, err := rt.prompt.Int("New duration in minutes", &cur.DurationMinutes)
		if err != nil {
			return err
		}
		patch.DurationMinutes = &n
	}
	if patch.Description == nil {
		s, err := rt.prompt.String("New description", cur.Description)
		if err != nil {
			return err
		}
		patch.Description = &s
	}
	if patch.EntryDate == nil {
		d, err := rt.prompt.Date("New date (YYYY-MM-DD)", cur.EntryDate)
		if err != nil {
			return err
		}
		patch.EntryDate = &d
	}
	return nil
}

func newTimeDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "delete [entry_id]",
		Short: "Delete a time entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0], "entry id"); err != nil {
					return err
				}
			} else {
				var (
					ok  bool
					err error
				)
				id, ok, err = rt.pickEntry(cmd, "Entry ID to delete")
				if err != nil || !ok {
					return err
				}
			}

			e, err := rt.lookupEntry(cmd, id)
			if err != nil || e == nil {
				return err
			}

			if !yes {
				confirmed, err := rt.prompt.Confirm("Are you sure you want to delete entry: " + formatEntry(*e) + "?")
				if err != nil {
					return err
				}
				if !confirmed {
					p.line("Aborted.")
					return nil
				}
			}

			err = rt.store.DeleteTimeEntry(cmd.Context(), id)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				p.fail("Time entry %d not found.", id)
			case err != nil:
				return rt.internal(err)
			default:
				p.success("Time entry %d deleted.", id)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return c
}

func newTimeSummaryCmd(rt *runtime) *cobra.Command {
	var projectID int64

	c := &cobra.Command{
		Use:   "summary",
		Short: "Show total time per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			ctx := cmd.Context()

			if filter := projectFilter(cmd, projectID); filter != nil {
				pj, err := rt.lookupProject(cmd, *filter)
				if err != nil || pj == nil {
					return err
				}
				total, err := rt.store.SumProjectMinutes(ctx, pj.ID)
				if err != nil {
					return rt.internal(err)
				}
				p.line("Time summary for project '%s':", pj.Name)
				p.line("Total time: %s", timecalc.FormatTotal(total))
				return nil
			}

			projects, err := rt.store.ListProjects(ctx)
			if err != nil {
				return rt.internal(err)
			}
			if len(projects) == 0 {
				p.line("No projects found.")
				return nil
			}

			p.line("Time summary by project:")
			var grand int64
			for _, pj := range projects {
				total, err := rt.store.SumProjectMinutes(ctx, pj.ID)
				if err != nil {
					return rt.internal(err)
				}
				grand += total
				p.line("  %s: %s", pj.Name, timecalc.FormatTotal(total))
			}
			p.blank()
			p.line("Grand total: %s", timecalc.FormatTotal(grand))
			return nil
		},
	}
	c.Flags().Int64Var(&projectID, "project-id", 0, "Only summarize this project")
	return c
}

func newTimeExportCmd(rt *runtime) *cobra.Command {
	var projectID int64

	c := &cobra.Command{
		Use:   "export [filename]",
		Short: "Export time entries to a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var filename string
			if len(args) == 1 {
				filename = strings.TrimSpace(args[0])
			}
			if filename == "" {
				var err error
				if filename, err = rt.prompt.String("CSV filename", ""); err != nil {
					return err
				}
			}
			if !strings.HasSuffix(filename, ".csv") {
				filename += ".csv"
			}

			filter := projectFilter(cmd, projectID)
			var pj *model.Project
			if filter != nil {
				var err error
				if pj, err = rt.lookupProject(cmd, *filter); err != nil || pj == nil {
					return err
				}
			}

			n, err := rt.store.ExportCSV(cmd.Context(), filename, filter)
			if err != nil {
				slog.Error("export failed", "path", filename, "error", err)
				p.fail("Failed to export CSV file.")
				return nil
			}
			if pj != nil {
				p.success("Time entries for project '%s' exported to %s (%d rows)", pj.Name, filename, n)
			} else {
				p.success("All time entries exported to %s (%d rows)", filename, n)
			}
			return nil
		},
	}
	c.Flags().Int64Var(&projectID, "project-id", 0, "Only export entries of this project")
	return c
}
