package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/project-time-tracker/internal/model"
	"github.com/Tiliavir/project-time-tracker/internal/storage"
)

func newProjectCmd(rt *runtime) *cobra.Command {
	c := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	c.AddCommand(
		newProjectAddCmd(rt),
		newProjectListCmd(rt),
		newProjectUpdateCmd(rt),
		newProjectDeleteCmd(rt),
	)
	return c
}

func newProjectAddCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			if strings.TrimSpace(name) == "" {
				var err error
				if name, err = rt.prompt.String("Project name", ""); err != nil {
					return err
				}
			}

			_, err := rt.store.CreateProject(cmd.Context(), name)
			switch {
			case errors.Is(err, storage.ErrDuplicateName):
				p.fail("Project '%s' already exists.", name)
			case err != nil:
				return rt.internal(err)
			default:
				p.success("Project '%s' created successfully.", name)
			}
			return nil
		},
	}
}

func newProjectListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			projects, err := rt.store.ListProjects(cmd.Context())
			if err != nil {
				return rt.internal(err)
			}
			if len(projects) == 0 {
				p.line("No projects found.")
				return nil
			}

			p.line("Projects:")
			for _, pj := range projects {
				p.line("  %d: %s (created: %s)", pj.ID, pj.Name, pj.CreatedAt.Format(model.TimestampLayout))
			}
			return nil
		},
	}
}

func newProjectUpdateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "update [project_id] [new_name]",
		Short: "Rename a project",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var id int64
			if len(args) >= 1 {
				var err error
				if id, err = parseID(args[0], "project id"); err != nil {
					return err
				}
			} else {
				var (
					ok  bool
					err error
				)
				id, ok, err = rt.pickProject(cmd, "Project ID to update", "No projects found.")
				if err != nil || !ok {
					return err
				}
			}

			pj, err := rt.lookupProject(cmd, id)
			if err != nil || pj == nil {
				return err
			}

			var name string
			if len(args) == 2 {
				name = args[1]
			}
			if strings.TrimSpace(name) == "" {
				p.line("Current name: %s", pj.Name)
				if name, err = rt.prompt.String("New project name", ""); err != nil {
					return err
				}
			}

			err = rt.store.RenameProject(cmd.Context(), id, name)
			switch {
			case errors.Is(err, storage.ErrDuplicateName):
				p.fail("Project name '%s' already exists.", name)
			case errors.Is(err, storage.ErrNotFound):
				p.fail("Project %d not found.", id)
			case err != nil:
				return rt.internal(err)
			default:
				p.success("Project %d renamed to '%s'.", id, name)
			}
			return nil
		},
	}
}

func newProjectDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "delete [project_id]",
		Short: "Delete a project (its time entries are kept)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)

			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0], "project id"); err != nil {
					return err
				}
			} else {
				var (
					ok  bool
					err error
				)
				id, ok, err = rt.pickProject(cmd, "Project ID to delete", "No projects found.")
				if err != nil || !ok {
					return err
				}
			}

			pj, err := rt.lookupProject(cmd, id)
			if err != nil || pj == nil {
				return err
			}

			if !yes {
				confirmed, err := rt.prompt.Confirm("Are you sure you want to delete project '" + pj.Name + "'?")
				if err != nil {
					return err
				}
				if !confirmed {
					p.line("Aborted.")
					return nil
				}
			}

			err = rt.store.DeleteProject(cmd.Context(), id)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				p.fail("Project %d not found.", id)
			case err != nil:
				return rt.internal(err)
			default:
				p.success("Project %d deleted.", id)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return c
}
