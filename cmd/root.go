package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/project-time-tracker/internal/config"
	"github.com/Tiliavir/project-time-tracker/internal/logging"
	"github.com/Tiliavir/project-time-tracker/internal/storage"
)

// runtime is the per-invocation state shared by all sub-commands.
type runtime struct {
	configPath string
	noInput    bool

	cfg     config.Config
	store   *storage.Store
	prompt  Prompter
	closers []io.Closer
}

// internalError marks failures the user cannot act on. Details go to the
// log file; the terminal only gets a short notice.
type internalError struct {
	err error
}

func (e *internalError) Error() string { return e.err.Error() }
func (e *internalError) Unwrap() error { return e.err }

func (rt *runtime) internal(err error) error {
	return &internalError{err: err}
}

// usageError is a curated message about bad input, shown as is.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func newRootCmd() (*cobra.Command, *runtime) {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "tt",
		Short: "Track time spent on projects",
		Long: `tt records time entries (duration, description, date) against projects
and lists, summarizes and exports them. Data is stored in a local SQLite
file whose location is read from ./data/config.json.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  rt.open,
		PersistentPostRunE: func(*cobra.Command, []string) error { return rt.close() },
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	root.PersistentFlags().StringVar(&rt.configPath, "config", config.PathFromEnv(), "Path to the JSON config file")
	root.PersistentFlags().BoolVar(&rt.noInput, "no-input", false, "Never prompt; fail when a required argument is missing")

	root.AddCommand(newProjectCmd(rt))
	root.AddCommand(newTimeCmd(rt))
	root.AddCommand(newConfigCmd(rt))
	return root, rt
}

// Execute is the entry point called from main.
func Execute() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	root, rt := newRootCmd()
	code := 0
	if err := root.ExecuteContext(context.Background()); err != nil {
		code = rt.report(os.Stderr, err)
	}
	if err := rt.close(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	if code != 0 {
		os.Exit(code)
	}
}

// report prints err for the user and returns the process exit code.
func (rt *runtime) report(w io.Writer, err error) int {
	var ie *internalError
	if errors.As(err, &ie) {
		slog.Error("command failed", "error", ie.err)
		fmt.Fprintf(w, "Error: the operation failed unexpectedly (details in %s)\n", rt.logPath())
		return 1
	}
	fmt.Fprintln(w, "Error:", err)
	return 2
}

func (rt *runtime) logDir() string {
	dbPath := rt.cfg.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	return filepath.Dir(dbPath)
}

func (rt *runtime) logPath() string {
	return filepath.Join(rt.logDir(), logging.FileName)
}

func (rt *runtime) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return rt.internal(err)
	}
	rt.cfg = cfg

	logFile, err := logging.Init(rt.logDir())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
	} else {
		rt.closers = append(rt.closers, logFile)
	}

	store, err := storage.Open(cmd.Context(), cfg.DBPath, storage.WithLogger(logging.Logger))
	if err != nil {
		return rt.internal(err)
	}
	rt.store = store
	rt.closers = append(rt.closers, store)

	if rt.noInput {
		rt.prompt = noInputPrompter{}
	} else {
		rt.prompt = newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	slog.Debug("command started", "command", cmd.CommandPath(), "db_path", cfg.DBPath)
	return nil
}

// close releases resources in reverse order; calling it twice is harmless.
func (rt *runtime) close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	rt.store = nil
	return errors.Join(errs...)
}
