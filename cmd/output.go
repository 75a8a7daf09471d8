package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
)

// printer writes human-readable lines to a command's output.
type printer struct {
	w io.Writer
}

func out(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout()}
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) blank() {
	fmt.Fprintln(p.w)
}

func (p printer) success(format string, args ...any) {
	successColor.Fprintf(p.w, format+"\n", args...)
}

func (p printer) fail(format string, args ...any) {
	failColor.Fprintf(p.w, format+"\n", args...)
}

func (p printer) warn(format string, args ...any) {
	warnColor.Fprintf(p.w, format+"\n", args...)
}
