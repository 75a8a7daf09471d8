package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/project-time-tracker/internal/timecalc"
)

// ErrInputRequired is returned in non-interactive mode when a required
// value was not given on the command line.
var ErrInputRequired = errors.New("input required")

// Prompter resolves values the user left off the command line.
type Prompter interface {
	// String asks for text. An empty def means there is no default and an
	// empty answer is asked again.
	String(label, def string) (string, error)
	// Int asks for an integer. A nil def means there is no default.
	Int(label string, def *int64) (int64, error)
	// Date asks for a YYYY-MM-DD date with def as default.
	Date(label string, def time.Time) (time.Time, error)
	// Confirm asks a yes/no question; the default answer is no.
	Confirm(question string) (bool, error)
}

// linePrompter reads answers line by line, re-asking on invalid input.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("aborted: %w", io.ErrUnexpectedEOF)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *linePrompter) String(label, def string) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer != "" {
			return answer, nil
		}
		if def != "" {
			return def, nil
		}
	}
}

func (p *linePrompter) Int(label string, def *int64) (int64, error) {
	sdef := ""
	if def != nil {
		sdef = strconv.FormatInt(*def, 10)
	}
	for {
		answer, err := p.String(label, sdef)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(answer, 10, 64)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.out, "Error: '%s' is not a valid integer.\n", answer)
	}
}

func (p *linePrompter) Date(label string, def time.Time) (time.Time, error) {
	for {
		answer, err := p.String(label, timecalc.FormatDate(def))
		if err != nil {
			return time.Time{}, err
		}
		d, err := timecalc.ParseDate(answer)
		if err == nil {
			return d, nil
		}
		fmt.Fprintf(p.out, "Error: %v\n", err)
	}
}

func (p *linePrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/N]: ", question)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Error: invalid input")
	}
}

// noInputPrompter fails every prompt; used with --no-input.
type noInputPrompter struct{}

func (noInputPrompter) String(label, _ string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrInputRequired, strings.ToLower(label))
}

func (noInputPrompter) Int(label string, _ *int64) (int64, error) {
	return 0, fmt.Errorf("%w: %s", ErrInputRequired, strings.ToLower(label))
}

func (noInputPrompter) Date(label string, _ time.Time) (time.Time, error) {
	return time.Time{}, fmt.Errorf("%w: %s", ErrInputRequired, strings.ToLower(label))
}

func (noInputPrompter) Confirm(question string) (bool, error) {
	return false, fmt.Errorf("%w: confirmation for %q (pass --yes)", ErrInputRequired, question)
}
