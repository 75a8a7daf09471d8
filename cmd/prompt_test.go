package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*linePrompter, *bytes.Buffer) {
	var out bytes.Buffer
	return newLinePrompter(strings.NewReader(input), &out), &out
}

func TestLinePrompterString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{"answer", "hello\n", "", "hello"},
		{"trimmed", "  hello  \r\n", "", "hello"},
		{"empty re-asks", "\n\nhello\n", "", "hello"},
		{"empty takes default", "\n", "current", "current"},
		{"answer overrides default", "new\n", "current", "new"},
		{"last line without newline", "hello", "", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.String("Name", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinePrompterShowsDefault(t *testing.T) {
	p, out := newTestPrompter("\n")
	_, err := p.String("New name", "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "New name [Alpha]: ", out.String())
}

func TestLinePrompterEOF(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := p.String("Name", "")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	p, _ = newTestPrompter("\n")
	_, err = p.Int("Count", nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLinePrompterInt(t *testing.T) {
	p, out := newTestPrompter("abc\n1.5\n42\n")
	n, err := p.Int("Count", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Contains(t, out.String(), "Error: 'abc' is not a valid integer.")
	assert.Contains(t, out.String(), "Error: '1.5' is not a valid integer.")

	def := int64(-15)
	p, out = newTestPrompter("\n")
	n, err = p.Int("Count", &def)
	require.NoError(t, err)
	assert.Equal(t, int64(-15), n)
	assert.Equal(t, "Count [-15]: ", out.String())
}

func TestLinePrompterDate(t *testing.T) {
	def := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	p, _ := newTestPrompter("\n")
	d, err := p.Date("Date", def)
	require.NoError(t, err)
	assert.Equal(t, def, d)

	p, out := newTestPrompter("2024-13-01\n2024-02-29\n")
	d, err = p.Date("Date", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)
	assert.Contains(t, out.String(), `Error: invalid date "2024-13-01"`)
}

func TestLinePrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\ny\n", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, out := newTestPrompter(tt.input)
			got, err := p.Confirm("Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), "Delete? [y/N]: "))
		})
	}
}

func TestNoInputPrompter(t *testing.T) {
	var p Prompter = noInputPrompter{}

	_, err := p.String("Project name", "x")
	assert.ErrorIs(t, err, ErrInputRequired)
	assert.EqualError(t, err, "input required: project name")

	_, err = p.Int("Project ID", nil)
	assert.ErrorIs(t, err, ErrInputRequired)

	_, err = p.Date("Date", time.Now())
	assert.ErrorIs(t, err, ErrInputRequired)

	_, err = p.Confirm("Delete?")
	assert.True(t, errors.Is(err, ErrInputRequired))
	assert.Contains(t, err.Error(), "--yes")
}
