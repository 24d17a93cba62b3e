// Package prompt implements the user-facing decision and message surfaces
// used by the settings store.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const restoreQuestion = "Would you like to revert to default values?"

// Terminal asks questions and prints messages on a terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer
	// Interactive reports whether In can answer questions. Nil means In is
	// checked for a TTY when it is an *os.File.
	Interactive func() bool

	once   sync.Once
	reader *bufio.Reader
}

// NewTerminal returns a Terminal bound to the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: in, Out: out}
}

// RestoreDefaults prints the load error and asks whether to write the current
// values back. Non-interactive input answers no.
func (t *Terminal) RestoreDefaults(err error) bool {
	fmt.Fprintf(t.Out, "Error loading gavpi settings: %v\n\n", err)
	if !t.interactive() {
		fmt.Fprintf(t.Out, "%s [y/N] n (non-interactive)\n", restoreQuestion)
		return false
	}

	fmt.Fprintf(t.Out, "%s [y/N] ", restoreQuestion)
	t.once.Do(func() { t.reader = bufio.NewReader(t.In) })
	line, readErr := t.reader.ReadString('\n')
	if readErr != nil && line == "" {
		fmt.Fprintln(t.Out)
		return false
	}
	return parseYes(line)
}

// Notify prints message on its own line.
func (t *Terminal) Notify(message string) {
	fmt.Fprintln(t.Out, message)
}

func (t *Terminal) interactive() bool {
	if t.Interactive != nil {
		return t.Interactive()
	}
	if f, ok := t.In.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func parseYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Fixed answers every restore question with the same value, for scripted use.
type Fixed struct {
	Answer bool
	// Out receives the load error when set.
	Out io.Writer
}

// RestoreDefaults reports err to Out and returns the fixed answer.
func (f Fixed) RestoreDefaults(err error) bool {
	if f.Out != nil {
		fmt.Fprintf(f.Out, "Error loading gavpi settings: %v\n", err)
	}
	return f.Answer
}
