// ABOUTME: Yes/no confirmation on the terminal for destructive commands
// ABOUTME: Declines automatically when stdin is not an interactive terminal
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// TerminalConfirmer asks on out and reads the answer from in.
type TerminalConfirmer struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:  in,
		out: out,
		interactive: func() bool {
			f, ok := in.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	}
}

func (c *TerminalConfirmer) Confirm(ctx context.Context, message string) bool {
	if !c.interactive() {
		fmt.Fprintln(c.out, "Refusing without confirmation; re-run with --yes")
		return false
	}

	color.New(color.FgYellow).Fprintf(c.out, "⚠ %s ", message)
	fmt.Fprint(c.out, "[y/N]: ")

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(c.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// always accepts without asking, for --yes.
type always struct{}

func (always) Confirm(context.Context, string) bool { return true }
