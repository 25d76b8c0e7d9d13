package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/netorganizer/netorg/internal/meraki"
	"github.com/netorganizer/netorg/pkg/errors"
)

// prompter asks questions on the terminal.
type prompter struct {
	in  *bufio.Reader
	raw io.Reader
	out io.Writer
}

var _ meraki.Chooser = (*prompter)(nil)

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), raw: in, out: out}
}

// Ask reads one line. An empty answer returns def.
func (p *prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.WrapIO("read", "stdin", err)
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

// AskSecret reads a line without echo when stdin is a terminal. An empty
// answer keeps def.
func (p *prompter) AskSecret(label, def string) (string, error) {
	f, ok := p.raw.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		masked := ""
		if def != "" {
			masked = "********"
		}
		answer, err := p.Ask(label, masked)
		if err != nil || answer == masked {
			return def, err
		}
		return answer, nil
	}

	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", errors.WrapIO("read", "stdin", err)
	}
	if len(secret) == 0 {
		return def, nil
	}
	return string(secret), nil
}

// Confirm asks a yes/no question.
func (p *prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.Ask(label+" ("+hint+")", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Choose lists options numbered from 1 and reads a selection.
func (p *prompter) Choose(_ context.Context, kind string, options []string) (int, error) {
	fmt.Fprintf(p.out, "Several %ss found:\n", kind)
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
	for {
		answer, err := p.Ask("Select a "+kind, "1")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(options))
	}
}
