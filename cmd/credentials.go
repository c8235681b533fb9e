package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iksnae/chat-harvest/internal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter asks for missing credentials on the command's input. Secrets
// are read without echo when the input is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    cmd.ErrOrStderr(),
	}
}

func (p *prompter) line(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	text, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && text != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	return p.line(label)
}

// readCredentials completes the credentials given on the command line.
// The password is never taken from a flag.
func readCredentials(cmd *cobra.Command, username, agentID string) (internal.Credentials, error) {
	creds := internal.Credentials{Username: username, AgentID: agentID}
	if creds.AgentID == "" {
		return creds, fmt.Errorf("--agent-id is required")
	}

	p := newPrompter(cmd)
	var err error
	if creds.Username == "" {
		if creds.Username, err = p.line("Username: "); err != nil {
			return creds, err
		}
	}
	if creds.Password, err = p.secret("Password: "); err != nil {
		return creds, err
	}

	return creds, creds.Validate()
}
