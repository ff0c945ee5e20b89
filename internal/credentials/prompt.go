package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// Prompter collects credential bundles interactively. Input is line
// oriented; the secret read is not echoed when stdin is a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// readSecret is a field so tests can avoid terminal I/O
	readSecret func(p *Prompter) (string, error)
}

// NewPrompter creates a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:         bufio.NewReader(in),
		out:        out,
		readSecret: readSecretDefault,
	}
}

// Provision collects a username plus password-or-token for the given host.
// The menu re-prompts indefinitely on invalid input; the only ways out are
// a valid selection, an input error (EOF, closed terminal) or context
// cancellation.
func (p *Prompter) Provision(ctx context.Context, host string, scheme urlutils.Scheme) (Bundle, error) {
	fmt.Fprintf(p.out, "Authentication required for %s\n", host)

	var secretLabel string
	for {
		fmt.Fprintln(p.out, "  1) Username and password")
		fmt.Fprintln(p.out, "  2) Username and access token")
		fmt.Fprint(p.out, "Select an option [1-2]: ")

		choice, err := p.readLine(ctx)
		if err != nil {
			return Bundle{}, fmt.Errorf("failed to read selection: %w", err)
		}

		switch choice {
		case "1":
			secretLabel = "Password"
		case "2":
			secretLabel = "Token"
		default:
			fmt.Fprintf(p.out, "Invalid selection %q\n", choice)
			continue
		}
		break
	}

	fmt.Fprint(p.out, "Username: ")
	username, err := p.readLine(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read username: %w", err)
	}

	fmt.Fprintf(p.out, "%s: ", secretLabel)
	secret, err := p.await(ctx, func() (string, error) { return p.readSecret(p) })
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read %s: %w", strings.ToLower(secretLabel), err)
	}
	fmt.Fprintln(p.out)

	return Bundle{
		Host:     host,
		Username: username,
		Secret:   secret,
		Scheme:   scheme,
	}, nil
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	return p.await(ctx, p.readLineBlocking)
}

// await runs a blocking read in a goroutine so an interrupt cancels the
// prompt instead of leaving the process stuck on stdin.
func (p *Prompter) await(ctx context.Context, read func() (string, error)) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := read()
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

func (p *Prompter) readLineBlocking() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecretDefault reads without echo from the controlling terminal,
// falling back to a plain line read when stdin is not a terminal (pipes,
// tests).
func readSecretDefault(p *Prompter) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return p.readLineBlocking()
}
