// Package prompt collects the mirror run's configuration interactively.
// Input collection is decoupled from execution: the collector produces a
// fully validated mirror.Config (URLs checked, hosts derived, credentials
// provisioned) before any network operation happens, so the workflow
// itself never needs a terminal.
package prompt

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/NicabarNimble/go-gitmirror/internal/config"
	"github.com/NicabarNimble/go-gitmirror/internal/credentials"
	"github.com/NicabarNimble/go-gitmirror/internal/errors"
	"github.com/NicabarNimble/go-gitmirror/internal/mirror"
	"github.com/NicabarNimble/go-gitmirror/internal/report"
	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// ErrAborted indicates the operator declined the confirmation prompt.
var ErrAborted = stderrors.New("mirror aborted by operator")

// Collector reads line-oriented prompts from in and writes them to out.
type Collector struct {
	in       *bufio.Reader
	out      io.Writer
	prompter *credentials.Prompter

	// AssumeYes skips the confirmation prompt
	AssumeYes bool
}

// New creates a Collector. The same buffered reader is shared with the
// credential prompter so no input is lost between prompts.
func New(in io.Reader, out io.Writer) *Collector {
	br := bufio.NewReader(in)
	return &Collector{
		in:       br,
		out:      out,
		prompter: credentials.NewPrompter(br, out),
	}
}

// Collect prompts for the source and destination, validates both,
// provisions credentials where the transport requires them, and asks for
// confirmation. Cancelling ctx aborts any read in progress. On any error
// every credential file installed so far is removed; on success the
// caller owns the returned contexts.
func (c *Collector) Collect(ctx context.Context, defaults *config.Defaults, rep *report.Reporter) (*mirror.Config, error) {
	source, err := c.collectSide(ctx, "source", defaults.SourceURL, rep)
	if err != nil {
		return nil, err
	}

	dest, err := c.collectSide(ctx, "destination", defaults.DestinationURL, rep)
	if err != nil {
		source.Creds.Remove()
		return nil, err
	}

	if !c.AssumeYes {
		fmt.Fprintf(c.out, "Mirror %s -> %s? [y/N]: ", source.Host, dest.Host)
		answer, err := c.readLine(ctx)
		if err != nil {
			source.Creds.Remove()
			dest.Creds.Remove()
			return nil, fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !isYes(answer) {
			source.Creds.Remove()
			dest.Creds.Remove()
			rep.Warn("run aborted at confirmation prompt")
			return nil, ErrAborted
		}
	}

	return &mirror.Config{Source: *source, Destination: *dest}, nil
}

func (c *Collector) collectSide(ctx context.Context, label, defaultURL string, rep *report.Reporter) (*mirror.Side, error) {
	if defaultURL != "" {
		fmt.Fprintf(c.out, "Enter %s repository URL [%s]: ", label, defaultURL)
	} else {
		fmt.Fprintf(c.out, "Enter %s repository URL: ", label)
	}

	rawURL, err := c.readLine(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s URL: %w", label, err)
	}
	if rawURL == "" {
		rawURL = defaultURL
	}

	scheme, err := urlutils.DetectScheme(rawURL)
	if err != nil {
		return nil, &errors.InvalidURLError{URL: rawURL, Err: err}
	}
	host, err := urlutils.ExtractHost(rawURL)
	if err != nil {
		return nil, &errors.InvalidURLError{URL: rawURL, Err: err}
	}

	rep.Info("%s repository %s (host %s)", label, rawURL, host)

	side := &mirror.Side{URL: rawURL, Host: host, Scheme: scheme}
	if urlutils.NeedsCredentials(scheme) {
		bundle, err := c.prompter.Provision(ctx, host, scheme)
		if err != nil {
			return nil, err
		}
		creds, err := credentials.Install(bundle)
		if err != nil {
			return nil, err
		}
		side.Creds = creds
		rep.Info("credentials provisioned for %s", host)
	}

	return side, nil
}

// readLine runs the blocking read in a goroutine so an interrupt breaks
// out of a prompt instead of leaving the process stuck on stdin.
func (c *Collector) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			ch <- result{"", err}
			return
		}
		ch <- result{strings.TrimSpace(line), nil}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
