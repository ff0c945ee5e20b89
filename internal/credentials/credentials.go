// Package credentials handles interactive credential provisioning for
// HTTPS git remotes and the ephemeral credential-store files backing them.
//
// Credentials are never exported into the process environment. Each
// provisioned host gets its own Context, and every git invocation that
// needs authentication receives that Context explicitly, so the source and
// destination of a mirror run can hold different credentials for the same
// or different hosts without colliding.
package credentials

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// ErrNotProvisioned indicates an attempt to install an incomplete bundle
var ErrNotProvisioned = errors.New("credential bundle is incomplete")

// Bundle holds host-scoped credentials collected from the operator.
// The secret may be either a password or an access token; git treats both
// the same way in a credential store line.
type Bundle struct {
	Host     string
	Username string
	Secret   string
	Scheme   urlutils.Scheme
}

// Context is an installed credential bundle: a process-unique store file
// in git's credential-store format. A nil Context is valid and means "no
// credentials", which is the case for SSH remotes.
type Context struct {
	storePath string
}

// Install writes the bundle to a process-unique 0600 store file and
// returns the Context wrapping it. The caller owns the file and must call
// Remove on every exit path.
func Install(b Bundle) (*Context, error) {
	if b.Host == "" || b.Username == "" || b.Secret == "" {
		return nil, ErrNotProvisioned
	}

	f, err := os.CreateTemp("", "gitmirror-cred-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create credential file: %w", err)
	}

	// git-credential-store format: one URL-encoded line per host.
	line := url.URL{
		Scheme: string(b.Scheme),
		User:   url.UserPassword(b.Username, b.Secret),
		Host:   b.Host,
	}
	if _, err := fmt.Fprintln(f, line.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close credential file: %w", err)
	}

	return &Context{storePath: f.Name()}, nil
}

// GitArgs returns the configuration arguments that point a single git
// invocation at this credential store. Nil for a nil Context.
func (c *Context) GitArgs() []string {
	if c == nil {
		return nil
	}
	return []string{"-c", "credential.helper=store --file=" + c.storePath}
}

// StorePath returns the path of the backing store file, or "" for a nil
// Context.
func (c *Context) StorePath() string {
	if c == nil {
		return ""
	}
	return c.storePath
}

// Remove deletes the backing store file. Safe to call on a nil Context
// and after the file is already gone.
func (c *Context) Remove() error {
	if c == nil || c.storePath == "" {
		return nil
	}
	if err := os.Remove(c.storePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}
