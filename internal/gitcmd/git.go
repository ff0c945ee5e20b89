// Package gitcmd wraps the installed git command-line tool. The mirror
// workflow never touches repository object storage itself; every operation
// here shells out to git and observes success or failure through the
// process exit status.
package gitcmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/NicabarNimble/go-gitmirror/internal/credentials"
	"github.com/NicabarNimble/go-gitmirror/internal/errors"
)

// FallbackDefaultBranch is used when the symbolic HEAD lookup fails in the
// mirror workspace. The literal "master" is kept even though repositories
// created on newer hosts default to "main"; see DefaultBranch.
const FallbackDefaultBranch = "master"

// runGit is a variable so it can be stubbed in tests. It runs git with the
// given arguments, prefixed with the credential context's configuration,
// and returns the combined output. GIT_TERMINAL_PROMPT is disabled so a
// missing credential fails the command instead of hanging the run on an
// interactive prompt.
var runGit = func(ctx context.Context, dir string, creds *credentials.Context, args ...string) (string, error) {
	gitArgs := append(creds.GitArgs(), args...)
	cmd := exec.CommandContext(ctx, "git", gitArgs...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// CheckInstalled verifies that the git binary is available on PATH.
func CheckInstalled() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.New("prerequisite", fmt.Errorf("git not found in PATH: %w", err))
	}
	return nil
}

// Probe performs a lightweight remote listing against the URL to verify
// the repository is reachable and authorized before the workflow commits
// to it.
func Probe(ctx context.Context, url string, creds *credentials.Context) error {
	if out, err := runGit(ctx, "", creds, "ls-remote", "--heads", url); err != nil {
		return &errors.UnreachableError{URL: url, Err: commandError(out, err)}
	}
	return nil
}

// CloneMirror performs a full mirror-mode clone of the source repository
// into dir, copying all refs (branches, tags and internal namespaces) as
// an exact map of the source.
func CloneMirror(ctx context.Context, url, dir string, creds *credentials.Context) error {
	if out, err := runGit(ctx, "", creds, "clone", "--mirror", url, dir); err != nil {
		return &errors.CloneError{URL: url, Err: commandError(out, err)}
	}
	return nil
}

// DefaultBranch resolves the branch the workspace's symbolic HEAD points
// at. When the lookup fails it falls back to the literal
// FallbackDefaultBranch, which may not reflect the true default on hosts
// defaulting to "main".
func DefaultBranch(ctx context.Context, dir string) string {
	out, err := runGit(ctx, dir, nil, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return FallbackDefaultBranch
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		return FallbackDefaultBranch
	}
	return branch
}

// PushDefaultBranch pushes the source's default branch to the destination
// under mirrorBranch, never under its original name. This is the
// workaround for destination branch-protection rules tied to the default
// branch name.
func PushDefaultBranch(ctx context.Context, dir, destURL, defaultBranch, mirrorBranch string, creds *credentials.Context) error {
	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", defaultBranch, mirrorBranch)
	if out, err := runGit(ctx, dir, creds, "push", destURL, refspec); err != nil {
		return pushError(errors.PushRemap, out, err)
	}
	return nil
}

// PushAllBranches pushes every branch in the workspace to the destination
// under its normal ref name.
func PushAllBranches(ctx context.Context, dir, destURL string, creds *credentials.Context) error {
	if out, err := runGit(ctx, dir, creds, "push", destURL, "--all"); err != nil {
		return pushError(errors.PushBranches, out, err)
	}
	return nil
}

// PushAllTags pushes every tag in the workspace to the destination.
func PushAllTags(ctx context.Context, dir, destURL string, creds *credentials.Context) error {
	if out, err := runGit(ctx, dir, creds, "push", destURL, "--tags"); err != nil {
		return pushError(errors.PushTags, out, err)
	}
	return nil
}

// IsPartialPush reports whether a failed push shows per-ref rejections in
// its output, meaning some refs may still have been accepted (protected
// branches rejected while others succeeded).
func IsPartialPush(err error) bool {
	var pe *errors.PushError
	if !stderrors.As(err, &pe) {
		return false
	}
	return strings.Contains(pe.Output, "[rejected]") ||
		strings.Contains(pe.Output, "[remote rejected]")
}

func pushError(category errors.PushCategory, out string, err error) *errors.PushError {
	return &errors.PushError{
		Category: category,
		ExitCode: exitCode(err),
		Output:   out,
		Err:      commandError(out, err),
	}
}

// commandError folds the trailing line of git's output into the error so
// failures carry a descriptive message, not just an exit status.
func commandError(out string, err error) error {
	detail := lastLine(out)
	if detail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, detail)
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}
