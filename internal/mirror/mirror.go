// Package mirror implements the mirror workflow: verify both remotes,
// mirror-clone the source into an ephemeral workspace, then perform three
// independent push attempts against the destination.
//
// The workflow is strictly linear. Failures before the push phase are
// fatal; push failures are warnings and never stop the remaining push
// categories from being attempted. There is no retry and no rollback.
package mirror

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/NicabarNimble/go-gitmirror/internal/credentials"
	"github.com/NicabarNimble/go-gitmirror/internal/errors"
	"github.com/NicabarNimble/go-gitmirror/internal/gitcmd"
	"github.com/NicabarNimble/go-gitmirror/internal/report"
	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// MirrorBranchPrefix is prepended to the remapped default branch name so
// it never collides with destination-side protection rules tied to the
// original name.
const MirrorBranchPrefix = "mirror_"

// Side describes one endpoint of a mirror run, fully validated and with
// credentials already provisioned where the transport needs them.
type Side struct {
	URL    string
	Host   string
	Scheme urlutils.Scheme
	Creds  *credentials.Context
}

// Config is the validated input of a mirror run, produced by the
// interactive collector before any network traffic happens.
type Config struct {
	Source      Side
	Destination Side
}

// Outcome is the recorded result of one push category.
type Outcome struct {
	Status report.Status
	Detail string
}

// Result collects the derived values and per-category outcomes of a
// completed run.
type Result struct {
	DefaultBranch string
	MirrorBranch  string
	Remap         Outcome
	Branches      Outcome
	Tags          Outcome
}

// Seams for tests; production code always points these at gitcmd.
var (
	probe             = gitcmd.Probe
	cloneMirror       = gitcmd.CloneMirror
	defaultBranch     = gitcmd.DefaultBranch
	pushDefaultBranch = gitcmd.PushDefaultBranch
	pushAllBranches   = gitcmd.PushAllBranches
	pushAllTags       = gitcmd.PushAllTags

	mkWorkspace = func() (string, error) {
		return os.MkdirTemp("", "gitmirror-work-*")
	}
)

// Run executes the mirror workflow. The ephemeral workspace is removed on
// every return path; credential files are owned and removed by the caller.
func Run(ctx context.Context, cfg *Config, rep *report.Reporter) (*Result, error) {
	rep.Summary("Run Timestamp", rep.Timestamp())
	rep.Summary("Source URL", cfg.Source.URL)
	rep.Summary("Destination URL", cfg.Destination.URL)

	rep.Step("Verifying source repository")
	if err := probe(ctx, cfg.Source.URL, cfg.Source.Creds); err != nil {
		rep.Error("%v", err)
		return nil, err
	}
	rep.Info("source %s is reachable", cfg.Source.URL)

	rep.Step("Verifying destination repository")
	if err := probe(ctx, cfg.Destination.URL, cfg.Destination.Creds); err != nil {
		rep.Error("%v", err)
		return nil, err
	}
	rep.Info("destination %s is reachable", cfg.Destination.URL)

	rep.Step("Cloning source repository")
	workDir, err := mkWorkspace()
	if err != nil {
		err = errors.New("workspace", fmt.Errorf("failed to create workspace: %w", err))
		rep.Error("%v", err)
		return nil, err
	}
	defer os.RemoveAll(workDir)

	if err := cloneMirror(ctx, cfg.Source.URL, workDir, cfg.Source.Creds); err != nil {
		rep.Error("%v", err)
		return nil, err
	}
	rep.Info("mirror clone complete in %s", workDir)

	rep.Step("Mirroring to destination")
	branch := defaultBranch(ctx, workDir)
	res := &Result{
		DefaultBranch: branch,
		MirrorBranch:  MirrorBranchPrefix + branch + "_" + rep.Timestamp(),
	}
	rep.Summary("Default Branch", res.DefaultBranch)
	rep.Summary("Mirror Branch", res.MirrorBranch)
	rep.Info("pushing default branch %q as %q", res.DefaultBranch, res.MirrorBranch)

	// Each category is attempted regardless of the outcome of the others.
	res.Remap = classify(pushDefaultBranch(ctx, workDir, cfg.Destination.URL,
		res.DefaultBranch, res.MirrorBranch, cfg.Destination.Creds))
	rep.Outcome("Default Branch Remap Status", res.Remap.Status, res.Remap.Detail)

	res.Branches = classify(pushAllBranches(ctx, workDir, cfg.Destination.URL,
		cfg.Destination.Creds))
	rep.Outcome("All Branches Status", res.Branches.Status, res.Branches.Detail)

	res.Tags = classify(pushAllTags(ctx, workDir, cfg.Destination.URL,
		cfg.Destination.Creds))
	rep.Outcome("All Tags Status", res.Tags.Status, res.Tags.Detail)

	return res, nil
}

// classify maps a push result onto the recorded outcome. A rejected-refs
// failure means some refs may have been accepted, so it is reported as
// partial rather than failed.
func classify(err error) Outcome {
	if err == nil {
		return Outcome{Status: report.StatusSuccess}
	}
	if gitcmd.IsPartialPush(err) {
		return Outcome{Status: report.StatusPartial, Detail: "some refs rejected"}
	}

	var pushErr *errors.PushError
	if stderrors.As(err, &pushErr) && pushErr.ExitCode != 0 {
		return Outcome{Status: report.StatusFailed, Detail: fmt.Sprintf("exit code %d", pushErr.ExitCode)}
	}
	return Outcome{Status: report.StatusFailed, Detail: err.Error()}
}
