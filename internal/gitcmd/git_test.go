package gitcmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicabarNimble/go-gitmirror/internal/credentials"
	"github.com/NicabarNimble/go-gitmirror/internal/errors"
	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// stubGit replaces runGit for the duration of a test and records every
// invocation.
type gitCall struct {
	dir   string
	creds *credentials.Context
	args  []string
}

func stubGit(t *testing.T, out string, err error) *[]gitCall {
	t.Helper()
	calls := &[]gitCall{}
	orig := runGit
	runGit = func(ctx context.Context, dir string, creds *credentials.Context, args ...string) (string, error) {
		*calls = append(*calls, gitCall{dir: dir, creds: creds, args: args})
		return out, err
	}
	t.Cleanup(func() { runGit = orig })
	return calls
}

func TestProbe(t *testing.T) {
	calls := stubGit(t, "abc123\trefs/heads/main\n", nil)

	err := Probe(context.Background(), "https://github.com/user/repo.git", nil)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"ls-remote", "--heads", "https://github.com/user/repo.git"}, (*calls)[0].args)
}

func TestProbeUnreachable(t *testing.T) {
	stubGit(t, "fatal: repository not found\n", fmt.Errorf("exit status 128"))

	err := Probe(context.Background(), "https://github.com/user/missing.git", nil)
	var unreachable *errors.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "https://github.com/user/missing.git", unreachable.URL)
	assert.Contains(t, unreachable.Err.Error(), "repository not found")
}

func TestCloneMirror(t *testing.T) {
	calls := stubGit(t, "", nil)

	err := CloneMirror(context.Background(), "https://github.com/user/repo.git", "/tmp/work", nil)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"clone", "--mirror", "https://github.com/user/repo.git", "/tmp/work"}, (*calls)[0].args)
}

func TestCloneMirrorFailure(t *testing.T) {
	stubGit(t, "fatal: could not read from remote\n", fmt.Errorf("exit status 128"))

	err := CloneMirror(context.Background(), "https://github.com/user/repo.git", "/tmp/work", nil)
	var cloneErr *errors.CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, "https://github.com/user/repo.git", cloneErr.URL)
}

func TestDefaultBranch(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		want string
	}{
		{
			name: "resolves symbolic HEAD",
			out:  "develop\n",
			want: "develop",
		},
		{
			name: "falls back to master on lookup failure",
			out:  "fatal: ref HEAD is not a symbolic ref\n",
			err:  fmt.Errorf("exit status 128"),
			want: "master",
		},
		{
			name: "falls back to master on empty output",
			out:  "\n",
			want: "master",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubGit(t, tt.out, tt.err)
			got := DefaultBranch(context.Background(), "/tmp/work")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPushDefaultBranch(t *testing.T) {
	calls := stubGit(t, "", nil)

	err := PushDefaultBranch(context.Background(), "/tmp/work",
		"git@gitlab.com:user/repo.git", "main", "mirror_main_20240101_120000", nil)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{
		"push", "git@gitlab.com:user/repo.git",
		"refs/heads/main:refs/heads/mirror_main_20240101_120000",
	}, (*calls)[0].args)
	assert.Equal(t, "/tmp/work", (*calls)[0].dir)
}

func TestPushFailuresCarryCategory(t *testing.T) {
	tests := []struct {
		name     string
		push     func(ctx context.Context) error
		category errors.PushCategory
	}{
		{
			name: "remap push",
			push: func(ctx context.Context) error {
				return PushDefaultBranch(ctx, "/w", "dest", "main", "mirror_main_x", nil)
			},
			category: errors.PushRemap,
		},
		{
			name: "all branches",
			push: func(ctx context.Context) error {
				return PushAllBranches(ctx, "/w", "dest", nil)
			},
			category: errors.PushBranches,
		},
		{
			name: "all tags",
			push: func(ctx context.Context) error {
				return PushAllTags(ctx, "/w", "dest", nil)
			},
			category: errors.PushTags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubGit(t, "error: failed to push some refs\n", fmt.Errorf("exit status 1"))

			err := tt.push(context.Background())
			var pushErr *errors.PushError
			require.ErrorAs(t, err, &pushErr)
			assert.Equal(t, tt.category, pushErr.Category)
			assert.False(t, errors.IsFatal(err))
		})
	}
}

func TestIsPartialPush(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "remote rejected ref",
			err: &errors.PushError{
				Category: errors.PushBranches,
				Output:   " ! [remote rejected] main -> main (protected branch hook declined)\n",
			},
			want: true,
		},
		{
			name: "local rejection",
			err: &errors.PushError{
				Category: errors.PushBranches,
				Output:   " ! [rejected] main -> main (non-fast-forward)\n",
			},
			want: true,
		},
		{
			name: "total failure",
			err: &errors.PushError{
				Category: errors.PushBranches,
				Output:   "fatal: unable to access remote\n",
			},
			want: false,
		},
		{
			name: "not a push error",
			err:  stderrors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPartialPush(tt.err))
		})
	}
}

func TestPushAllBranchesArgs(t *testing.T) {
	calls := stubGit(t, "", nil)

	require.NoError(t, PushAllBranches(context.Background(), "/tmp/work", "dest-url", nil))
	require.NoError(t, PushAllTags(context.Background(), "/tmp/work", "dest-url", nil))

	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"push", "dest-url", "--all"}, (*calls)[0].args)
	assert.Equal(t, []string{"push", "dest-url", "--tags"}, (*calls)[1].args)
}

func TestCredentialContextReachesInvocation(t *testing.T) {
	calls := stubGit(t, "", nil)

	creds, err := credentials.Install(credentials.Bundle{
		Host:     "github.com",
		Username: "alice",
		Secret:   "s3cret",
		Scheme:   urlutils.SchemeHTTPS,
	})
	require.NoError(t, err)
	defer creds.Remove()

	require.NoError(t, Probe(context.Background(), "https://github.com/user/repo.git", creds))

	require.Len(t, *calls, 1)
	assert.Same(t, creds, (*calls)[0].creds)
}
