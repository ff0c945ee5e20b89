package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes a command in the specified directory with a
// hermetic git environment.
func runCommand(dir string, command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null", // Ignore global config
		"GIT_CONFIG_SYSTEM=/dev/null", // Ignore system config
	)
	return cmd.Run()
}

// gitOutput runs git in dir and returns its trimmed stdout, failing the
// test on error.
func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_SYSTEM=/dev/null",
	)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

// RequireGit skips the test when no git binary is available.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// SetupSourceRepo creates a repository with a main branch, a feature
// branch and a tag, ready to be mirrored.
func SetupSourceRepo(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "source")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}

	if err := runCommand(dir, "git", "init", "-b", "main"); err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}

	commands := [][]string{
		{"config", "user.name", "test"},
		{"config", "user.email", "test@example.com"},
	}
	for _, args := range commands {
		if err := runCommand(dir, "git", args...); err != nil {
			t.Fatalf("Failed to configure git %v: %v", args, err)
		}
	}

	AddCommit(t, dir, "README.md", "mirror me", "Initial commit")

	if err := runCommand(dir, "git", "branch", "feature", "main"); err != nil {
		t.Fatalf("Failed to create feature branch: %v", err)
	}
	if err := runCommand(dir, "git", "tag", "v1.0.0"); err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}

	return dir
}

// SetupBareRepo creates an empty bare repository that can act as a push
// destination.
func SetupBareRepo(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "destination.git")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create destination directory: %v", err)
	}
	if err := runCommand(dir, "git", "init", "--bare", "-b", "main"); err != nil {
		t.Fatalf("Failed to initialize bare repo: %v", err)
	}

	return dir
}

// InstallRejectHook installs an update hook in a bare repository that
// rejects pushes to the given branch, simulating destination-side branch
// protection.
func InstallRejectHook(t *testing.T, bareDir, branch string) {
	t.Helper()

	hook := filepath.Join(bareDir, "hooks", "update")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"refs/heads/" + branch + "\" ]; then\n" +
		"  echo \"branch " + branch + " is protected\" >&2\n" +
		"  exit 1\n" +
		"fi\n" +
		"exit 0\n"
	if err := os.WriteFile(hook, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to install update hook: %v", err)
	}
}

// AddCommit creates a new commit in the repository.
func AddCommit(t *testing.T, repoPath, fileName, content, message string) {
	t.Helper()

	filePath := filepath.Join(repoPath, fileName)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := runCommand(repoPath, "git", "add", fileName); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	if err := runCommand(repoPath, "git", "commit", "-m", message); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

// ListRefs returns all refs in a repository, one full ref name per line.
func ListRefs(t *testing.T, dir string) string {
	t.Helper()
	return gitOutput(t, dir, "for-each-ref", "--format=%(refname)")
}
