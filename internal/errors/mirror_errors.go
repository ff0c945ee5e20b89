package errors

import "fmt"

// PushCategory identifies one of the three independent push attempts a
// mirror run performs against the destination.
type PushCategory string

const (
	PushRemap    PushCategory = "default-branch-remap"
	PushBranches PushCategory = "all-branches"
	PushTags     PushCategory = "all-tags"
)

// InvalidURLError indicates a repository URL that matches no supported
// shape. Always fatal.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid repository URL %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// UnreachableError indicates a remote repository that could not be listed,
// either because it does not exist or because authorization failed. Always
// fatal.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("repository %q is not reachable: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// CloneError indicates that the mirror clone of the source failed. Always
// fatal.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("mirror clone of %q failed: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// PushError indicates that one push category against the destination
// failed or only partially succeeded. Never fatal: the remaining
// categories are still attempted.
type PushError struct {
	Category PushCategory
	ExitCode int
	Output   string
	Err      error
}

func (e *PushError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("push (%s) failed with exit code %d: %v", e.Category, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("push (%s) failed: %v", e.Category, e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }
