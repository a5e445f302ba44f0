// Package ff classifies branches against a fast-forward target and applies
// pointer advances. Fatal failures (unresolvable target, repository access)
// propagate as errors; anything that only affects a single branch travels
// inside an Outcome so the remaining branches still get processed.
package ff

import (
	"errors"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// Classification is the per-branch verdict against the resolved target.
type Classification uint8

const (
	// AlreadyUpToDate means the branch tip equals the target.
	AlreadyUpToDate Classification = iota
	// FastForwardable means the target is strictly ahead of the branch tip
	// along the same line of history.
	FastForwardable
	// Diverged means the branch has commits not reachable from the target;
	// advancing the pointer would discard work.
	Diverged
)

func (c Classification) String() string {
	switch c {
	case AlreadyUpToDate:
		return "up-to-date"
	case FastForwardable:
		return "fast-forwardable"
	case Diverged:
		return "diverged"
	}
	return "unknown"
}

// ErrUnresolvedTarget means the supplied identifier matches no commit, branch
// or tag. Fatal: without a target there is nothing to classify.
var ErrUnresolvedTarget = errors.New("cannot resolve target")

// Target is the result of resolving a user-supplied identifier. Once
// resolved it is immutable for the rest of the invocation, even if the
// repository changes underneath.
type Target struct {
	Hash string
	Spec string // original input, kept for user-facing messages
}

// Outcome is the per-branch result of a list or apply pass. Err carries
// recoverable per-branch failures (checkout conflict, stale reference update);
// it never aborts the run.
type Outcome struct {
	Branch   git.Branch
	Class    Classification
	Advanced bool
	Err      error
}
