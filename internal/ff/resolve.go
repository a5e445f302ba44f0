package ff

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// resolveStep is one strategy in the resolution chain. Each returns the commit
// hash, git.ErrNotFound to let the next strategy run, or any other error to
// abort resolution.
type resolveStep struct {
	name    string
	resolve func(b git.Backend, spec string) (string, error)
}

// resolveOrder is a semantic contract, not an optimization: a commit-id-shaped
// string always resolves as a commit id even when a branch of the same name
// exists, and a name carried by both a local and a remote branch resolves to
// the local one.
var resolveOrder = []resolveStep{
	{"commit id", func(b git.Backend, spec string) (string, error) {
		return b.ResolveCommit(spec)
	}},
	{"local branch", func(b git.Backend, spec string) (string, error) {
		branch, err := b.LookupBranch(spec, git.ScopeLocal)
		if err != nil {
			return "", err
		}
		return branch.Tip, nil
	}},
	{"remote branch", func(b git.Backend, spec string) (string, error) {
		branch, err := b.LookupBranch(spec, git.ScopeRemote)
		if err != nil {
			return "", err
		}
		return branch.Tip, nil
	}},
	{"tag", func(b git.Backend, spec string) (string, error) {
		return b.FindTagTarget(spec)
	}},
}

// ResolveTarget turns a free-form identifier into a concrete commit, trying
// each strategy in order and stopping at the first match.
func ResolveTarget(b git.Backend, spec string) (Target, error) {
	for _, step := range resolveOrder {
		hash, err := step.resolve(b, spec)
		if err == nil {
			slog.Debug("target resolved",
				slog.String("spec", spec),
				slog.String("via", step.name),
				slog.String("hash", hash),
			)
			return Target{Hash: hash, Spec: spec}, nil
		}
		if errors.Is(err, git.ErrNotFound) {
			continue
		}
		if errors.Is(err, git.ErrTagNotCommit) {
			return Target{}, fmt.Errorf("%w %q: %v", ErrUnresolvedTarget, spec, err)
		}
		return Target{}, fmt.Errorf("resolve %q as %s: %w", spec, step.name, err)
	}
	return Target{}, fmt.Errorf("%w %q", ErrUnresolvedTarget, spec)
}
