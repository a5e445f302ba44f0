package ff

import "github.com/thiagokokada/git-branches-go/internal/git"

// Classify decides how a branch tip relates to the target commit.
//
// The equality check must run before the merge-base check: a tip identical to
// the target is its own merge base and would otherwise look fast-forwardable,
// producing a meaningless advance to self.
func Classify(b git.Backend, tip string, target Target) (Classification, error) {
	if tip == target.Hash {
		return AlreadyUpToDate, nil
	}
	base, err := b.MergeBase(tip, target.Hash)
	if err != nil {
		return Diverged, err
	}
	if base == tip {
		return FastForwardable, nil
	}
	return Diverged, nil
}
