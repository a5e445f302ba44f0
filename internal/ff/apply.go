package ff

import (
	"fmt"
	"log/slog"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// ProgressFunc is called once per processed branch with the number of branches
// done so far and the total. Purely informational.
type ProgressFunc func(done, total int)

// selectBranches enumerates local branches and applies the explicit-name-set
// filter. An empty set means no restriction in list mode and head-only in
// apply mode; headOnly carries that disambiguation.
func selectBranches(b git.Backend, names map[string]struct{}, headOnly bool) ([]git.Branch, error) {
	branches, err := b.Branches(git.ScopeLocal)
	if err != nil {
		return nil, err
	}
	var out []git.Branch
	for _, branch := range branches {
		if headOnly && !branch.IsHead {
			continue
		}
		if len(names) > 0 {
			if _, ok := names[branch.Name]; !ok {
				continue
			}
		}
		out = append(out, branch)
	}
	return out, nil
}

// List classifies every selected branch against the target without mutating
// anything.
func List(b git.Backend, target Target, names map[string]struct{}) ([]Outcome, error) {
	branches, err := selectBranches(b, names, false)
	if err != nil {
		return nil, err
	}
	outcomes := make([]Outcome, 0, len(branches))
	for _, branch := range branches {
		class, err := Classify(b, branch.Tip, target)
		outcomes = append(outcomes, Outcome{Branch: branch, Class: class, Err: err})
	}
	return outcomes, nil
}

// Apply advances every selected fast-forwardable branch to the target. The
// working tree is only ever touched for the branch that is actually checked
// out, and its reference is rewritten strictly after a successful working-tree
// sync. Per-branch failures are recorded in the outcome and never stop the
// remaining branches.
func Apply(b git.Backend, target Target, names map[string]struct{}, progress ProgressFunc) ([]Outcome, error) {
	headOnly := len(names) == 0
	branches, err := selectBranches(b, names, headOnly)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(branches))
	for i, branch := range branches {
		outcomes = append(outcomes, applyOne(b, target, branch))
		if progress != nil {
			progress(i+1, len(branches))
		}
	}
	return outcomes, nil
}

// EmptySelectionReason explains why a head-only apply selected no branch:
// an unborn repository or a detached HEAD. Empty when neither applies or the
// head state cannot be read.
func EmptySelectionReason(b git.Backend) string {
	_, name, ok, err := b.HeadState()
	switch {
	case err != nil:
		return ""
	case !ok:
		return "repository has no commits yet"
	case name == "":
		return "HEAD is detached"
	}
	return ""
}

func applyOne(b git.Backend, target Target, branch git.Branch) Outcome {
	out := Outcome{Branch: branch}

	out.Class, out.Err = Classify(b, branch.Tip, target)
	if out.Err != nil {
		out.Err = fmt.Errorf("classify %s: %w", branch.Name, out.Err)
		return out
	}
	if out.Class != FastForwardable {
		return out
	}

	if branch.IsHead {
		if err := b.CheckoutTree(target.Hash); err != nil {
			out.Err = err
			return out
		}
	}
	if err := b.SetBranchTip(branch.Name, branch.Tip, target.Hash); err != nil {
		out.Err = err
		return out
	}
	slog.Debug("branch advanced",
		slog.String("branch", branch.Name),
		slog.String("from", branch.Tip),
		slog.String("to", target.Hash),
	)
	out.Advanced = true
	return out
}
