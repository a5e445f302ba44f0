package git_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"

	"github.com/thiagokokada/git-branches-go/internal/ff"
	"github.com/thiagokokada/git-branches-go/internal/git"
	"github.com/thiagokokada/git-branches-go/internal/recent"
)

// The tests below run the resolution, classification and apply pipeline
// against real repositories instead of fakes.

func TestEndToEnd_FastForwardCheckedOutBranch(t *testing.T) {
	t.Parallel()

	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "file.txt", "one\n", "base", baseTime)
	createBranchAt(t, repo, "feature", c1)
	checkoutBranch(t, repo, "feature")
	c2 := commitFile(t, repo, dir, "file.txt", "two\n", "feature work", baseTime.Add(time.Hour))
	checkoutBranch(t, repo, "master")

	svc := openService(t, dir)

	// The feature branch has the newer tip, so it sorts first.
	entries, _, err := recent.List(svc, recent.Options{Scope: git.ScopeLocal})
	if err != nil {
		t.Fatalf("recent.List: %v", err)
	}
	if len(entries) != 2 || entries[0].Branch.Name != "feature" {
		t.Fatalf("unexpected recency order: %v", branchNames(entries))
	}
	if !entries[1].Branch.IsHead {
		t.Fatalf("master should carry the head marker: %+v", entries[1].Branch)
	}

	target, err := ff.ResolveTarget(svc, "feature")
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.Hash != c2.String() {
		t.Fatalf("target = %s, want %s", target.Hash, c2)
	}

	// No explicit branches: only the checked-out branch moves.
	outcomes, err := ff.Apply(svc, target, nil, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Branch.Name != "master" {
		t.Fatalf("expected head-only apply, got %+v", outcomes)
	}
	if !outcomes[0].Advanced || outcomes[0].Err != nil {
		t.Fatalf("master should fast-forward: %+v", outcomes[0])
	}

	if got := branchTip(t, repo, "master"); got != c2 {
		t.Fatalf("master tip = %s, want %s", got, c2)
	}
	if got := readWorktreeFile(t, dir, "file.txt"); got != "two\n" {
		t.Fatalf("worktree not synced, content = %q", got)
	}
	// Still attached to master after the advance.
	_, name, ok, err := svc.HeadState()
	if err != nil || !ok || name != "master" {
		t.Fatalf("head state after apply: %s %v %v", name, ok, err)
	}
}

func TestEndToEnd_NonCommitTagTargetTouchesNothing(t *testing.T) {
	t.Parallel()

	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "file.txt", "one\n", "base", baseTime)
	commit, err := repo.CommitObject(c1)
	if err != nil {
		t.Fatalf("commit object: %v", err)
	}
	_, err = repo.CreateTag("snapshot", commit.TreeHash, &gitlib.CreateTagOptions{
		Tagger:  testSignature(baseTime.Add(time.Hour)),
		Message: "tree snapshot",
	})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	svc := openService(t, dir)
	_, err = ff.ResolveTarget(svc, "snapshot")
	if !errors.Is(err, ff.ErrUnresolvedTarget) {
		t.Fatalf("expected ErrUnresolvedTarget, got %v", err)
	}
	if got := branchTip(t, repo, "master"); got != c1 {
		t.Fatalf("failed resolution must not move anything, tip = %s", got)
	}
}

func TestEndToEnd_ConflictOnOneBranchDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	repo, dir := initTestRepo(t)
	c1 := commitFile(t, repo, dir, "file.txt", "one\n", "base", baseTime)
	c2 := commitFile(t, repo, dir, "file.txt", "two\n", "ahead", baseTime.Add(time.Hour))
	createBranchAt(t, repo, "a", c1)
	createBranchAt(t, repo, "b", c1)
	checkoutBranch(t, repo, "a")

	// Dirty the checked-out branch on the path the target changes.
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("local edit\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc := openService(t, dir)
	target, err := ff.ResolveTarget(svc, c2.String())
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}

	names := map[string]struct{}{"a": {}, "b": {}}
	outcomes, err := ff.Apply(svc, target, names, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected both branches processed, got %+v", outcomes)
	}

	byName := map[string]ff.Outcome{}
	for _, outcome := range outcomes {
		byName[outcome.Branch.Name] = outcome
	}

	var conflict *git.ConflictError
	if !errors.As(byName["a"].Err, &conflict) {
		t.Fatalf("expected conflict on a, got %v", byName["a"].Err)
	}
	if got := branchTip(t, repo, "a"); got != c1 {
		t.Fatalf("conflicted branch moved to %s", got)
	}
	if got := readWorktreeFile(t, dir, "file.txt"); got != "local edit\n" {
		t.Fatalf("local edit lost: %q", got)
	}

	if !byName["b"].Advanced || byName["b"].Err != nil {
		t.Fatalf("b should advance regardless of a: %+v", byName["b"])
	}
	if got := branchTip(t, repo, "b"); got != c2 {
		t.Fatalf("b tip = %s, want %s", got, c2)
	}
}

func branchNames(entries []recent.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Branch.Name)
	}
	return names
}
