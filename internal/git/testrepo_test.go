package git_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// initTestRepo creates a repository in a temp dir with go-git so the tests
// need no git binary on PATH.
func initTestRepo(t *testing.T) (*gitlib.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, dir
}

func openService(t *testing.T, dir string) *git.Service {
	t.Helper()
	svc, err := git.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return svc
}

func testSignature(when time.Time) *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@example.com", When: when}
}

// commitFile writes a file, stages it and commits, returning the new hash.
func commitFile(t *testing.T, repo *gitlib.Repository, dir, name, content, msg string, when time.Time) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit(msg, &gitlib.CommitOptions{
		Author:    testSignature(when),
		Committer: testSignature(when),
	})
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
	return hash
}

// createBranchAt points a new local branch at the given commit without
// switching to it.
func createBranchAt(t *testing.T, repo *gitlib.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("create branch %s: %v", name, err)
	}
}

func checkoutBranch(t *testing.T, repo *gitlib.Repository, name string) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	err = wt.Checkout(&gitlib.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)})
	if err != nil {
		t.Fatalf("checkout %s: %v", name, err)
	}
}

func branchTip(t *testing.T, repo *gitlib.Repository, name string) plumbing.Hash {
	t.Helper()
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		t.Fatalf("reference %s: %v", name, err)
	}
	return ref.Hash()
}

func findBranch(t *testing.T, branches []git.Branch, name string) git.Branch {
	t.Helper()
	for _, branch := range branches {
		if branch.Name == name {
			return branch
		}
	}
	t.Fatalf("branch %s not found in %+v", name, branches)
	return git.Branch{}
}
