package git

import (
	"fmt"
	"log/slog"
	"sort"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CheckoutTree updates the working tree and index to match the given commit.
// Local changes that do not collide with the incoming tree are kept; colliding
// paths abort the whole update with a *ConflictError before anything is
// touched. HEAD keeps pointing at whatever it pointed at before: advancing the
// branch reference is the caller's job and happens strictly afterwards.
func (s *Service) CheckoutTree(hash string) error {
	target := plumbing.NewHash(hash)
	commit, err := s.repo.CommitObject(target)
	if err != nil {
		return fmt.Errorf("lookup commit %s: %w", hash, err)
	}
	targetTree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("lookup tree %s: %w", hash, err)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("worktree status: %w", err)
	}

	touched, err := s.pathsTouchedBy(targetTree)
	if err != nil {
		return err
	}
	if conflicts := conflictingPaths(status, touched); len(conflicts) > 0 {
		return &ConflictError{Paths: conflicts}
	}

	prevHead, err := s.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("read HEAD: %w", err)
	}
	// Keep leaves local modifications alone; the conflict check above already
	// guaranteed none of them collide with the incoming tree.
	if err := wt.Checkout(&gitlib.CheckoutOptions{Hash: target, Keep: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", hash, err)
	}
	// Checkout by hash detaches HEAD; restore the symbolic reference so only
	// the working tree and index moved.
	if prevHead.Type() == plumbing.SymbolicReference {
		restored := plumbing.NewSymbolicReference(plumbing.HEAD, prevHead.Target())
		if err := s.repo.Storer.SetReference(restored); err != nil {
			return fmt.Errorf("restore HEAD: %w", err)
		}
	}
	slog.Debug("worktree updated", slog.String("target", hash))
	return nil
}

// pathsTouchedBy returns the set of paths that differ between the current HEAD
// tree and the target tree. On an unborn HEAD every path of the target tree
// counts.
func (s *Service) pathsTouchedBy(targetTree *object.Tree) (map[string]struct{}, error) {
	touched := map[string]struct{}{}

	headTree, err := s.headTree()
	if err != nil {
		return nil, err
	}
	if headTree == nil {
		files := targetTree.Files()
		defer files.Close()
		err := files.ForEach(func(f *object.File) error {
			touched[f.Name] = struct{}{}
			return nil
		})
		return touched, err
	}

	changes, err := headTree.Diff(targetTree)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	for _, change := range changes {
		if change.From.Name != "" {
			touched[change.From.Name] = struct{}{}
		}
		if change.To.Name != "" {
			touched[change.To.Name] = struct{}{}
		}
	}
	return touched, nil
}

func (s *Service) headTree() (*object.Tree, error) {
	ref, err := s.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD tree: %w", err)
	}
	return tree, nil
}

// conflictingPaths intersects locally changed paths with the paths the
// incoming tree wants to touch.
func conflictingPaths(status gitlib.Status, touched map[string]struct{}) []string {
	var conflicts []string
	for path, st := range status {
		if _, ok := touched[path]; !ok {
			continue
		}
		dirty := st.Staging != gitlib.Unmodified && st.Staging != gitlib.Untracked ||
			st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked
		// An untracked file collides when the incoming tree wants to create
		// or change a file at the same path.
		untracked := st.Staging == gitlib.Untracked || st.Worktree == gitlib.Untracked
		if dirty || untracked {
			conflicts = append(conflicts, path)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}
