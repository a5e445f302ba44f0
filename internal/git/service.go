package git

import (
	"fmt"
	"log/slog"
	"path/filepath"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Service implements Backend on top of a real repository.
type Service struct {
	repo repoState

	// Warn receives one line per skipped branch during enumeration.
	Warn func(format string, args ...any)
}

type repoState struct {
	*gitlib.Repository
	path string
}

func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	// DetectDotGit allows opening from a subdirectory of the worktree, but
	// status and conflict paths are relative to the worktree root. Store the
	// root, not the argument, so path-based lookups and the watch paths stay
	// correct. Bare repositories have no worktree and keep the argument.
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &Service{repo: repoState{path: root, Repository: repo}}, nil
}

func (s *Service) RepoPath() string {
	return s.repo.path
}

func (s *Service) warnf(format string, args ...any) {
	if s.Warn != nil {
		s.Warn(format, args...)
		return
	}
	slog.Warn(fmt.Sprintf(format, args...))
}

// HeadState reports the current HEAD commit and, when HEAD is attached, the
// short branch name.
func (s *Service) HeadState() (hash string, name string, ok bool, err error) {
	ref, err := s.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			// Unborn HEAD (fresh repository).
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	if ref.Name().IsBranch() {
		name = ref.Name().Short()
	}
	return ref.Hash().String(), name, true, nil
}

// headTargetName returns the reference HEAD points at symbolically, or "" when
// HEAD is detached or unborn.
func (s *Service) headTargetName() plumbing.ReferenceName {
	ref, err := s.repo.Storer.Reference(plumbing.HEAD)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return ""
	}
	return ref.Target()
}
