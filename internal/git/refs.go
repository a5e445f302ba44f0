package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// isCommitID reports whether text is a syntactically valid full commit id.
// Abbreviated ids are rejected so short hex-looking names fall through to the
// branch and tag lookups.
func isCommitID(text string) bool {
	if len(text) != 40 {
		return false
	}
	for _, c := range text {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func (s *Service) ResolveCommit(text string) (string, error) {
	if !isCommitID(text) {
		return "", fmt.Errorf("%q is not a commit id: %w", text, ErrNotFound)
	}
	hash := plumbing.NewHash(strings.ToLower(text))
	if _, err := s.repo.CommitObject(hash); err != nil {
		return "", fmt.Errorf("commit %s: %w", text, ErrNotFound)
	}
	return hash.String(), nil
}

func (s *Service) LookupBranch(name string, scope Scope) (Branch, error) {
	var refName plumbing.ReferenceName
	switch scope {
	case ScopeLocal:
		refName = plumbing.NewBranchReferenceName(name)
	case ScopeRemote:
		refName = plumbing.ReferenceName("refs/remotes/" + name)
	default:
		return Branch{}, fmt.Errorf("branch lookup needs a single namespace")
	}
	ref, err := s.repo.Reference(refName, true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return Branch{}, fmt.Errorf("branch %s: %w", name, ErrNotFound)
		}
		return Branch{}, fmt.Errorf("lookup branch %s: %w", name, err)
	}
	return Branch{
		Name:   name,
		IsHead: ref.Name() == s.headTargetName(),
		Tip:    ref.Hash().String(),
	}, nil
}

func (s *Service) FindTagTarget(name string) (string, error) {
	tags, err := s.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("iterate tags: %w", err)
	}
	defer tags.Close()

	var target string
	found := false
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().Short() != name {
			return nil
		}
		found = true
		hash, peelErr := s.peelTagCommit(ref.Hash())
		if peelErr != nil {
			return fmt.Errorf("tag %s: %w", name, peelErr)
		}
		target = hash.String()
		return storer.ErrStop
	})
	if err != nil && err != storer.ErrStop {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("tag %s: %w", name, ErrNotFound)
	}
	return target, nil
}

// peelTagCommit resolves a tag reference hash to the commit it points at.
// Lightweight tags point directly at a commit; annotated tags point at a tag
// object that needs dereferencing, possibly through nested tag objects.
func (s *Service) peelTagCommit(hash plumbing.Hash) (plumbing.Hash, error) {
	if _, err := s.repo.CommitObject(hash); err == nil {
		return hash, nil
	}
	cur := hash
	for i := 0; i < 8; i++ {
		tag, err := s.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, ErrTagNotCommit
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, nil
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, ErrTagNotCommit
		}
	}
	return plumbing.ZeroHash, ErrTagNotCommit
}

// Branches enumerates the branch namespace fresh on every call. Branches whose
// reference cannot be resolved to a commit are skipped with a warning.
func (s *Service) Branches(scope Scope) ([]Branch, error) {
	headTarget := s.headTargetName()
	var out []Branch

	appendRef := func(name string, ref *plumbing.Reference) {
		commit, err := s.repo.CommitObject(ref.Hash())
		if err != nil {
			s.warnf("can't get commit for branch %s, skipping", name)
			return
		}
		out = append(out, Branch{
			Name:   name,
			IsHead: ref.Name() == headTarget,
			Tip:    ref.Hash().String(),
			When:   commit.Committer.When,
		})
	}

	if scope == ScopeLocal || scope == ScopeAll {
		iter, err := s.repo.Branches()
		if err != nil {
			return nil, fmt.Errorf("iterate branches: %w", err)
		}
		err = iter.ForEach(func(ref *plumbing.Reference) error {
			appendRef(ref.Name().Short(), ref)
			return nil
		})
		iter.Close()
		if err != nil {
			return nil, err
		}
	}
	if scope == ScopeRemote || scope == ScopeAll {
		refs, err := s.repo.References()
		if err != nil {
			return nil, fmt.Errorf("iterate references: %w", err)
		}
		err = refs.ForEach(func(ref *plumbing.Reference) error {
			if ref.Type() != plumbing.HashReference || !ref.Name().IsRemote() {
				return nil
			}
			short := ref.Name().Short()
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			appendRef(short, ref)
			return nil
		})
		refs.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) MergeBase(a, b string) (string, error) {
	commitA, err := s.repo.CommitObject(plumbing.NewHash(a))
	if err != nil {
		return "", fmt.Errorf("lookup commit %s: %w", a, err)
	}
	commitB, err := s.repo.CommitObject(plumbing.NewHash(b))
	if err != nil {
		return "", fmt.Errorf("lookup commit %s: %w", b, err)
	}
	bases, err := commitA.MergeBase(commitB)
	if err != nil {
		return "", fmt.Errorf("merge base %s %s: %w", a, b, err)
	}
	if len(bases) == 0 {
		// Unrelated histories.
		return "", nil
	}
	return bases[0].Hash.String(), nil
}

// SetBranchTip rewrites a local branch reference, guarding against concurrent
// modification: the update fails when the stored tip no longer equals old.
func (s *Service) SetBranchTip(name, old, new string) error {
	refName := plumbing.NewBranchReferenceName(name)
	newRef := plumbing.NewHashReference(refName, plumbing.NewHash(new))
	var oldRef *plumbing.Reference
	if old != "" {
		oldRef = plumbing.NewHashReference(refName, plumbing.NewHash(old))
	}
	if err := s.repo.Storer.CheckAndSetReference(newRef, oldRef); err != nil {
		return fmt.Errorf("update branch %s: %w", name, err)
	}
	return nil
}
