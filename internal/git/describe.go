package git

import (
	"fmt"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// describeMaxWalk bounds the history walk so annotating a branch far away from
// any tag stays cheap.
const describeMaxWalk = 256

// DescribeCommit annotates a commit with the nearest tag reachable from it,
// in the same spirit as git-describe: the bare tag name when the commit is
// tagged, "tag-N-gHASH" when the tag is N commits behind. ErrNotFound when no
// tag is reachable within the walk limit.
func (s *Service) DescribeCommit(hash string) (string, error) {
	tagged, err := s.taggedCommits()
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", fmt.Errorf("no tags: %w", ErrNotFound)
	}

	from := plumbing.NewHash(hash)
	iter, err := s.repo.Log(&gitlib.LogOptions{From: from})
	if err != nil {
		return "", fmt.Errorf("walk from %s: %w", hash, err)
	}
	defer iter.Close()

	for distance := 0; distance < describeMaxWalk; distance++ {
		commit, err := iter.Next()
		if err != nil {
			break
		}
		name, ok := tagged[commit.Hash.String()]
		if !ok {
			continue
		}
		if distance == 0 {
			return name, nil
		}
		return fmt.Sprintf("%s-%d-g%s", name, distance, hash[:7]), nil
	}
	return "", fmt.Errorf("no tag reachable from %s: %w", hash, ErrNotFound)
}

// taggedCommits maps commit hashes to the short name of a tag pointing at
// them. Tags that do not peel to a commit are ignored here: this feeds a
// best-effort decoration, not target resolution.
func (s *Service) taggedCommits() (map[string]string, error) {
	tags, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	defer tags.Close()

	tagged := map[string]string{}
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash, err := s.peelTagCommit(ref.Hash())
		if err != nil {
			return nil
		}
		tagged[hash.String()] = ref.Name().Short()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tagged, nil
}
