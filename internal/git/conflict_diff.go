package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

// ConflictDiff renders a unified diff between the incoming tree and the local
// working copy for each conflicting path, so the user can see what the
// fast-forward would have overwritten.
func (s *Service) ConflictDiff(hash string, paths []string) (string, error) {
	commit, err := s.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", fmt.Errorf("lookup commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("lookup tree %s: %w", hash, err)
	}

	var b strings.Builder
	for _, path := range paths {
		incoming, err := treeFileLines(tree, path)
		if err != nil {
			return "", err
		}
		local, err := diskFileLines(s.repo.path, path)
		if err != nil {
			return "", err
		}
		ud := difflib.UnifiedDiff{
			A:        incoming,
			B:        local,
			FromFile: fmt.Sprintf("incoming/%s", path),
			ToFile:   fmt.Sprintf("local/%s", path),
			Context:  3,
		}
		diffText, err := difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return "", err
		}
		if diffText == "" {
			continue
		}
		b.WriteString(diffText)
		if !strings.HasSuffix(diffText, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func treeFileLines(tree *object.Tree, path string) ([]string, error) {
	f, err := tree.File(path)
	if err == object.ErrFileNotFound {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(content), nil
}

func diskFileLines(root, path string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return difflib.SplitLines(string(data)), nil
}
