package ff

import (
	"errors"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// fakeBackend implements git.Backend for tests. Lookup-style methods default
// to git.ErrNotFound so resolution falls through; mutating methods default to
// an "unexpected call" error so tests fail loudly when the executor touches
// something it should not.
type fakeBackend struct {
	repoPath string

	resolveCommitFunc func(text string) (string, error)
	lookupBranchFunc  func(name string, scope git.Scope) (git.Branch, error)
	findTagTargetFunc func(name string) (string, error)
	branchesFunc      func(scope git.Scope) ([]git.Branch, error)
	headStateFunc     func() (string, string, bool, error)
	mergeBaseFunc     func(a, b string) (string, error)
	checkoutTreeFunc  func(hash string) error
	setBranchTipFunc  func(name, old, new string) error
	describeFunc      func(hash string) (string, error)

	resolveCalls  []string
	lookupCalls   []string
	tagCalls      []string
	checkoutCalls []string
	tipWrites     [][3]string
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) ResolveCommit(text string) (string, error) {
	f.resolveCalls = append(f.resolveCalls, text)
	if f.resolveCommitFunc != nil {
		return f.resolveCommitFunc(text)
	}
	return "", git.ErrNotFound
}

func (f *fakeBackend) LookupBranch(name string, scope git.Scope) (git.Branch, error) {
	f.lookupCalls = append(f.lookupCalls, name)
	if f.lookupBranchFunc != nil {
		return f.lookupBranchFunc(name, scope)
	}
	return git.Branch{}, git.ErrNotFound
}

func (f *fakeBackend) FindTagTarget(name string) (string, error) {
	f.tagCalls = append(f.tagCalls, name)
	if f.findTagTargetFunc != nil {
		return f.findTagTargetFunc(name)
	}
	return "", git.ErrNotFound
}

func (f *fakeBackend) Branches(scope git.Scope) ([]git.Branch, error) {
	if f.branchesFunc != nil {
		return f.branchesFunc(scope)
	}
	return nil, errors.New("unexpected Branches call")
}

func (f *fakeBackend) HeadState() (string, string, bool, error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) MergeBase(a, b string) (string, error) {
	if f.mergeBaseFunc != nil {
		return f.mergeBaseFunc(a, b)
	}
	return "", errors.New("unexpected MergeBase call")
}

func (f *fakeBackend) CheckoutTree(hash string) error {
	f.checkoutCalls = append(f.checkoutCalls, hash)
	if f.checkoutTreeFunc != nil {
		return f.checkoutTreeFunc(hash)
	}
	return errors.New("unexpected CheckoutTree call")
}

func (f *fakeBackend) SetBranchTip(name, old, new string) error {
	f.tipWrites = append(f.tipWrites, [3]string{name, old, new})
	if f.setBranchTipFunc != nil {
		return f.setBranchTipFunc(name, old, new)
	}
	return errors.New("unexpected SetBranchTip call")
}

func (f *fakeBackend) DescribeCommit(hash string) (string, error) {
	if f.describeFunc != nil {
		return f.describeFunc(hash)
	}
	return "", errors.New("unexpected DescribeCommit call")
}
