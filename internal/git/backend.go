package git

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Scope selects which part of the branch namespace to enumerate.
type Scope uint8

const (
	ScopeLocal Scope = iota
	ScopeRemote
	ScopeAll
)

// Branch is a named pointer into the reference namespace. Local names and
// "remote/name" pairs are distinct namespaces; Name is always the short form.
type Branch struct {
	Name   string
	IsHead bool
	Tip    string
	When   time.Time
}

var (
	// ErrNotFound is returned by lookups when the named object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTagNotCommit is returned when a tag resolves to a tree or blob.
	ErrTagNotCommit = errors.New("tag does not point to a commit")
)

// ConflictError reports a working-tree update blocked by local changes.
// It is recoverable per branch: the caller skips the branch and continues.
type ConflictError struct {
	Paths []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("checkout conflict: %s", strings.Join(e.Paths, ", "))
}

// Backend abstracts access to repository data.
//
// The default implementation uses go-git, but the interface allows alternative
// implementations (e.g. an in-memory fake in tests) without changing the
// packages that consume it.
type Backend interface {
	RepoPath() string

	// ResolveCommit parses text as a full commit id and verifies the commit
	// exists. Returns ErrNotFound for anything else.
	ResolveCommit(text string) (string, error)
	// LookupBranch finds a branch by short name in the given namespace.
	LookupBranch(name string, scope Scope) (Branch, error)
	// FindTagTarget finds a tag by short name and dereferences annotated tags
	// to the commit they ultimately point to. A tag whose target is not a
	// commit yields ErrTagNotCommit.
	FindTagTarget(name string) (string, error)

	// Branches enumerates the requested namespaces fresh on every call.
	// Branches whose tip cannot be resolved to a commit are skipped with a
	// warning, not an error.
	Branches(scope Scope) ([]Branch, error)
	HeadState() (hash string, name string, ok bool, err error)

	// MergeBase returns the common ancestor of a and b, or "" when the
	// histories are unrelated.
	MergeBase(a, b string) (string, error)

	// CheckoutTree updates the working tree and index to match the given
	// commit, keeping local changes that do not collide with it. Collisions
	// yield a *ConflictError and leave everything untouched.
	CheckoutTree(hash string) error
	// SetBranchTip compare-and-sets a local branch reference from old to new.
	SetBranchTip(name, old, new string) error

	// DescribeCommit returns a human-readable annotation for a commit based
	// on the nearest reachable tag. Best effort: ErrNotFound when no tag is
	// reachable.
	DescribeCommit(hash string) (string, error)
}
