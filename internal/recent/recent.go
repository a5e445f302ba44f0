// Package recent produces the branch-by-recency listing.
package recent

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/thiagokokada/git-branches-go/internal/git"
)

// Entry pairs a branch with its optional describe annotation.
type Entry struct {
	Branch     git.Branch
	Annotation string
}

// Options selects the namespaces to enumerate and the output decorations.
type Options struct {
	Scope git.Scope
	// Prefix restricts the listing to branches under "<remote>/". Applied
	// after width accounting, see List.
	Prefix   string
	Describe bool
}

// List enumerates branches and orders them newest-first by tip commit time.
// Ties keep the enumeration order, so re-running on unchanged input is stable.
//
// The returned width is the longest name over ALL enumerated branches, not
// just the ones passing the prefix filter. Column widths therefore stay put
// when the filter changes.
func List(b git.Backend, opts Options) (entries []Entry, width int, err error) {
	branches, err := b.Branches(opts.Scope)
	if err != nil {
		return nil, 0, err
	}

	width = lo.Max(lo.Map(branches, func(branch git.Branch, _ int) int {
		return len(branch.Name)
	}))

	if opts.Prefix != "" {
		branches = lo.Filter(branches, func(branch git.Branch, _ int) bool {
			return strings.HasPrefix(branch.Name, opts.Prefix)
		})
	}

	sort.SliceStable(branches, func(i, j int) bool {
		return branches[i].When.After(branches[j].When)
	})

	entries = make([]Entry, 0, len(branches))
	for _, branch := range branches {
		entry := Entry{Branch: branch}
		if opts.Describe {
			annotation, err := b.DescribeCommit(branch.Tip)
			if err != nil {
				// Decoration only: a branch that cannot be annotated is
				// shown bare.
				slog.Debug("describe failed",
					slog.String("branch", branch.Name),
					slog.Any("error", err),
				)
			} else {
				entry.Annotation = annotation
			}
		}
		entries = append(entries, entry)
	}
	return entries, width, nil
}
