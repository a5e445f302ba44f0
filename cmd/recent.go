package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/git-branches-go/internal/console"
	"github.com/thiagokokada/git-branches-go/internal/git"
	"github.com/thiagokokada/git-branches-go/internal/recent"
	"github.com/thiagokokada/git-branches-go/internal/watch"
)

var (
	recentAll      bool
	recentRemote   string
	recentDescribe bool
	recentWatch    bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List branches ordered by last commit time, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().BoolVarP(&recentAll, "all", "a", false, "also show remote branches")
	recentCmd.Flags().StringVarP(&recentRemote, "remote", "r", "", "only show branches of a given remote")
	recentCmd.Flags().BoolVarP(&recentDescribe, "describe", "d", false, "annotate branches with the nearest reachable tag")
	recentCmd.Flags().BoolVarP(&recentWatch, "watch", "w", false, "keep running and re-list when the repository changes")
}

func runRecent(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	opts := recent.Options{Scope: git.ScopeLocal, Describe: recentDescribe}
	if recentAll {
		opts.Scope = git.ScopeAll
	}
	if recentRemote != "" {
		opts.Scope = git.ScopeRemote
		opts.Prefix = recentRemote + "/"
	}

	render := func() error {
		entries, width, err := recent.List(svc, opts)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			console.Print("%s", formatRecentLine(entry, width))
		}
		return nil
	}

	if !recentWatch {
		return render()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch.Run(ctx, svc.RepoPath(), watch.DefaultDebounceDelay, func() {
		if err := render(); err != nil {
			console.Error("%v", err)
		}
	})
}

func formatRecentLine(entry recent.Entry, width int) string {
	marker := "  "
	if entry.Branch.IsHead {
		marker = "* "
	}
	line := fmt.Sprintf("%s%-*s(%s)", marker, width+2, entry.Branch.Name,
		entry.Branch.When.Local().Format("2006-01-02 15:04:05"))
	if entry.Annotation != "" {
		line += " " + entry.Annotation
	}
	return line
}
