package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/git-branches-go/internal/buildinfo"
	"github.com/thiagokokada/git-branches-go/internal/console"
	"github.com/thiagokokada/git-branches-go/internal/git"
)

var (
	flagRepoPath string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "git-branches",
	Short:         "List branches by recency and fast-forward them safely",
	Version:       buildinfo.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRepoPath, "repo", "C", ".", "path to the repository (.git is searched upwards)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose logging")
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(ffCmd)
}

func openService() (*git.Service, error) {
	svc, err := git.Open(flagRepoPath)
	if err != nil {
		return nil, err
	}
	svc.Warn = console.Warning
	return svc, nil
}
