package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/thiagokokada/git-branches-go/internal/console"
	"github.com/thiagokokada/git-branches-go/internal/ff"
	"github.com/thiagokokada/git-branches-go/internal/git"
)

var (
	ffList   bool
	ffOnly   bool
	ffNot    bool
	ffStrict bool
)

var ffCmd = &cobra.Command{
	Use:   "ff [flags] [<branches>...] <target>",
	Short: "Fast-forward branches to a commit, branch, or tag",
	Long: `Fast-forward local branches to a target, which is resolved in order as a
commit id, a local branch, a remote branch, or a tag. Without explicit
branches only the checked-out branch is advanced. Branches that have diverged
from the target are reported and left alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFF,
}

func init() {
	ffCmd.Flags().BoolVarP(&ffList, "list", "l", false, "report what would happen, mutate nothing")
	ffCmd.Flags().BoolVarP(&ffOnly, "only", "o", false, "with --list, print only fast-forwardable branch names")
	ffCmd.Flags().BoolVarP(&ffNot, "not", "n", false, "with --list, print only non-fast-forwardable branch names")
	ffCmd.Flags().BoolVar(&ffStrict, "strict", false, "exit non-zero when any branch fails to advance")
	ffCmd.MarkFlagsMutuallyExclusive("only", "not")
}

// splitTargetArg separates the trailing target from the branch names before
// it.
func splitTargetArg(args []string) (branches []string, target string) {
	return args[:len(args)-1], args[len(args)-1]
}

func runFF(cmd *cobra.Command, args []string) error {
	if (ffOnly || ffNot) && !ffList {
		return errors.New("--only and --not require --list")
	}
	branchArgs, targetSpec := splitTargetArg(args)

	svc, err := openService()
	if err != nil {
		return err
	}
	target, err := ff.ResolveTarget(svc, targetSpec)
	if err != nil {
		return err
	}
	names := lo.SliceToMap(branchArgs, func(name string) (string, struct{}) {
		return name, struct{}{}
	})

	if ffList {
		outcomes, err := ff.List(svc, target, names)
		if err != nil {
			return err
		}
		renderFFList(outcomes, target)
		return nil
	}

	progress, wait := applyProgress()
	outcomes, err := ff.Apply(svc, target, names, progress)
	wait()
	if err != nil {
		return err
	}
	if len(names) == 0 && len(outcomes) == 0 {
		if reason := ff.EmptySelectionReason(svc); reason != "" {
			console.Warning("%s, nothing to fast-forward", reason)
		}
	}
	failed := renderFFApply(svc, outcomes, target)
	if ffStrict && failed > 0 {
		return fmt.Errorf("%d branch(es) could not be fast-forwarded", failed)
	}
	return nil
}

// applyProgress lazily sets up a current/total bar once the branch count is
// known. Informational only; it never affects the outcome of a run.
func applyProgress() (ff.ProgressFunc, func()) {
	var p *mpb.Progress
	var bar *mpb.Bar
	progress := func(done, total int) {
		if total < 2 {
			return
		}
		if bar == nil {
			p = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithWidth(60))
			bar = p.New(int64(total),
				mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("]"),
				mpb.PrependDecorators(
					decor.Name("fast-forward", decor.WC{W: len("fast-forward") + 2, C: decor.DidentRight}),
				),
				mpb.AppendDecorators(
					decor.CountersNoUnit("(%d/%d)", decor.WCSyncSpace),
				),
			)
		}
		bar.SetCurrent(int64(done))
	}
	wait := func() {
		if p != nil {
			p.Wait()
		}
	}
	return progress, wait
}

func renderFFList(outcomes []ff.Outcome, target ff.Target) {
	if ffOnly || ffNot {
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				console.Warning("can't classify %s: %v", outcome.Branch.Name, outcome.Err)
				continue
			}
			diverged := outcome.Class == ff.Diverged
			if diverged != ffNot {
				continue
			}
			console.Print("%s", outcome.Branch.Name)
		}
		return
	}

	width := 0
	for _, outcome := range outcomes {
		width = max(width, len(outcome.Branch.Name))
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			console.Warning("can't classify %s: %v", outcome.Branch.Name, outcome.Err)
			continue
		}
		console.Print("%s", formatListLine(outcome, width, target.Spec))
	}
}

func formatListLine(outcome ff.Outcome, width int, spec string) string {
	marker := "  "
	if outcome.Branch.IsHead {
		marker = "* "
	}
	var verdict string
	switch outcome.Class {
	case ff.AlreadyUpToDate:
		verdict = "already on " + spec
	case ff.FastForwardable:
		verdict = "fast-forward to " + spec
	default:
		verdict = "non-fast-forward to " + spec
	}
	return fmt.Sprintf("%s%-*s%s", marker, width+2, outcome.Branch.Name, verdict)
}

// renderFFApply reports one line per branch and returns the number of
// branches that failed to advance due to a recoverable error.
func renderFFApply(svc *git.Service, outcomes []ff.Outcome, target ff.Target) (failed int) {
	for _, outcome := range outcomes {
		name := outcome.Branch.Name
		switch {
		case outcome.Err != nil:
			failed++
			var conflict *git.ConflictError
			if errors.As(outcome.Err, &conflict) {
				console.Error("can't fast-forward %s, checkout conflict: %s", name, strings.Join(conflict.Paths, ", "))
				if flagVerbose {
					if diff, err := svc.ConflictDiff(target.Hash, conflict.Paths); err == nil {
						fmt.Print(diff)
					}
				}
				continue
			}
			console.Error("can't fast-forward %s: %v", name, outcome.Err)
		case outcome.Class == ff.Diverged:
			console.Warning("not possible to fast-forward %s", name)
		case outcome.Class == ff.AlreadyUpToDate:
			console.Print("branch %s already on %s", name, target.Spec)
		case outcome.Advanced:
			console.Success("fast-forwarded %s to %s", name, target.Spec)
		}
	}
	return failed
}
