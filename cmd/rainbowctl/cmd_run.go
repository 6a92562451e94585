package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rainbowbrowser/internal/action"
)

var (
	runURL   string
	runBatch string
	runChain string
)

// runCmd is the single-invocation convenience path: open a session,
// run one batch or chain file against it, print the outcome, and
// close the session — everything the session/action/batch/chain
// subcommands do piecemeal, in one process lifetime. Useful since this
// CLI does not persist session state across separate process
// invocations.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a session, run a batch or chain file against it, and close it",
	RunE:  runExecute,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runURL, "url", "", "navigate to this URL before running the file")
	f.StringVar(&runBatch, "batch", "", "YAML file listing actions to run as a conflict-aware batch")
	f.StringVar(&runChain, "chain", "", "YAML file describing a sequential/parallel action chain")
}

func runExecute(cmd *cobra.Command, args []string) error {
	if runBatch == "" && runChain == "" {
		return fmt.Errorf("config error: one of --batch or --chain is required")
	}
	if runBatch != "" && runChain != "" {
		return fmt.Errorf("config error: --batch and --chain are mutually exclusive")
	}

	ctx, cancel := cmdContext()
	defer cancel()

	s, err := eng.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer eng.RemoveSession(s.ID)

	if runURL != "" {
		nav := action.New(action.Navigate(runURL), action.Target{})
		if _, err := eng.Execute(ctx, s.ID, nav); err != nil {
			return fmt.Errorf("navigate to %q: %w", runURL, err)
		}
	}

	if runBatch != "" {
		specs, err := loadActionSpecs(runBatch)
		if err != nil {
			return err
		}
		actions := make([]action.Action, 0, len(specs))
		for i, sp := range specs {
			a, err := sp.toAction()
			if err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
			actions = append(actions, a)
		}
		return printJSON(eng.ExecuteBatch(ctx, s.ID, actions))
	}

	cs, err := loadChainSpec(runChain)
	if err != nil {
		return err
	}
	chain := action.NewChain(nil)
	chain.ParallelGroups = cs.ParallelGroups
	if cs.StopOnFailure != nil {
		chain.StopOnFailure = *cs.StopOnFailure
	}
	for i, sp := range cs.Actions {
		a, err := sp.toAction()
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		chain.Actions = append(chain.Actions, a)
	}
	return printJSON(eng.ExecuteChain(ctx, s.ID, chain))
}
