package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rainbowbrowser/internal/action"
)

var (
	batchSessionID string
	batchFile      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a conflict-aware parallel batch of actions from a YAML file",
	RunE:  batchRun,
}

var (
	chainSessionID    string
	chainFile         string
	chainStopOverride bool
	chainNoStop       bool
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Run a sequential/parallel action chain from a YAML file",
	RunE:  chainRun,
}

func init() {
	bf := batchCmd.Flags()
	bf.StringVar(&batchSessionID, "session", "", "session id (required)")
	bf.StringVar(&batchFile, "file", "", "YAML file listing actions (required)")
	_ = batchCmd.MarkFlagRequired("session")
	_ = batchCmd.MarkFlagRequired("file")

	cf := chainCmd.Flags()
	cf.StringVar(&chainSessionID, "session", "", "session id (required)")
	cf.StringVar(&chainFile, "file", "", "YAML file describing the chain (required)")
	cf.BoolVar(&chainStopOverride, "stop-on-failure", false, "force stop_on_failure=true regardless of the file")
	cf.BoolVar(&chainNoStop, "no-stop-on-failure", false, "force stop_on_failure=false regardless of the file")
	_ = chainCmd.MarkFlagRequired("session")
	_ = chainCmd.MarkFlagRequired("file")
}

func batchRun(cmd *cobra.Command, args []string) error {
	specs, err := loadActionSpecs(batchFile)
	if err != nil {
		return err
	}
	actions := make([]action.Action, 0, len(specs))
	for i, s := range specs {
		a, err := s.toAction()
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}

	ctx, cancel := cmdContext()
	defer cancel()

	results := eng.ExecuteBatch(ctx, batchSessionID, actions)
	return printJSON(results)
}

func chainRun(cmd *cobra.Command, args []string) error {
	cs, err := loadChainSpec(chainFile)
	if err != nil {
		return err
	}

	chain := action.NewChain(nil)
	chain.ParallelGroups = cs.ParallelGroups
	if cs.StopOnFailure != nil {
		chain.StopOnFailure = *cs.StopOnFailure
	}
	if chainStopOverride {
		chain.StopOnFailure = true
	}
	if chainNoStop {
		chain.StopOnFailure = false
	}

	for i, s := range cs.Actions {
		a, err := s.toAction()
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		chain.Actions = append(chain.Actions, a)
	}

	ctx, cancel := cmdContext()
	defer cancel()

	result := eng.ExecuteChain(ctx, chainSessionID, chain)
	return printJSON(result)
}
