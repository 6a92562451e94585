package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage browser sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new browser session",
	RunE:  sessionCreate,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live sessions",
	RunE:  sessionList,
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove [session-id]",
	Short: "Close a session",
	Args:  cobra.ExactArgs(1),
	RunE:  sessionRemove,
}

func init() {
	sessionCmd.AddCommand(sessionCreateCmd, sessionListCmd, sessionRemoveCmd)
}

func sessionCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdContext()
	defer cancel()

	s, err := eng.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	fmt.Printf("Session created: %s\n", s.ID)
	return nil
}

func sessionList(cmd *cobra.Command, args []string) error {
	sessions := mgr.List()
	if len(sessions) == 0 {
		fmt.Println("No active sessions")
		return nil
	}
	for _, s := range sessions {
		stats, err := eng.SessionStats(s.ID)
		if err != nil {
			fmt.Printf("  %s  (stats unavailable: %v)\n", s.ID, err)
			continue
		}
		fmt.Printf("  %s  created=%s  success_rate=%.2f  cached_elements=%d\n",
			s.ID, s.CreatedAt.Format("15:04:05"), stats.SuccessRate, stats.CachedElements)
	}
	return nil
}

func sessionRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	if _, ok := mgr.Get(id); !ok {
		return fmt.Errorf("session %q not found", id)
	}
	eng.RemoveSession(id)
	fmt.Printf("Session removed: %s\n", id)
	return nil
}
