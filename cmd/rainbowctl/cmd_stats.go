package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsSessionID string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print performance, concurrency, retry, and event-bus statistics",
	RunE:  statsShow,
}

func init() {
	statsCmd.Flags().StringVar(&statsSessionID, "session", "", "also print this session's stats")
}

func statsShow(cmd *cobra.Command, args []string) error {
	fmt.Println("performance:")
	if err := printJSON(eng.PerformanceStats()); err != nil {
		return err
	}
	fmt.Println("concurrency:")
	if err := printJSON(eng.ConcurrencyStats()); err != nil {
		return err
	}
	fmt.Println("retry:")
	if err := printJSON(eng.RetryStatistics()); err != nil {
		return err
	}
	fmt.Println("event_bus:")
	if err := printJSON(eng.EventBusStats()); err != nil {
		return err
	}
	if statsSessionID != "" {
		s, err := eng.SessionStats(statsSessionID)
		if err != nil {
			return err
		}
		fmt.Printf("session %s:\n", statsSessionID)
		return printJSON(s)
	}
	return nil
}
