package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dlqLimit int

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Dead letter queue operations",
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dead-lettered jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ListDLQ(dlqLimit)
		if err != nil {
			return err
		}
		return printJSONLines(entries)
	},
}

var dlqRetryCmd = &cobra.Command{
	Use:   "retry <job-id>",
	Short: "Move a dead-lettered job back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.RetryFromDLQ(args[0])
		if err != nil {
			return err
		}
		if found {
			fmt.Println("OK")
		} else {
			fmt.Println("NOT_FOUND")
		}
		return nil
	},
}

func init() {
	dlqListCmd.Flags().IntVar(&dlqLimit, "limit", 100, "Maximum entries to return")

	dlqCmd.AddCommand(dlqListCmd, dlqRetryCmd)
	rootCmd.AddCommand(dlqCmd)
}
