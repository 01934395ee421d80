package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/queuectl/queuectl/internal/worker"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Manage worker processes",
}

var workerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start one or more worker processes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		// A fresh start cancels any previous stop request.
		if err := s.ClearStop(); err != nil {
			s.Close()
			return err
		}
		s.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		pool := &worker.Pool{
			Count: workerCount,
			Args:  []string{"worker", "run", "--db", dbPath, "--log-level", logLevel},
		}
		return pool.Run(ctx)
	},
}

var workerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop running workers gracefully",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RequestStop(); err != nil {
			return err
		}
		n, err := worker.SignalRegistered(s)
		if err != nil {
			return err
		}
		fmt.Printf("Stop requested; signalled %d worker(s). They will exit after finishing their current job.\n", n)
		return nil
	},
}

// workerRunCmd is the hidden per-process entrypoint the pool supervisor
// spawns. It runs a single execution loop in the foreground.
var workerRunCmd = &cobra.Command{
	Use:    "run",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return worker.New(s).Run(ctx)
	},
}

func init() {
	workerStartCmd.Flags().IntVar(&workerCount, "count", 1, "Number of worker processes to start")

	workerCmd.AddCommand(workerStartCmd, workerStopCmd, workerRunCmd)
	rootCmd.AddCommand(workerCmd)
}
