package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/queuectl/queuectl/internal/store"
)

var (
	enqueueFile string
	listState   string
	listLimit   int
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [job-json]",
	Short: "Add a new job to the queue",
	Long:  "Reads a job description as JSON from the argument, --file, or stdin, and inserts it as pending.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readJobInput(args)
		if err != nil {
			return err
		}
		if err := validateJobPayload(raw); err != nil {
			return err
		}

		var req store.EnqueueRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return fmt.Errorf("invalid JSON input: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Enqueue(req)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

// readJobInput resolves the job JSON from --file, a piped stdin, or the
// positional argument, in that order.
func readJobInput(args []string) (string, error) {
	if enqueueFile != "" {
		data, err := os.ReadFile(enqueueFile)
		if err != nil {
			return "", fmt.Errorf("read job file: %w", err)
		}
		return stripBOM(string(data)), nil
	}
	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			return stripBOM(string(data)), nil
		}
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("no job JSON given: pass it as an argument, via --file, or on stdin")
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Enqueue a job from a command string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		id := fmt.Sprintf("job_%s_%s",
			time.Now().UTC().Format("20060102_150405"),
			strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

		jobID, err := s.Enqueue(store.EnqueueRequest{ID: id, Command: args[0]})
		if err != nil {
			return err
		}
		fmt.Println(jobID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listState != "all" && !store.ValidState(listState) {
			return fmt.Errorf("unknown state %q", listState)
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		jobs, err := s.ListJobs(listState, listLimit)
		if err != nil {
			return err
		}
		return printJSONLines(jobs)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show job states, DLQ size and active workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Stats()
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Show one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		job, err := s.GetJob(args[0])
		if err != nil {
			return err
		}
		if job == nil {
			fmt.Println("NOT_FOUND")
			return nil
		}
		return printJSON(job)
	},
}

var jobRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.DeleteJob(args[0])
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
	enqueueCmd.Flags().StringVarP(&enqueueFile, "file", "f", "", "Path to a job JSON file")
	listCmd.Flags().StringVar(&listState, "state", "pending", "Job state to list (or \"all\")")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "Maximum rows to return")

	jobCmd.AddCommand(jobRmCmd)
	rootCmd.AddCommand(enqueueCmd, runCmd, listCmd, statusCmd, jobCmd)
}
