package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/queuectl/queuectl/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (max_retries, backoff_base)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !store.RecognizedConfigKey(key) {
			return fmt.Errorf("unknown config key %q (supported: %s, %s)",
				key, store.ConfigKeyMaxRetries, store.ConfigKeyBackoffBase)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ConfigSet(key, value); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !store.RecognizedConfigKey(key) {
			return fmt.Errorf("unknown config key %q (supported: %s, %s)",
				key, store.ConfigKeyMaxRetries, store.ConfigKeyBackoffBase)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		v, err := s.ConfigGet(key, "")
		if err != nil {
			return err
		}
		if v == "" {
			fmt.Println("NOT_SET")
		} else {
			fmt.Println(v)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all stored config",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		cfg, err := s.AllConfig()
		if err != nil {
			return err
		}
		return printJSON(cfg)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
