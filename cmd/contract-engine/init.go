// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/contract-engine/pkg/types"
)

const configFile = "contract-engine.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration and create working directories",
	Long: `Init writes contract-engine.yaml with the default settings (keyword groups,
language names, AI provider and model, history location) and creates the
history and .secrets directories. An existing config file is left untouched
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(configFile); err == nil && !force {
			fmt.Fprintf(os.Stdout, "%s already exists (use --force to overwrite)\n", configFile)
		} else {
			data, err := yaml.Marshal(types.DefaultConfig())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			if err := os.WriteFile(configFile, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", configFile, err)
			}
			fmt.Fprintln(os.Stdout, "  ", configFile)
		}

		for _, dir := range []string{cfg.Store.Dir, secretsDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			fmt.Fprintln(os.Stdout, "  ", dir)
		}
		fmt.Fprintln(os.Stdout, "Project initialized.")
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(initCmd)
}
