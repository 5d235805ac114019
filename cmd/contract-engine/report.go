// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/analyze"
	"github.com/pdiddy/contract-engine/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Print the report of a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return analyze.RenderReport(os.Stdout, a)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
