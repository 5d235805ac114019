// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/segment"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file>",
	Short: "Split a contract into numbered clauses",
	Long: `Segment splits a contract at every line that starts with a number and a
period ("12. "). Text before the first number is kept as a preamble. Fragments
no longer than segment.min_clause_length characters are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		minLen := cfg.Segment.MinClauseLength
		if cmd.Flags().Changed("min-length") {
			minLen, _ = cmd.Flags().GetInt("min-length")
		}
		clauses := segment.New(minLen).Segment(doc.Text)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(clauses)
		}

		if len(clauses) == 0 {
			fmt.Println("No clauses found.")
			return nil
		}
		for i, c := range clauses {
			fmt.Fprintf(os.Stdout, "--- clause %d ---\n%s\n\n", i+1, c)
		}
		fmt.Fprintf(os.Stdout, "%d clause(s)\n", len(clauses))
		return nil
	},
}

func init() {
	segmentCmd.Flags().Bool("json", false, "print clauses as a JSON array")
	segmentCmd.Flags().Int("min-length", segment.DefaultMinClauseLength, "override segment.min_clause_length")

	rootCmd.AddCommand(segmentCmd)
}
