// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/section"
)

var sectionCmd = &cobra.Command{
	Use:   "section <file>",
	Short: "Print the part of a contract between two keyword anchors",
	Long: `Section finds the first whole-word, case-insensitive match of any --start
keyword and prints the text from there up to the first following match of any
--end keyword, or to the end of the document when --end is omitted or never
matches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetStringSlice("start")
		end, _ := cmd.Flags().GetStringSlice("end")
		if len(start) == 0 {
			return fmt.Errorf("--start requires at least one keyword")
		}

		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		text := section.Extract(doc.Text, start, end)
		if text == "" {
			fmt.Fprintln(os.Stderr, "No matching section found.")
			return nil
		}
		fmt.Fprintln(os.Stdout, text)
		return nil
	},
}

func init() {
	sectionCmd.Flags().StringSlice("start", nil, "keywords that begin the section (comma-separated)")
	sectionCmd.Flags().StringSlice("end", nil, "keywords that end the section (comma-separated)")

	rootCmd.AddCommand(sectionCmd)
}
