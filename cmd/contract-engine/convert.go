// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Print the extracted text of a contract file",
	Long: `Convert extracts the text of a .txt, .pdf or .docx contract and prints it.
PDF and DOCX files are converted with the markitdown container image, so
docker or podman must be available.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := os.WriteFile(out, []byte(doc.Text), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(os.Stdout, "converted %s -> %s (language: %s)\n", args[0], out, doc.Language)
			return nil
		}
		fmt.Fprintln(os.Stdout, doc.Text)
		return nil
	},
}

func init() {
	convertCmd.Flags().String("out", "", "write the text to this file instead of stdout")

	rootCmd.AddCommand(convertCmd)
}
