// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/reformat"
)

var reformatCmd = &cobra.Command{
	Use:   "reformat <file>",
	Short: "Rewrite a contract as a standard agreement template",
	Long: `Reformat lifts the parties, numbered clauses, governing law and dispute
resolution sections out of a contract and places them in a standard agreement
template with recitals and signature blocks. Sections that cannot be found are
filled with placeholder text to edit by hand.

--template accepts "nda", "service", "employment" or any agreement name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("template")
		kind := templateType(name)
		text, err := reformat.New(cfg.Template).Reformat(doc.Text, kind)
		if err != nil {
			return err
		}

		write, _ := cmd.Flags().GetBool("write")
		if !write {
			fmt.Fprintln(os.Stdout, text)
			return nil
		}

		dir, _ := cmd.Flags().GetString("output-dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		out := filepath.Join(dir, reformat.FileName(kind))
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", out)
		return nil
	},
}

// templateType maps short names onto the built-in template types. Any
// other name is used verbatim.
func templateType(name string) reformat.TemplateType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nda", strings.ToLower(string(reformat.NDA)):
		return reformat.NDA
	case "service", strings.ToLower(string(reformat.Service)):
		return reformat.Service
	case "employment", strings.ToLower(string(reformat.Employment)):
		return reformat.Employment
	}
	return reformat.TemplateType(strings.TrimSpace(name))
}

func init() {
	reformatCmd.Flags().String("template", "service", "agreement type: nda, service, employment, or a custom name")
	reformatCmd.Flags().Bool("write", false, "write Reformatted_<type>.txt instead of printing")
	reformatCmd.Flags().String("output-dir", ".", "directory for --write output")

	rootCmd.AddCommand(reformatCmd)
}
