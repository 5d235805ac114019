// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/analyze"
	"github.com/pdiddy/contract-engine/internal/language"
	"github.com/pdiddy/contract-engine/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze the risks in a contract",
	Long: `Analyze segments a contract into clauses, sends them to the configured AI
provider and prints a Markdown risk report: an overall risk score, the parties,
important dates, a plain-language summary of each section and a clause-by-clause
breakdown grouped by risk level.

The analysis is written in the document's language (English or Hindi, detected
automatically) unless --lang is given. Results are saved to the history
database; use --out to also write them as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	backend, err := newCompleter(apiKey, model)
	if err != nil {
		return err
	}

	lang := doc.Language
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		lang = l
	}
	names := language.NewNames(cfg.Languages)
	fmt.Fprintf(os.Stderr, "analyzing %s (language: %s)\n", path, names.Name(lang))

	a, err := analyze.New(backend, cfg).Analyze(ctx, path, doc.Text, lang)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := analyze.WriteResult(out, a); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Save(ctx, a); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved analysis %s\n", a.ID)
	}

	return analyze.RenderReport(os.Stdout, a)
}

func init() {
	analyzeCmd.Flags().String("lang", "", "analysis language code (default: detected from the document)")
	analyzeCmd.Flags().String("out", "", "also write the analysis as YAML to this path")
	analyzeCmd.Flags().Bool("no-save", false, "do not record the analysis in the history database")
	analyzeCmd.Flags().String("model", "", "AI model identifier (overrides ai.model)")
	analyzeCmd.Flags().String("api-key", "", "API key for the AI provider (default: from .secrets/ or .env)")

	rootCmd.AddCommand(analyzeCmd)
}
