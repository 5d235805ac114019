// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contract-engine/internal/store"
	"github.com/pdiddy/contract-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search and export past analyses",
	Long: `History manages the local SQLite database of saved analyses. Use
subcommands to list analyses, search clause assessments, or export everything.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("max-results")
		entries, err := s.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No analyses saved yet.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-5s  %-4s  %-7s  %s\n",
			"ID", "Date", "Score", "High", "Clauses", "Source")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5d  %4d  %7d  %s\n",
				e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"),
				e.OverallRiskScore, e.HighRisk, e.Clauses, e.Source)
		}
		return nil
	},
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search clause assessments across saved analyses",
	Long: `Search runs a full-text query over the identified issues, explanations
and mitigation suggestions of every saved clause assessment. Combine it with
--level and --analysis to filter, or use the filters alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOptions{Query: strings.Join(args, " ")}
		if level, _ := cmd.Flags().GetString("level"); level != "" {
			opts.Level = types.ParseRiskLevel(level)
		}
		opts.AnalysisID, _ = cmd.Flags().GetString("analysis")
		opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
		if opts.IsEmpty() {
			return fmt.Errorf("query or filter required: provide a search query, --level, or --analysis")
		}

		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.Search(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(matches)
		}
		if len(matches) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-4s  %-7s  %-50s  %-36s  %s\n", "Rank", "Level", "Issue", "Analysis", "Clause")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
		for i, m := range matches {
			fmt.Fprintf(os.Stdout, "%-4d  %-7s  %-50s  %-36s  %d\n",
				i+1, m.RiskLevel, truncate(m.IdentifiedIssue, 50), m.AnalysisID, m.Position+1)
		}
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all saved analyses to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		format, _ := cmd.Flags().GetString("format")
		var path string
		switch format {
		case "yaml":
			path, err = s.ExportYAML(cmd.Context())
		case "json":
			path, err = s.ExportJSON(cmd.Context())
		default:
			return fmt.Errorf("unknown export format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "exported %s\n", path)
		return nil
	},
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyListCmd.Flags().Int("max-results", 0, "maximum analyses to list (default: store.max_results)")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historySearchCmd.Flags().String("level", "", "filter by risk level: high, medium, low, unrated")
	historySearchCmd.Flags().String("analysis", "", "restrict to one analysis ID")
	historySearchCmd.Flags().Int("max-results", 0, "maximum results (default: store.max_results)")
	historySearchCmd.Flags().Bool("json", false, "output as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
