// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search credible sources for a query",
	Long: `Search runs one web search restricted to the registry's domains for the
selected categories (default: academic, company_research), scores each hit
by its source category and prints the results ranked by credibility.

With --plain the query is sent unfiltered and results are not scored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("categories", nil, "source categories to search (comma-separated): "+types.CategoryNames())
	searchCmd.Flags().IntP("num-results", "n", search.DefaultNumResults, "maximum number of results")
	searchCmd.Flags().Bool("plain", false, "unfiltered web search without credibility scoring")
	searchCmd.Flags().String("save", "", "write results to a YAML result file")
	addOutputFlags(searchCmd)
	addArchiveFlag(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	n, _ := cmd.Flags().GetInt("num-results")
	plain, _ := cmd.Flags().GetBool("plain")

	cats, err := parseCategoryFlag(cmd)
	if err != nil {
		return err
	}
	if err := requireAPIKey(); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if plain {
		if n <= 0 {
			n = search.DefaultNumResults
		}
		results, err := a.web.Search(cmd.Context(), query, n)
		if err != nil {
			return fmt.Errorf("web search: %w", err)
		}
		return writeOutput(cmd, os.Stdout, results, func(w io.Writer) { search.FormatPlainTable(results, w) })
	}

	results := a.engine.DomainSearch(cmd.Context(), query, cats, n)

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		rf := search.NewResultFile(search.ResultQuery{Kind: "search", Text: query, Categories: cats, NumResults: n}, results)
		if err := search.WriteResultFile(path, rf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", len(results), path)
	}
	if err := archiveRun(cmd, &archive.Run{Kind: archive.KindSearch, Query: query, Categories: cats, NumResults: n, Results: results}); err != nil {
		return err
	}

	return writeOutput(cmd, os.Stdout, results, func(w io.Writer) { search.FormatTable(results, w) })
}
