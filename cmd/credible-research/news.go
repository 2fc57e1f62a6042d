// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/search"
)

var newsCmd = &cobra.Command{
	Use:   "news [query]",
	Short: "Search recent news",
	Long: `News queries the provider's news index. Results carry the publishing
outlet and date and are not filtered by the credible-domain registry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNews,
}

func init() {
	newsCmd.Flags().IntP("num-results", "n", search.DefaultNumResults, "maximum number of results")
	addOutputFlags(newsCmd)

	rootCmd.AddCommand(newsCmd)
}

func runNews(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	n, _ := cmd.Flags().GetInt("num-results")
	if n <= 0 {
		n = search.DefaultNumResults
	}
	if err := requireAPIKey(); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.web.News(cmd.Context(), query, n)
	if err != nil {
		return fmt.Errorf("news search: %w", err)
	}
	return writeOutput(cmd, os.Stdout, results, func(w io.Writer) { search.FormatNewsTable(results, w) })
}
