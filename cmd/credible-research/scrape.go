// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/scrape"
	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [urls...]",
	Short: "Extract readable content from web pages",
	Long: `Scrape fetches each URL in order, pausing scrape.delay between pages, and
extracts the title and main text (capped at scrape.max_content_length
characters). With --metadata it prints meta and Open Graph tags instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().Bool("metadata", false, "print meta and Open Graph tags instead of content")
	scrapeCmd.Flags().Int("max-length", 0, "override scrape.max_content_length")
	addOutputFlags(scrapeCmd)

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	sc := cfg.Scrape
	if n, _ := cmd.Flags().GetInt("max-length"); n > 0 {
		sc.MaxContentLength = n
	}
	s := scrape.New(sc, logger)

	if meta, _ := cmd.Flags().GetBool("metadata"); meta {
		all := make(map[string]types.PageMetadata, len(args))
		for _, u := range args {
			m, err := s.Metadata(cmd.Context(), u)
			if err != nil {
				return err
			}
			all[u] = m
		}
		return writeOutput(cmd, os.Stdout, all, func(w io.Writer) {
			for _, u := range args {
				printMetadata(w, u, all[u])
			}
		})
	}

	pages := s.ScrapeAll(cmd.Context(), args)
	failed := 0
	for _, p := range pages {
		if !p.Success() {
			failed++
		}
	}

	if err := writeOutput(cmd, os.Stdout, pages, func(w io.Writer) {
		for _, p := range pages {
			printPage(w, p)
		}
	}); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d page(s) failed scraping", failed)
	}
	return nil
}

func printPage(w io.Writer, p types.Page) {
	if !p.Success() {
		fmt.Fprintf(w, "warning: %s\n\n", p.Error)
		return
	}
	fmt.Fprintf(w, "# %s\n%s\n%d words, %s read\n\n%s\n\n", p.Title, p.URL, p.WordCount, textutil.ReadingTime(p.Content, 0), p.Content)
}

func printMetadata(w io.Writer, url string, m types.PageMetadata) {
	fmt.Fprintln(w, url)
	rows := []struct{ k, v string }{
		{"title", m.Title},
		{"description", m.Description},
		{"keywords", m.Keywords},
		{"author", m.Author},
		{"og:title", m.OGTitle},
		{"og:description", m.OGDescription},
		{"og:image", m.OGImage},
	}
	for _, r := range rows {
		if r.v != "" {
			fmt.Fprintf(w, "  %-15s %s\n", r.k+":", r.v)
		}
	}
	fmt.Fprintln(w)
}
