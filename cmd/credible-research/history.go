// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/internal/textutil"
	"github.com/pdiddy/credible-research/internal/verify"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived runs (list, show, find, export)",
	Long: `History reads the SQLite archive in archive.dir. Runs are added by
search, research and verify with --archive, and by the API server when
server.archive is enabled.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return writeOutput(cmd, os.Stdout, runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No archived runs.")
			return
		}
		fmt.Fprintf(w, "%-8s  %-8s  %-16s  %-50s  %-7s  %s\n", "ID", "Kind", "Created", "Query", "Results", "Status")
		fmt.Fprintln(w, strings.Repeat("-", 110))
		for _, r := range runs {
			fmt.Fprintf(w, "%-8s  %-8s  %-16s  %-50s  %-7d  %s\n",
				r.ID[:8], r.Kind, r.CreatedAt.Local().Format("2006-01-02 15:04"),
				textutil.Truncate(r.Query, 50), r.ResultCount, r.Status)
		}
		fmt.Fprintf(w, "\n%d runs\n", len(runs))
	})
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one archived run; a unique ID prefix of 8+ characters is enough",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, archive.ErrRunNotFound) {
		return fmt.Errorf("no archived run %q: see 'credible-research history list'", args[0])
	}
	if err != nil {
		return err
	}

	return writeOutput(cmd, os.Stdout, run, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s (%s) at %s\n", run.ID, run.Kind, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Query: %s\n\n", run.Query)
		if run.Verdict != nil {
			verify.FormatText(*run.Verdict, w)
			return
		}
		search.FormatTable(run.Results, w)
	})
}

// --- find subcommand ---

var historyFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Full-text search over archived result titles and snippets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryFind,
}

func runHistoryFind(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Find(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	return writeOutput(cmd, os.Stdout, hits, func(w io.Writer) {
		if len(hits) == 0 {
			fmt.Fprintln(w, "No results found.")
			return
		}
		for i, h := range hits {
			fmt.Fprintf(w, "%-4d  %-56s  %-16s  %.2f  %s  (run %s)\n",
				i+1, textutil.Truncate(textutil.StripTags(h.Title), 56), h.SourceCategory, h.CredibilityScore, h.URL, h.RunID[:8])
		}
		fmt.Fprintf(w, "\n%d results\n", len(hits))
	})
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived runs to YAML or JSON",
	Long: `Export writes archived runs with their results and verdicts to
<archive.dir>/export.yaml or export.json. --kind restricts the export to
one operation; --stdout prints instead of writing the file.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	if toStdout {
		return store.Export(cmd.Context(), os.Stdout, format, opts)
	}
	switch format {
	case archive.FormatYAML, archive.FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	path, err := store.ExportFile(cmd.Context(), format, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func listOptsFromFlags(cmd *cobra.Command) (archive.ListOptions, error) {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	switch k := archive.Kind(kind); k {
	case "", archive.KindSearch, archive.KindResearch, archive.KindVerify:
		return archive.ListOptions{Kind: k, Limit: limit}, nil
	default:
		return archive.ListOptions{}, fmt.Errorf("unknown run kind %q: use search, research or verify", kind)
	}
}

func init() {
	historyListCmd.Flags().String("kind", "", "filter by run kind: search, research or verify")
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs")
	addOutputFlags(historyListCmd)

	addOutputFlags(historyShowCmd)

	historyFindCmd.Flags().Int("limit", 20, "maximum number of results")
	addOutputFlags(historyFindCmd)

	historyExportCmd.Flags().String("format", archive.FormatYAML, "export format: yaml or json")
	historyExportCmd.Flags().String("kind", "", "filter by run kind: search, research or verify")
	historyExportCmd.Flags().Bool("stdout", false, "write to stdout instead of the export file")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyFindCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
