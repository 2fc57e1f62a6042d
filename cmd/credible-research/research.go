// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/brief"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/internal/verify"
	"github.com/pdiddy/credible-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Gather a balanced set of credible sources for a topic",
	Long: `Research searches each source category separately, sized by the registry's
target distribution, then merges, deduplicates and ranks the results.

With --brief the results are also written as a Markdown research brief.
--verify adds claim verdicts to the brief and output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().IntP("num-results", "n", search.DefaultResearchResults, "maximum number of results")
	researchCmd.Flags().String("brief", "", "write a Markdown research brief to this file (\"-\" for stdout, \"auto\" to name it after the topic)")
	researchCmd.Flags().StringArray("verify", nil, "claim to verify and include in the brief (repeatable)")
	researchCmd.Flags().Bool("quotas", false, "print the per-category quotas and exit without searching")
	researchCmd.Flags().String("save", "", "write results to a YAML result file")
	addOutputFlags(researchCmd)
	addArchiveFlag(researchCmd)

	rootCmd.AddCommand(researchCmd)
}

type researchOutput struct {
	Topic        string                       `json:"topic" yaml:"topic"`
	Results      []types.ScoredResult         `json:"results" yaml:"results"`
	Distribution map[types.SourceCategory]int `json:"distribution" yaml:"distribution"`
	Verdicts     []types.VerificationVerdict  `json:"verdicts,omitempty" yaml:"verdicts,omitempty"`
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	n, _ := cmd.Flags().GetInt("num-results")

	if onlyQuotas, _ := cmd.Flags().GetBool("quotas"); onlyQuotas {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if n <= 0 {
			n = search.DefaultResearchResults
		}
		return writeOutput(cmd, os.Stdout, search.Quotas(reg, n), func(w io.Writer) {
			for _, q := range search.Quotas(reg, n) {
				fmt.Fprintf(w, "%-16s  %d\n", q.Category, q.N)
			}
		})
	}

	if err := requireAPIKey(); err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	results := a.engine.MultiSourceResearch(cmd.Context(), topic, n)
	out := researchOutput{Topic: topic, Results: results, Distribution: search.Distribution(results)}

	claims, _ := cmd.Flags().GetStringArray("verify")
	if len(claims) > 0 {
		out.Verdicts = a.verifier.VerifyAll(cmd.Context(), claims, 0)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		rf := search.NewResultFile(search.ResultQuery{Kind: "research", Text: topic, NumResults: n}, results)
		if err := search.WriteResultFile(path, rf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", len(results), path)
	}
	if err := archiveRun(cmd, &archive.Run{Kind: archive.KindResearch, Query: topic, NumResults: n, Results: results}); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("brief"); path != "" {
		return writeBrief(path, brief.Brief{
			Topic:       topic,
			GeneratedAt: time.Now(),
			Results:     results,
			Verdicts:    out.Verdicts,
		})
	}

	return writeOutput(cmd, os.Stdout, out, func(w io.Writer) {
		search.FormatTable(results, w)
		for _, v := range out.Verdicts {
			fmt.Fprintln(w)
			verify.FormatText(v, w)
		}
	})
}

func writeBrief(path string, b brief.Brief) error {
	if path == "-" {
		return brief.Render(os.Stdout, b)
	}
	if path == "auto" {
		path = brief.FileName(b.Topic)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating brief: %w", err)
	}
	if err := brief.Render(f, b); err != nil {
		f.Close()
		return fmt.Errorf("rendering brief: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing brief: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote brief with %d sources to %s\n", len(b.Results), path)
	return nil
}
