// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/archive"
	"github.com/pdiddy/credible-research/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [claim]",
	Short: "Check a claim against credible sources",
	Long: `Verify searches academic, company research and government sources for a
claim. A claim backed by at least two high-credibility sources among the top
--min-sources results is Verified; fewer than --min-sources results leaves it
Unverified; anything in between is Partially Verified.

Use --file to verify one claim per line ("-" reads stdin).`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("min-sources", verify.DefaultMinSources, "number of sources a claim needs")
	verifyCmd.Flags().String("file", "", "read claims from a file, one per line")
	addOutputFlags(verifyCmd)
	addArchiveFlag(verifyCmd)

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	minSources, _ := cmd.Flags().GetInt("min-sources")

	claims, err := collectClaims(cmd, args)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		return fmt.Errorf("provide a claim as an argument or with --file")
	}
	if err := requireAPIKey(); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	verdicts := a.verifier.VerifyAll(cmd.Context(), claims, minSources)
	for i := range verdicts {
		run := &archive.Run{Kind: archive.KindVerify, Query: verdicts[i].Claim, NumResults: minSources, Verdict: &verdicts[i]}
		if err := archiveRun(cmd, run); err != nil {
			return err
		}
	}

	var out any = verdicts
	if len(verdicts) == 1 {
		out = verdicts[0]
	}
	return writeOutput(cmd, os.Stdout, out, func(w io.Writer) {
		for i, v := range verdicts {
			if i > 0 {
				fmt.Fprintln(w)
			}
			verify.FormatText(v, w)
		}
	})
}

func collectClaims(cmd *cobra.Command, args []string) ([]string, error) {
	var claims []string
	if len(args) > 0 {
		claims = append(claims, strings.Join(args, " "))
	}

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return claims, nil
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening claims file: %w", err)
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading claims: %w", err)
	}
	return claims, nil
}
