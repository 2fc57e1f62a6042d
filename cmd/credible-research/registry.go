// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/credible-research/internal/config"
	"github.com/pdiddy/credible-research/internal/registry"
	"github.com/pdiddy/credible-research/internal/search"
	"github.com/pdiddy/credible-research/pkg/types"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the credible-domain registry",
	Long: `Registry shows the trusted domains, category priorities and target
distribution in effect, and classifies URLs against them. The built-in
registry is used unless registry.file names a YAML file.`,
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories, priorities and domains",
	RunE:  runRegistryList,
}

var registryClassifyCmd = &cobra.Command{
	Use:   "classify [urls...]",
	Short: "Show the category and credibility score of each URL",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRegistryClassify,
}

func init() {
	registryListCmd.Flags().Bool("yaml", false, "print the registry as a loadable YAML file")
	registryClassifyCmd.Flags().Bool("json", false, "output as JSON")

	registryCmd.AddCommand(registryListCmd, registryClassifyCmd)
	rootCmd.AddCommand(registryCmd)
}

func loadRegistry() (*registry.Registry, error) {
	return config.LoadRegistry(cfg.Registry)
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	if b, _ := cmd.Flags().GetBool("yaml"); b {
		return reg.WriteYAML(os.Stdout)
	}

	for _, c := range types.Categories {
		domains := reg.Domains(c)
		fmt.Printf("%s  priority=%.2f  share=%.0f%%  (%d domains)\n",
			c, reg.Priority(c), 100*reg.TargetShare(c), len(domains))
		for _, d := range domains {
			fmt.Printf("    %s\n", d)
		}
	}
	return nil
}

type classification struct {
	URL              string               `json:"url"`
	Domain           string               `json:"domain"`
	SourceCategory   types.SourceCategory `json:"source_category,omitempty"`
	CredibilityScore float64              `json:"credibility_score"`
}

func runRegistryClassify(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	out := make([]classification, 0, len(args))
	for _, u := range args {
		d := search.ExtractDomain(u)
		c, _ := reg.CategoryOf(d)
		out = append(out, classification{URL: u, Domain: d, SourceCategory: c, CredibilityScore: reg.PriorityOf(d)})
	}

	return writeOutput(cmd, os.Stdout, out, func(w io.Writer) {
		for _, c := range out {
			cat := string(c.SourceCategory)
			if cat == "" {
				cat = "(not registered)"
			}
			fmt.Fprintf(w, "%-50s  %-28s  %-18s  %.2f\n", c.URL, c.Domain, cat, c.CredibilityScore)
		}
	})
}
