// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/investore/disclosure-engine/internal/classify"
	"github.com/investore/disclosure-engine/internal/extract"
	"github.com/investore/disclosure-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [titles...]",
	Short: "Classify titles and extract resource estimates offline",
	Long: `Extract runs the classifier and the resource extractor over the given
announcement titles without touching the network or the database. Useful for
checking how a headline would be triaged.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(extractCmd)
}

// titleResult is the offline triage of one announcement title.
type titleResult struct {
	Title     string                   `json:"title"`
	Type      types.DocumentType       `json:"type"`
	Priority  int                      `json:"priority"`
	Valuable  bool                     `json:"valuable"`
	Commodity string                   `json:"commodity"`
	Estimates []types.ResourceEstimate `json:"estimates,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more announcement titles")
	}

	classifier := classify.New()
	extractor := extract.New()

	results := make([]titleResult, 0, len(args))
	for i, title := range args {
		doc := types.Document{
			DocumentID: fmt.Sprintf("adhoc-%d", i),
			Title:      title,
		}
		classifier.Annotate(&doc)
		results = append(results, titleResult{
			Title:     title,
			Type:      doc.Type,
			Priority:  doc.Priority,
			Valuable:  doc.Valuable,
			Commodity: extract.DetectCommodity(title),
			Estimates: extractor.Extract(doc),
		})
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPRIORITY\tVALUABLE\tCOMMODITY\tESTIMATES\tTITLE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%d\t%s\n",
			r.Type, r.Priority, r.Valuable, r.Commodity, len(r.Estimates), r.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range results {
		for _, est := range r.Estimates {
			fmt.Printf("  %s: %s %.2f Mt @ %.2f %s", r.Title, est.Category, est.TonnageMt, est.Grade, est.GradeUnit)
			if est.ContainedUnit != "" {
				fmt.Printf(" (%.2f %s %s)", est.ContainedMetal, est.ContainedUnit, est.Commodity)
			}
			fmt.Println()
		}
	}
	return nil
}
