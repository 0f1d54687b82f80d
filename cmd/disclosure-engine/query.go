// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/investore/disclosure-engine/internal/store"
	"github.com/investore/disclosure-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query stored documents and resource estimates",
	Long: `Query reads back what the pipeline has stored. By default it lists
documents, highest priority first; with --estimates it lists resource
estimates, largest tonnage first. Filters combine with AND.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Bool("estimates", false, "query resource estimates instead of documents")
	queryCmd.Flags().String("symbol", "", "filter by ticker symbol")
	queryCmd.Flags().String("type", "", "filter documents by type (e.g. resource_report)")
	queryCmd.Flags().String("commodity", "", "filter estimates by commodity code (e.g. Au)")
	queryCmd.Flags().String("category", "", "filter estimates by resource category")
	queryCmd.Flags().Bool("valuable", false, "only valuable documents")
	queryCmd.Flags().Uint64("limit", 50, "maximum rows to return")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	db, err := store.New(storeConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetUint64("limit")
	symbol, _ := cmd.Flags().GetString("symbol")

	if estimates, _ := cmd.Flags().GetBool("estimates"); estimates {
		commodity, _ := cmd.Flags().GetString("commodity")
		category, _ := cmd.Flags().GetString("category")
		rows, err := db.Estimates(cmd.Context(), store.EstimateFilter{
			Symbol:    symbol,
			Commodity: commodity,
			Category:  types.ResourceCategory(category),
			Limit:     limit,
		})
		if err != nil {
			return err
		}
		return printEstimates(rows, asJSON)
	}

	docType, _ := cmd.Flags().GetString("type")
	valuable, _ := cmd.Flags().GetBool("valuable")
	rows, err := db.Documents(cmd.Context(), store.DocumentFilter{
		Symbol:       symbol,
		Type:         types.DocumentType(docType),
		ValuableOnly: valuable,
		Limit:        limit,
	})
	if err != nil {
		return err
	}
	return printDocuments(rows, asJSON)
}

func printDocuments(docs []types.Document, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	if len(docs) == 0 {
		fmt.Println("no documents match")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tTYPE\tPRIORITY\tPUBLISHED\tTITLE")
	for _, doc := range docs {
		published := ""
		if !doc.PublishedAt.IsZero() {
			published = doc.PublishedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			doc.Symbol, doc.Type, doc.Priority, published, doc.Title)
	}
	return w.Flush()
}

func printEstimates(estimates []types.ResourceEstimate, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(estimates)
	}
	if len(estimates) == 0 {
		fmt.Println("no estimates match")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tCOMMODITY\tCATEGORY\tTONNAGE(Mt)\tGRADE\tCONTAINED")
	for _, est := range estimates {
		contained := ""
		if est.ContainedUnit != "" {
			contained = fmt.Sprintf("%.2f %s", est.ContainedMetal, est.ContainedUnit)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f %s\t%s\n",
			est.Symbol, est.Commodity, est.Category, est.TonnageMt, est.Grade, est.GradeUnit, contained)
	}
	return w.Flush()
}
