package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdfrag/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search an indexed PDF",
	Long: `Embed the query and print the closest chunks of a persistent
collection in ascending distance.

Examples:
  pdfrag query -q "education" --backend bolt
  pdfrag query -q "work experience" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	index, err := openExistingIndex(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer index.Close()

	coll, err := index.GetCollection(ctx, cfg.Index.Collection)
	if err != nil {
		return fmt.Errorf("failed to open collection %s: %w", cfg.Index.Collection, err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	retrieveUC := usecase.NewRetrieveUseCase(embedder, GetLogger())
	results, err := retrieveUC.Retrieve(ctx, coll, queryText, effectiveTopK(queryTopK))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] chunk %s (distance: %.4f) ---\n", i+1, r.ID, r.Distance)
		text := r.Document
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
