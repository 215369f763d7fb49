package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdfrag/internal/adapter/fs"
	"pdfrag/internal/adapter/pdf"
	"pdfrag/internal/domain"
)

var chunkJSON bool

var chunkCmd = &cobra.Command{
	Use:   "chunk <pdf>",
	Short: "Print the chunks a PDF would be indexed as",
	Long: `Extract and chunk a PDF with the configured window size and overlap
without embedding anything.

Examples:
  pdfrag chunk cv.pdf
  pdfrag chunk notes.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output as JSON")
}

func runChunk(cmd *cobra.Command, args []string) error {
	src, err := fs.NewResolver("").Resolve(args[0])
	if err != nil {
		return err
	}

	chunks, err := chunkFile(cmd.Context(), src.Path)
	if err != nil {
		return err
	}

	if chunkJSON {
		output, _ := json.MarshalIndent(chunks, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Created %d chunks from PDF\n\n", len(chunks))
	for _, c := range chunks {
		fmt.Printf("--- chunk %d (offset %d, %d chars) ---\n", c.Index, c.Offset, len([]rune(c.Text)))
		fmt.Println(c.Text)
		fmt.Println()
	}
	return nil
}

func chunkFile(ctx context.Context, path string) ([]domain.Chunk, error) {
	chk, err := newChunker(GetConfig())
	if err != nil {
		return nil, err
	}
	doc, err := pdf.NewAutoExtractor().Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return chk.Chunk(doc.Text())
}
