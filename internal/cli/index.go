package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pdfrag/internal/adapter/fs"
	"pdfrag/internal/domain"
)

var indexReset bool

var indexCmd = &cobra.Command{
	Use:   "index <pdf>",
	Short: "Build a persistent index for a PDF",
	Long: `Extract, chunk and embed a PDF into a collection of a persistent
index. The index is stored in .pdfrag/index.<backend> within the working
directory unless index.path is set.

Examples:
  pdfrag index cv.pdf --backend bolt
  pdfrag index cv.pdf --backend sqlite --collection cv --reset`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexReset, "reset", false, "replace an existing collection")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	if cfg.Index.Backend == "memory" {
		return fmt.Errorf("the memory backend does not persist; use --backend bolt or sqlite")
	}

	src, err := fs.NewResolver("").Resolve(args[0])
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	index, location, err := openIndex(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer index.Close()

	name := cfg.Index.Collection
	if indexReset {
		if err := index.DeleteCollection(ctx, name); err != nil && !errors.Is(err, domain.ErrCollectionNotFound) {
			return fmt.Errorf("failed to reset collection %s: %w", name, err)
		}
	}

	indexUC, err := newIndexUseCase(cfg, embedder, index)
	if err != nil {
		return err
	}

	fmt.Printf("Indexing %s with %s...\n", src.Path, embedder.ModelName())

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progressCallback := func(done, total int) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(done)

		elapsed := time.Since(startTime)
		if rate := float64(done) / elapsed.Seconds(); rate > 0 {
			eta := time.Duration(float64(total-done)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
		}
	}

	result, err := indexUC.Index(ctx, src.Path, name, collectionOptions(cfg), progressCallback)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionExists) {
			return fmt.Errorf("%w (use --reset to replace it)", err)
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Pages:      %d\n", result.Pages)
	fmt.Printf("  Chunks:     %d\n", len(result.Chunks))
	fmt.Printf("  Embedded:   %d\n", result.Embedded)
	fmt.Printf("  Collection: %s\n", result.Collection.Name())
	fmt.Printf("\nIndex stored at: %s\n", location)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
