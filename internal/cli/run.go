package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfrag/internal/adapter/fs"
	"pdfrag/internal/domain"
	"pdfrag/internal/usecase"
)

var (
	runQuestion string
	runTopK     int
)

var runCmd = &cobra.Command{
	Use:   "run <pdf>",
	Short: "Index a PDF and answer one question",
	Long: `Run the whole pipeline in one pass: extract the PDF, chunk it, embed
the chunks into a fresh collection, retrieve the chunks closest to the
question and ask the language model to answer from them.

The in-memory backend is used unless --backend says otherwise; a
persistent collection with the same name is replaced.

Examples:
  pdfrag run cv.pdf -q "What is the candidate's college?"
  pdfrag run "docs/**/report.pdf" -q "Who wrote it?" --top-k 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runQuestion, "question", "q", "", "question to answer (required)")
	runCmd.Flags().IntVarP(&runTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	runCmd.MarkFlagRequired("question")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()
	log := GetLogger()

	src, err := fs.NewResolver("").Resolve(args[0])
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm: %w", err)
	}

	index, location, err := openIndex(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer index.Close()

	name := cfg.Index.Collection
	if err := index.DeleteCollection(ctx, name); err != nil && !errors.Is(err, domain.ErrCollectionNotFound) {
		return fmt.Errorf("failed to replace collection %s: %w", name, err)
	}

	indexUC, err := newIndexUseCase(cfg, embedder, index)
	if err != nil {
		return err
	}
	log.Info("indexing", zap.String("source", src.Path), zap.String("backend", cfg.Index.Backend), zap.String("location", location))

	chunked := false
	result, err := indexUC.Index(ctx, src.Path, name, collectionOptions(cfg), func(done, total int) {
		if !chunked {
			fmt.Printf("Created %d chunks from PDF\n", total)
			chunked = true
		}
		log.Debug("indexed chunks", zap.Int("done", done), zap.Int("total", total))
	})
	if err != nil {
		return err
	}
	if !chunked {
		fmt.Printf("Created %d chunks from PDF\n", len(result.Chunks))
	}
	fmt.Printf("Indexed chunks into %s.\n", cfg.Index.Backend)

	retrieveUC := usecase.NewRetrieveUseCase(embedder, log)
	askUC := usecase.NewAskUseCase(retrieveUC, model, cfg.Generate.System, log)

	answer, err := askUC.Ask(ctx, result.Collection, runQuestion, effectiveTopK(runTopK))
	if err != nil {
		return err
	}

	printRetrieved(answer.Results)
	fmt.Println("LLM response:")
	fmt.Println(answer.Response)
	return nil
}

func printRetrieved(results []domain.QueryResult) {
	fmt.Printf("Retrieved %d docs. IDs: %v, distances: %v\n",
		len(results), domain.IDs(results), domain.Distances(results))
}
