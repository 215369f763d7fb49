package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdfrag/internal/usecase"
)

var (
	askQuestion   string
	askTopK       int
	askJSON       bool
	askShowPrompt bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from an indexed PDF",
	Long: `Retrieve the closest chunks of a persistent collection and ask the
language model to answer using only them.

Examples:
  pdfrag ask -q "Which college?" --backend bolt
  pdfrag ask -q "Which college?" --show-prompt`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer, prompt and results as JSON")
	askCmd.Flags().BoolVar(&askShowPrompt, "show-prompt", false, "print the prompt sent to the model")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()
	log := GetLogger()

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
	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm: %w", err)
	}

	askUC := usecase.NewAskUseCase(usecase.NewRetrieveUseCase(embedder, log), model, cfg.Generate.System, log)
	answer, err := askUC.Ask(ctx, coll, askQuestion, effectiveTopK(askTopK))
	if err != nil {
		return err
	}

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	printRetrieved(answer.Results)
	if askShowPrompt {
		fmt.Println("Prompt:")
		fmt.Println(answer.Prompt)
		fmt.Println()
	}
	fmt.Println("LLM response:")
	fmt.Println(answer.Response)
	return nil
}
