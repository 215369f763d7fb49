package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfrag/internal/usecase"
)

var (
	promptCtx      string
	promptQuestion string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Render the answer prompt without calling the model",
	Long: `Render the grounded answer prompt for a context file and a question,
for use with another model or for inspection.

Examples:
  pdfrag prompt --ctx context.txt -q "Which college?"`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVar(&promptCtx, "ctx", "", "path to a plain-text context file (required)")
	promptCmd.Flags().StringVarP(&promptQuestion, "question", "q", "", "question to insert (required)")
	promptCmd.MarkFlagRequired("ctx")
	promptCmd.MarkFlagRequired("question")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctxData, err := os.ReadFile(promptCtx)
	if err != nil {
		return fmt.Errorf("failed to read context file: %w", err)
	}

	prompt, err := usecase.BuildPrompt(string(ctxData), promptQuestion)
	if err != nil {
		return err
	}
	fmt.Println(prompt)
	return nil
}
