package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfrag/config"
	"pdfrag/internal/logging"
)

var (
	cfgFile    string
	cfg        *config.Config
	rootDir    string
	logger     *zap.Logger
	backend    string
	collection string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Ask questions about a PDF with retrieval-augmented generation",
	Long: `pdfrag extracts the text of a PDF, splits it into overlapping chunks,
embeds them into a vector index and answers questions with a language
model grounded on the closest chunks.

Example usage:
  pdfrag run cv.pdf -q "Which college?"    # One-shot, in-memory index
  pdfrag index cv.pdf --backend bolt       # Build a persistent index
  pdfrag ask -q "Which college?"           # Answer from the index`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		// API keys may live in a .env file next to the config.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("backend") {
			cfg.Index.Backend = backend
		}
		if cmd.Flags().Changed("collection") {
			cfg.Index.Collection = collection
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		if cmd.Parent() != configCmd {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pdfrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "working directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "index backend: memory, bolt or sqlite (default from config)")
	rootCmd.PersistentFlags().StringVarP(&collection, "collection", "c", "", "collection name (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
