package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/config"
	"github.com/docsight/docsight/internal/extract"
	"github.com/docsight/docsight/internal/llm"
	logpkg "github.com/docsight/docsight/internal/logger"
	"github.com/docsight/docsight/internal/ocr"
	"github.com/docsight/docsight/internal/pipeline"
	"github.com/docsight/docsight/internal/report"
	"github.com/docsight/docsight/internal/version"
)

var (
	flagInput       string
	flagOutput      string
	flagPrompt      string
	flagModel       string
	flagTemperature float32
	flagLanguages   string
	flagTitle       string
	flagConfig      string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "docsight",
	Short: "Extract an expert report and analyze it with an LLM",
	Long: `docsight extracts native text and embedded images from a PDF or DOCX
expert report, recognizes text on the images with Tesseract, sends the
combined text to a chat-completion endpoint and writes the response into
a new DOCX report.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagInput, "input", "", "path to the input file (PDF or DOCX)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "path to the output DOCX report")
	rootCmd.Flags().StringVar(&flagPrompt, "prompt", "", "path to a custom prompt file (default: probe prompt.txt)")
	rootCmd.Flags().StringVar(&flagModel, "model", "gpt-4", "model identifier")
	rootCmd.Flags().Float32Var(&flagTemperature, "temperature", 0, "sampling temperature (0 = deterministic)")
	rootCmd.Flags().StringVar(&flagLanguages, "ocr-lang", "rus+eng", "Tesseract language spec, e.g. rus, eng or rus+eng")
	rootCmd.Flags().StringVar(&flagTitle, "title", "", "report heading (default from config)")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	logger, err := logpkg.New(config.GetEnv(), level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req := pipeline.Request{
		InputPath:   flagInput,
		OutputPath:  flagOutput,
		PromptPath:  override(cmd, "prompt", flagPrompt, cfg.PromptPath),
		Model:       override(cmd, "model", flagModel, cfg.Model),
		Languages:   override(cmd, "ocr-lang", flagLanguages, cfg.Languages),
		Title:       override(cmd, "title", flagTitle, cfg.Title),
		Temperature: cfg.Temperature,
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = flagTemperature
	}

	logger.Info("starting analysis run",
		zap.String("version", version.Version),
		zap.String("input", req.InputPath),
		zap.String("output", req.OutputPath),
		zap.String("model", req.Model),
		zap.String("ocr_languages", req.Languages),
	)

	svc := pipeline.New(
		extract.Extract,
		ocr.New(),
		llm.NewClient(llm.Config{BaseURL: cfg.OpenAI.BaseURL, Logger: logger}),
		report.NewWriter(),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := svc.Run(ctx, req); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}

// override prefers an explicitly set flag over the config file value.
func override(cmd *cobra.Command, name, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(name) || cfgVal == "" {
		return flagVal
	}
	return cfgVal
}

func main() {
	// .env is optional; OPENAI_API_KEY may come from it.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
