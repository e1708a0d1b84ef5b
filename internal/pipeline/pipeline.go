// Package pipeline orchestrates one run: extract, recognize, combine,
// respond, report. A single linear pass with no retries; fatal errors abort
// before any report is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/domain"
	"github.com/docsight/docsight/internal/logger"
)

// defaultPromptFile is probed in the working directory when --prompt is not
// given. Its absence is not an error: the run proceeds with an empty prompt.
const defaultPromptFile = "prompt.txt"

// Extractor pulls native text and embedded images from a document.
type Extractor func(ctx context.Context, format domain.Format, path string) (domain.Extraction, error)

// Recognizer runs OCR over embedded images.
type Recognizer interface {
	Preflight(languages string) error
	Recognize(ctx context.Context, images []domain.Image, languages string) (string, []domain.Skip)
}

// Responder calls the completion endpoint.
type Responder interface {
	Complete(ctx context.Context, spec domain.PromptSpec, content string) (string, error)
}

// Reporter writes the response into the output document.
type Reporter interface {
	Write(content, outputPath, title string) error
}

// Service wires the pipeline stages together.
type Service struct {
	extract Extractor
	ocr     Recognizer
	llm     Responder
	report  Reporter
}

// New creates the pipeline service.
func New(extract Extractor, ocr Recognizer, llm Responder, report Reporter) *Service {
	return &Service{extract: extract, ocr: ocr, llm: llm, report: report}
}

// Request carries the parameters of one pipeline run.
type Request struct {
	InputPath   string
	OutputPath  string
	PromptPath  string
	Model       string
	Temperature float32
	Languages   string
	Title       string
}

// Run executes the pipeline once. Format dispatch and the OCR capability
// check happen before any extraction work; per-item extraction and OCR
// failures are logged and skipped without failing the run.
func (s *Service) Run(ctx context.Context, req Request) error {
	log := logger.FromContext(ctx)

	format, err := domain.ParseFormat(req.InputPath)
	if err != nil {
		return err
	}

	if err := s.ocr.Preflight(req.Languages); err != nil {
		return err
	}

	prompt, err := loadPrompt(req.PromptPath)
	if err != nil {
		return err
	}

	extraction, err := s.extract(ctx, format, req.InputPath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", req.InputPath, err)
	}
	logSkips(log, extraction.Skipped)
	log.Info("document extracted",
		zap.String("format", string(format)),
		zap.Int("text_chars", len(extraction.Text)),
		zap.Int("images", len(extraction.Images)),
		zap.Int("skipped", len(extraction.Skipped)),
	)

	ocrText, ocrSkipped := s.ocr.Recognize(ctx, extraction.Images, req.Languages)
	logSkips(log, ocrSkipped)

	combined := Combine(extraction.Text, ocrText)

	response, err := s.llm.Complete(ctx, domain.PromptSpec{
		System:      prompt,
		Model:       req.Model,
		Temperature: req.Temperature,
	}, combined)
	if err != nil {
		return fmt.Errorf("completion: %w", err)
	}

	if err := s.report.Write(response, req.OutputPath, req.Title); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("report written", zap.String("path", req.OutputPath))
	return nil
}

// Combine appends the OCR text after the native text, separated by a single
// newline. Blank OCR output is omitted entirely so no trailing separator
// appears.
func Combine(native, ocrText string) string {
	if strings.TrimSpace(ocrText) == "" {
		return native
	}
	return native + "\n" + ocrText
}

// loadPrompt reads the instruction prompt. An explicit path must exist; the
// probed default may be absent, in which case the prompt is empty.
func loadPrompt(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(defaultPromptFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read default prompt: %w", err)
	}
	return string(data), nil
}

func logSkips(log *zap.Logger, skipped []domain.Skip) {
	for _, s := range skipped {
		log.Warn("item skipped",
			zap.String("stage", string(s.Stage())),
			zap.String("item", s.Item()),
			zap.Error(s.Err()),
		)
	}
}
