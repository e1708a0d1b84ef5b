package domain

import "errors"

var (
	// ErrUnsupportedFormat signals an input file with a suffix no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMissingAPIKey signals that OPENAI_API_KEY is absent from the environment.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")
	// ErrNoOCRCapability signals that the Tesseract engine is unusable.
	ErrNoOCRCapability = errors.New("ocr engine unavailable")
	// ErrCompletionFailed signals a completion provider failure.
	ErrCompletionFailed = errors.New("completion provider error")
	// ErrEmptyResponse signals a completion response without choices.
	ErrEmptyResponse = errors.New("empty completion response")
)
