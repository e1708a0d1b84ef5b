// Package ocr recognizes text on embedded images with Tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/domain"
	"github.com/docsight/docsight/internal/logger"

	// Decoders for image payloads commonly embedded in documents.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Client is the subset of the gosseract API the recognizer uses.
type Client interface {
	SetImageFromBytes(data []byte) error
	SetLanguage(langs ...string) error
	Text() (string, error)
	Close() error
}

// Recognizer runs Tesseract over a batch of embedded images. One client per
// image: Tesseract state does not carry over between inputs.
type Recognizer struct {
	newClient func() Client
}

// New creates a Tesseract-backed recognizer.
func New() *Recognizer {
	return &Recognizer{newClient: func() Client { return gosseract.NewClient() }}
}

// Preflight verifies once, before any extraction work, that the engine can be
// constructed and accepts the language spec. A broken Tesseract installation
// surfaces here instead of on the first image.
func (r *Recognizer) Preflight(languages string) error {
	c := r.newClient()
	defer c.Close()

	langs := splitLanguages(languages)
	if len(langs) == 0 {
		return fmt.Errorf("%w: empty language spec %q", domain.ErrNoOCRCapability, languages)
	}
	if err := c.SetLanguage(langs...); err != nil {
		return fmt.Errorf("%w: languages %q: %v", domain.ErrNoOCRCapability, languages, err)
	}
	return nil
}

// Recognize runs OCR over the images in input order and joins the non-empty
// results with newlines. A failing image contributes nothing beyond a skip
// record; no error escapes.
func (r *Recognizer) Recognize(ctx context.Context, images []domain.Image, languages string) (string, []domain.Skip) {
	log := logger.FromContext(ctx)
	langs := splitLanguages(languages)

	var parts []string
	var skipped []domain.Skip
	for i, img := range images {
		item := img.Name
		if item == "" {
			item = fmt.Sprintf("image %d", i+1)
		}

		text, err := r.recognizeOne(img.Data, langs)
		if err != nil {
			skipped = append(skipped, domain.NewSkip(domain.StageOCR, item, err))
			log.Warn("ocr failed for image", zap.String("item", item), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), skipped
}

func (r *Recognizer) recognizeOne(data []byte, langs []string) (string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}

	c := r.newClient()
	defer c.Close()

	if err := c.SetImageFromBytes(normalized); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// normalize decodes the payload and re-encodes anything the engine cannot take
// directly: Tesseract wants plain grayscale or RGB in a format Leptonica reads.
func normalize(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if engineReadable(img, format) {
		return data, nil
	}

	rgb := image.NewNRGBA(img.Bounds())
	draw.Draw(rgb, rgb.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgb); err != nil {
		return nil, fmt.Errorf("encode rgb image: %w", err)
	}
	return buf.Bytes(), nil
}

func engineReadable(img image.Image, format string) bool {
	if format != "png" && format != "jpeg" {
		return false
	}
	switch img.(type) {
	case *image.Gray, *image.RGBA, *image.NRGBA, *image.YCbCr:
		return true
	default:
		return false
	}
}

// splitLanguages turns a Tesseract spec like "rus+eng" into language hints.
func splitLanguages(spec string) []string {
	var langs []string
	for _, l := range strings.Split(spec, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
