package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/domain"
	"github.com/docsight/docsight/internal/logger"
)

// FromPDF extracts page texts and embedded images from a PDF file.
// The returned text is the newline-join of all page texts in page order;
// a page whose extraction fails contributes an empty string and a skip record.
func FromPDF(ctx context.Context, path string) (domain.Extraction, error) {
	log := logger.FromContext(ctx)

	doc, err := fitz.New(path)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var skipped []domain.Skip
	texts := make([]string, 0, doc.NumPage())
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			skipped = append(skipped, domain.NewSkip(domain.StagePageText, fmt.Sprintf("page %d", page+1), err))
			log.Warn("page text extraction failed", zap.Int("page", page+1), zap.Error(err))
			texts = append(texts, "")
			continue
		}
		texts = append(texts, strings.TrimRight(text, "\n"))
	}

	images, imgSkipped := pdfImages(path, log)
	skipped = append(skipped, imgSkipped...)

	return domain.Extraction{
		Text:    strings.Join(texts, "\n"),
		Images:  images,
		Skipped: skipped,
	}, nil
}

// pdfImages pulls raw embedded image streams out of the PDF in page order,
// object number order within a page. Failures never abort the run.
func pdfImages(path string, log *zap.Logger) ([]domain.Image, []domain.Skip) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []domain.Skip{domain.NewSkip(domain.StagePageImage, path, err)}
	}
	defer f.Close()

	pages, err := api.ExtractImagesRaw(f, nil, model.NewDefaultConfiguration())
	if err != nil {
		log.Warn("embedded image extraction failed", zap.Error(err))
		return nil, []domain.Skip{domain.NewSkip(domain.StagePageImage, path, err)}
	}

	var images []domain.Image
	var skipped []domain.Skip
	for _, byObj := range pages {
		objNrs := make([]int, 0, len(byObj))
		for nr := range byObj {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := byObj[nr]
			item := fmt.Sprintf("page %d object %d", img.PageNr, nr)
			data, err := io.ReadAll(img)
			if err != nil {
				skipped = append(skipped, domain.NewSkip(domain.StagePageImage, item, err))
				log.Warn("embedded image unreadable", zap.String("item", item), zap.Error(err))
				continue
			}
			if len(data) == 0 {
				continue
			}
			images = append(images, domain.Image{Data: data, Page: img.PageNr, Name: img.Name})
		}
	}
	return images, skipped
}
