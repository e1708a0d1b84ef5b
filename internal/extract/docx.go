package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/domain"
	"github.com/docsight/docsight/internal/logger"
)

const (
	docxBodyMember = "word/document.xml"
	docxRelsMember = "word/_rels/document.xml.rels"
)

// FromDOCX extracts paragraph texts and embedded images from a DOCX file.
// Paragraphs are joined with newlines in document order. Images follow the
// relationship table, sorted by relationship id so the order is deterministic.
func FromDOCX(ctx context.Context, docxPath string) (domain.Extraction, error) {
	log := logger.FromContext(ctx)

	zr, err := zip.OpenReader(docxPath)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	body, err := zipMember(&zr.Reader, docxBodyMember)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("read document body: %w", err)
	}
	text, err := docxParagraphs(body)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("parse document body: %w", err)
	}

	images, skipped := docxImages(&zr.Reader, log)

	return domain.Extraction{Text: text, Images: images, Skipped: skipped}, nil
}

// docxParagraphs walks word/document.xml and joins the text of every w:p in
// document order. Tabs and soft line breaks inside runs are preserved.
func docxParagraphs(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// relationships mirrors the OPC relationship table that ties document parts
// to their attachments.
type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
	Mode   string `xml:"TargetMode,attr"`
}

// docxImages scans the document relationship table for image parts and reads
// their raw bytes. A missing or unreadable part becomes a skip record.
func docxImages(zr *zip.Reader, log *zap.Logger) ([]domain.Image, []domain.Skip) {
	data, err := zipMember(zr, docxRelsMember)
	if err != nil {
		// No relationship table means no embedded media.
		return nil, nil
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		log.Warn("relationship table unreadable", zap.Error(err))
		return nil, []domain.Skip{domain.NewSkip(domain.StageRelationship, docxRelsMember, err)}
	}

	imageRels := make([]relationship, 0, len(rels.Rels))
	for _, rel := range rels.Rels {
		if strings.HasSuffix(rel.Type, "/image") && rel.Mode != "External" {
			imageRels = append(imageRels, rel)
		}
	}
	sort.Slice(imageRels, func(i, j int) bool { return imageRels[i].ID < imageRels[j].ID })

	var images []domain.Image
	var skipped []domain.Skip
	for _, rel := range imageRels {
		blob, err := zipMember(zr, resolveTarget(rel.Target))
		if err != nil {
			skipped = append(skipped, domain.NewSkip(domain.StageRelationship, rel.ID, err))
			log.Warn("image part unreadable", zap.String("rel", rel.ID), zap.Error(err))
			continue
		}
		images = append(images, domain.Image{Data: blob, Name: rel.Target})
	}
	return images, skipped
}

// resolveTarget maps a relationship target to its archive member name.
// Targets are relative to word/ unless rooted at the package.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}

func zipMember(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("member %s not found", name)
}
