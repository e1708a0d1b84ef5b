package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsight/docsight/internal/domain"
)

// writeDocx assembles a DOCX package from raw members for fixtures.
func writeDocx(t *testing.T, members map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range members {
		mw, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mw.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const docxBodyFixture = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p/>
<w:p><w:r><w:t>Split</w:t></w:r><w:r><w:tab/><w:t>run</w:t></w:r></w:p>
</w:body></w:document>`

func TestFromDOCX_ParagraphsInDocumentOrder(t *testing.T) {
	path := writeDocx(t, map[string]string{
		docxBodyMember: docxBodyFixture,
	})

	ext, err := FromDOCX(context.Background(), path)
	if err != nil {
		t.Fatalf("FromDOCX() error: %v", err)
	}

	want := "First paragraph\n\nSplit\trun"
	if ext.Text != want {
		t.Errorf("Text = %q, want %q", ext.Text, want)
	}
	if len(ext.Images) != 0 {
		t.Errorf("Images = %d, want 0 without a relationship table", len(ext.Images))
	}
	if len(ext.Skipped) != 0 {
		t.Errorf("Skipped = %d, want 0", len(ext.Skipped))
	}
}

func TestFromDOCX_ImagesFromRelationshipTable(t *testing.T) {
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image2.png"/>
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="http://example.com/x.png" TargetMode="External"/>
</Relationships>`

	path := writeDocx(t, map[string]string{
		docxBodyMember:          docxBodyFixture,
		docxRelsMember:          rels,
		"word/media/image1.png": "png-one",
		"word/media/image2.png": "png-two",
	})

	ext, err := FromDOCX(context.Background(), path)
	if err != nil {
		t.Fatalf("FromDOCX() error: %v", err)
	}

	if len(ext.Images) != 2 {
		t.Fatalf("Images = %d, want 2", len(ext.Images))
	}
	// Relationship-id order, not document order.
	if string(ext.Images[0].Data) != "png-one" || ext.Images[0].Name != "media/image1.png" {
		t.Errorf("Images[0] = %q (%s)", ext.Images[0].Data, ext.Images[0].Name)
	}
	if string(ext.Images[1].Data) != "png-two" {
		t.Errorf("Images[1] = %q", ext.Images[1].Data)
	}
}

func TestFromDOCX_MissingImagePartIsSkipped(t *testing.T) {
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/gone.png"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/here.png"/>
</Relationships>`

	path := writeDocx(t, map[string]string{
		docxBodyMember:        docxBodyFixture,
		docxRelsMember:        rels,
		"word/media/here.png": "bytes",
	})

	ext, err := FromDOCX(context.Background(), path)
	if err != nil {
		t.Fatalf("FromDOCX() error: %v", err)
	}

	if len(ext.Images) != 1 || string(ext.Images[0].Data) != "bytes" {
		t.Errorf("Images = %+v, want the surviving part only", ext.Images)
	}
	if len(ext.Skipped) != 1 {
		t.Fatalf("Skipped = %d, want 1", len(ext.Skipped))
	}
	if ext.Skipped[0].Stage() != domain.StageRelationship || ext.Skipped[0].Item() != "rId1" {
		t.Errorf("skip = %q/%q", ext.Skipped[0].Stage(), ext.Skipped[0].Item())
	}
}

func TestFromDOCX_TextIndependentOfImages(t *testing.T) {
	plain := writeDocx(t, map[string]string{docxBodyMember: docxBodyFixture})
	withImages := writeDocx(t, map[string]string{
		docxBodyMember: docxBodyFixture,
		docxRelsMember: `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`,
		"word/media/image1.png": "blob",
	})

	a, err := FromDOCX(context.Background(), plain)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromDOCX(context.Background(), withImages)
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != b.Text {
		t.Errorf("text differs with images present: %q vs %q", a.Text, b.Text)
	}
}

func TestFromDOCX_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FromDOCX(context.Background(), path); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"/word/media/image1.png", "word/media/image1.png"},
	}
	for _, tt := range tests {
		if got := resolveTarget(tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
