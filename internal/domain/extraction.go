package domain

// Image is one embedded image pulled out of a source document.
type Image struct {
	// Data is the raw encoded image payload.
	Data []byte
	// Page is the 1-based page number the image came from, 0 when the
	// source format has no page concept (DOCX relationships).
	Page int
	// Name is the resource or relationship name inside the document.
	Name string
}

// Extraction is the result of pulling native text and embedded images out of
// a single document. Images keep document order so OCR output stays
// reproducible across runs.
type Extraction struct {
	Text    string
	Images  []Image
	Skipped []Skip
}

// PromptSpec carries the instruction prompt and sampling settings for one
// completion call. Loaded once, passed by value.
type PromptSpec struct {
	System      string
	Model       string
	Temperature float32
}
