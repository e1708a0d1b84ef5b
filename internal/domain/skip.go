package domain

// Stage identifies the pipeline stage that gave up on a single item.
type Stage string

// Stages that may skip individual items without failing the run.
const (
	StagePageText     Stage = "page_text"
	StagePageImage    Stage = "page_image"
	StageRelationship Stage = "relationship"
	StageOCR          Stage = "ocr"
)

// Skip records one recovered per-item failure: a page whose text could not be
// read, an image that could not be decoded, and so on. The run continues;
// the record exists so the loss is diagnosable instead of silent.
type Skip struct {
	stage Stage
	item  string
	err   error
}

// NewSkip creates a skip record for one item.
func NewSkip(stage Stage, item string, err error) Skip {
	return Skip{stage: stage, item: item, err: err}
}

// Stage returns the pipeline stage that skipped the item.
func (s Skip) Stage() Stage { return s.stage }

// Item returns the item identifier (page number, resource name).
func (s Skip) Item() string { return s.item }

// Err returns the error that caused the skip.
func (s Skip) Err() error { return s.err }
