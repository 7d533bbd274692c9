package useby

import "context"

// TextRecognizer reads the text printed on an image.
type TextRecognizer interface {
	// RecognizeText returns the raw OCR text of an encoded image (JPEG, PNG, ...).
	// The text may be empty when the image contains no readable characters.
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// Annotation is a label or object detected on an image with its confidence.
type Annotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// ImageLabels holds the annotations used to name a product.
type ImageLabels struct {
	Labels  []Annotation `json:"labels"`
	Objects []Annotation `json:"objects"`
}

// ImageLabeler detects generic labels and localized objects on an image.
type ImageLabeler interface {
	LabelImage(ctx context.Context, image []byte) (*ImageLabels, error)
}
