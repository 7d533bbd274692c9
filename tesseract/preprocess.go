// Package tesseract implements useby.TextRecognizer on a local Tesseract
// install through gosseract. Builds without cgo get a recognizer that
// always reports EUNAVAILABLE.
package tesseract

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/fwojciec/useby"
)

// minWidth is the width small label crops are upscaled to before OCR.
const minWidth = 1200

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Preprocess converts an encoded image into a grayscale, contrast-boosted
// PNG, upscaled to at least minWidth pixels wide.
func Preprocess(image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, useby.Errorf(useby.EINVALID, "image required")
	}
	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, useby.Errorf(useby.EINVALID, "decode image: %v", err)
	}

	if img.Bounds().Dx() < minWidth {
		img = imaging.Resize(img, minWidth, 0, imaging.Lanczos)
	}
	gray := imaging.AdjustContrast(imaging.Grayscale(img), 20)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
