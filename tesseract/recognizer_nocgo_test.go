//go:build !cgo

package tesseract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/useby"
	"github.com/fwojciec/useby/tesseract"
	"github.com/stretchr/testify/assert"
)

func TestRecognizer_UnavailableWithoutCgo(t *testing.T) {
	t.Parallel()

	_, err := tesseract.NewRecognizer("").RecognizeText(context.Background(), []byte("x"))

	assert.False(t, tesseract.Available())
	assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
}
