package http

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/useby"
	"github.com/gin-gonic/gin"
)

// minBase64Len is the shortest imageBase64 value accepted as an image.
const minBase64Len = 50

// ocrPreviewHeader prefixes the OCR text echoed back for debugging.
const ocrPreviewHeader = "Here's the transcribed text from the image:\n\n"

type analyzeResponse struct {
	OK                bool        `json:"ok"`
	ProductionDateISO *string     `json:"productionDateISO"`
	ExpiryDateISO     *string     `json:"expiryDateISO"`
	BestBeforeDateISO *string     `json:"bestBeforeDateISO"`
	Meta              analyzeMeta `json:"meta"`
}

type analyzeMeta struct {
	Notes  *string      `json:"notes"`
	Timing timingMeta   `json:"_timingMs"`
	Debug  analyzeDebug `json:"_debug"`
}

type timingMeta struct {
	Total  int64 `json:"total"`
	Vision int64 `json:"vision"`
}

type analyzeDebug struct {
	OCRPreview *string `json:"ocrPreview"`
}

type nameResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
}

type textResponse struct {
	OK                bool     `json:"ok"`
	ProductionDateISO *string  `json:"productionDateISO"`
	ExpiryDateISO     *string  `json:"expiryDateISO"`
	BestBeforeDateISO *string  `json:"bestBeforeDateISO"`
	Name              *string  `json:"name"`
	Meta              textMeta `json:"meta"`
}

type textMeta struct {
	Notes *string `json:"notes"`
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC().Format(time.RFC3339Nano)})
}

// handleAnalyze runs OCR and date extraction on an uploaded image.
func (s *Server) handleAnalyze(c *gin.Context) {
	begin := time.Now()

	image, err := readImage(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.keepUpload(c, image)

	if s.Recognizer == nil {
		s.fail(c, http.StatusBadRequest, useby.Errorf(useby.EUNAVAILABLE, "ocr provider not configured"))
		return
	}
	text, err := s.Recognizer.RecognizeText(c.Request.Context(), image)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	visionDone := time.Now()

	res := s.Extractor.Extract(c.Request.Context(), text)

	var preview *string
	if text != "" {
		preview = nullable(ocrPreviewHeader + "```\n" + text + "\n```")
	}
	c.JSON(http.StatusOK, analyzeResponse{
		OK:                true,
		ProductionDateISO: nullable(res.ProductionISO),
		ExpiryDateISO:     nullable(res.ExpiryISO),
		BestBeforeDateISO: nullable(res.BestBeforeISO),
		Meta: analyzeMeta{
			Notes: nullable(res.Note),
			Timing: timingMeta{
				Total:  time.Since(begin).Milliseconds(),
				Vision: visionDone.Sub(begin).Milliseconds(),
			},
			Debug: analyzeDebug{OCRPreview: preview},
		},
	})
}

// handleAnalyzeName labels an uploaded image and derives a product name.
func (s *Server) handleAnalyzeName(c *gin.Context) {
	image, err := readImage(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.keepUpload(c, image)

	if s.Labeler == nil {
		s.fail(c, http.StatusNotFound, useby.Errorf(useby.EUNAVAILABLE, "label provider not configured"))
		return
	}
	labels, err := s.Labeler.LabelImage(c.Request.Context(), image)
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}

	c.JSON(http.StatusOK, nameResponse{
		OK:   true,
		Name: useby.ClassifyName(labels.Labels, labels.Objects),
	})
}

// handleExtractFromText extracts the product name and dates from OCR text
// recognized on the client.
func (s *Server) handleExtractFromText(c *gin.Context) {
	var req struct {
		OCRText string `json:"ocrText"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, http.StatusBadRequest, bodyError(err, "ocrText required"))
		return
	}
	text := strings.TrimSpace(req.OCRText)
	if text == "" {
		s.fail(c, http.StatusBadRequest, useby.Errorf(useby.EINVALID, "ocrText required"))
		return
	}

	f := s.Extractor.Structure(c.Request.Context(), text)

	c.JSON(http.StatusOK, textResponse{
		OK:                true,
		ProductionDateISO: nullable(f.ProductionDate),
		ExpiryDateISO:     nullable(firstNonEmpty(f.ExpiryDate, f.BestBeforeDate)),
		BestBeforeDateISO: nullable(f.BestBeforeDate),
		Name:              nullable(strings.TrimSpace(f.ProductName)),
		Meta:              textMeta{Notes: nullable(f.Notes)},
	})
}

// fail writes {ok:false, error} and logs the underlying error.
func (s *Server) fail(c *gin.Context, status int, err error) {
	s.Logger.Warn("request failed",
		"path", c.Request.URL.Path,
		"status", status,
		"code", useby.ErrorCode(err),
		"err", err,
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(status, gin.H{"ok": false, "error": useby.ErrorMessage(err)})
}

// keepUpload stores the image when retention is enabled. Failures are
// logged and never fail the request.
func (s *Server) keepUpload(c *gin.Context, image []byte) {
	if s.Uploads == nil {
		return
	}
	path, err := s.Uploads.SaveUpload(image)
	if err != nil {
		s.Logger.Warn("save upload", "err", err, "request_id", c.GetString(requestIDKey))
		return
	}
	s.Logger.Info("saved upload", "path", path, "bytes", len(image), "request_id", c.GetString(requestIDKey))
}

// readImage returns the image from multipart field "image" or from a JSON
// body {"imageBase64": "..."}.
func readImage(c *gin.Context) ([]byte, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, bodyError(err, "image required")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		image, err := io.ReadAll(f)
		if err != nil {
			return nil, bodyError(err, "image required")
		}
		if len(image) == 0 {
			return nil, useby.Errorf(useby.EINVALID, "image required")
		}
		return image, nil
	}

	var req struct {
		ImageBase64 string `json:"imageBase64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, bodyError(err, "image required")
	}
	s := stripDataURL(strings.TrimSpace(req.ImageBase64))
	if len(s) < minBase64Len {
		return nil, useby.Errorf(useby.EINVALID, "image required")
	}
	image, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, useby.Errorf(useby.EINVALID, "imageBase64 is not valid base64")
	}
	return image, nil
}

// bodyError maps body read failures to EINVALID, reporting oversized
// bodies separately.
func bodyError(err error, msg string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return useby.Errorf(useby.EINVALID, "request body exceeds %d bytes", maxErr.Limit)
	}
	return useby.Errorf(useby.EINVALID, "%s", msg)
}

// stripDataURL removes a "data:image/...;base64," prefix.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
