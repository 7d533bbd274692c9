// Package vision implements useby.TextRecognizer and useby.ImageLabeler on
// the Google Cloud Vision images:annotate API.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/useby"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

// DefaultTimeout bounds a single annotate call.
const DefaultTimeout = 8 * time.Second

// Response field masks. Only what the adapters read is requested.
const (
	textFields  googleapi.Field = "responses(fullTextAnnotation/text,textAnnotations/description,error)"
	labelFields googleapi.Field = "responses(labelAnnotations(description,score),localizedObjectAnnotations(name,score),error)"
)

// NewService creates a Vision API client authenticated with an API key.
// Extra options are appended, so tests can override the endpoint.
func NewService(ctx context.Context, apiKey string, opts ...option.ClientOption) (*visionapi.Service, error) {
	if apiKey == "" {
		return nil, useby.Errorf(useby.EUNAVAILABLE, "vision api key not configured")
	}
	return visionapi.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
}

// client holds what the recognizer and labeler share.
type client struct {
	svc     *visionapi.Service
	timeout time.Duration
}

// Option configures a Recognizer or Labeler.
type Option func(*client)

// WithTimeout sets the annotate deadline. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

func newClient(svc *visionapi.Service, opts []Option) client {
	c := client{svc: svc, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// annotate sends one image with the given features and returns its response.
func (c client) annotate(ctx context.Context, image []byte, fields googleapi.Field, features ...*visionapi.Feature) (*visionapi.AnnotateImageResponse, error) {
	if len(image) == 0 {
		return nil, useby.Errorf(useby.EINVALID, "image required")
	}
	if c.svc == nil {
		return nil, useby.Errorf(useby.EUNAVAILABLE, "vision client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{{
			Image:    &visionapi.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: features,
		}},
	}
	resp, err := c.svc.Images.Annotate(req).Fields(fields).Context(ctx).Do()
	if err != nil {
		return nil, c.wrap(ctx, err)
	}
	if len(resp.Responses) == 0 {
		return &visionapi.AnnotateImageResponse{}, nil
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return nil, useby.Errorf(useby.EUNAVAILABLE, "vision api error %d: %s", r.Error.Code, r.Error.Message)
	}
	return r, nil
}

func (c client) wrap(ctx context.Context, err error) error {
	var gerr *googleapi.Error
	switch {
	case errors.As(err, &gerr):
		return useby.Errorf(useby.EUNAVAILABLE, "vision api http %d: %s", gerr.Code, gerr.Message)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return useby.Errorf(useby.ETIMEOUT, "vision api exceeded %s", c.timeout)
	default:
		return useby.Errorf(useby.EUNAVAILABLE, "vision api: %v", err)
	}
}

// Ensure Recognizer implements useby.TextRecognizer at compile time.
var _ useby.TextRecognizer = (*Recognizer)(nil)

// Recognizer runs TEXT_DETECTION.
type Recognizer struct {
	client
}

// NewRecognizer creates a Recognizer.
func NewRecognizer(svc *visionapi.Service, opts ...Option) *Recognizer {
	return &Recognizer{client: newClient(svc, opts)}
}

// RecognizeText returns the detected text, or "" when the image has none.
func (r *Recognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	resp, err := r.annotate(ctx, image, textFields, &visionapi.Feature{Type: "TEXT_DETECTION", MaxResults: 1})
	if err != nil {
		return "", err
	}
	return CollectText(resp), nil
}

// CollectText joins the full-text annotation and the first text annotation.
func CollectText(r *visionapi.AnnotateImageResponse) string {
	if r == nil {
		return ""
	}
	var blocks []string
	if r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "" {
		blocks = append(blocks, r.FullTextAnnotation.Text)
	}
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0] != nil && r.TextAnnotations[0].Description != "" {
		blocks = append(blocks, r.TextAnnotations[0].Description)
	}
	return strings.TrimSpace(strings.Join(blocks, "\n"))
}

// Ensure Labeler implements useby.ImageLabeler at compile time.
var _ useby.ImageLabeler = (*Labeler)(nil)

// Labeler runs LABEL_DETECTION and OBJECT_LOCALIZATION.
type Labeler struct {
	client
}

// NewLabeler creates a Labeler.
func NewLabeler(svc *visionapi.Service, opts ...Option) *Labeler {
	return &Labeler{client: newClient(svc, opts)}
}

// LabelImage returns up to ten labels and ten localized objects.
func (l *Labeler) LabelImage(ctx context.Context, image []byte) (*useby.ImageLabels, error) {
	resp, err := l.annotate(ctx, image, labelFields,
		&visionapi.Feature{Type: "LABEL_DETECTION", MaxResults: 10},
		&visionapi.Feature{Type: "OBJECT_LOCALIZATION", MaxResults: 10},
	)
	if err != nil {
		return nil, err
	}

	out := &useby.ImageLabels{}
	for _, a := range resp.LabelAnnotations {
		if a == nil {
			continue
		}
		out.Labels = append(out.Labels, useby.Annotation{Description: a.Description, Score: a.Score})
	}
	for _, o := range resp.LocalizedObjectAnnotations {
		if o == nil {
			continue
		}
		out.Objects = append(out.Objects, useby.Annotation{Description: o.Name, Score: o.Score})
	}
	return out, nil
}
