package vision_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/useby"
	"github.com/fwojciec/useby/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

type annotateRequest struct {
	Requests []struct {
		Image struct {
			Content string `json:"content"`
		} `json:"image"`
		Features []struct {
			Type       string `json:"type"`
			MaxResults int    `json:"maxResults"`
		} `json:"features"`
	} `json:"requests"`
}

func newService(t *testing.T, handler http.HandlerFunc) *visionapi.Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := vision.NewService(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestRecognizer_RecognizeText(t *testing.T) {
	t.Parallel()

	t.Run("returns joined text", func(t *testing.T) {
		t.Parallel()

		var got annotateRequest
		var path, fields string
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			fields = r.URL.Query().Get("fields")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"responses":[{
				"fullTextAnnotation":{"text":"EXP 2027-05-14\n"},
				"textAnnotations":[{"description":"EXP 2027-05-14"},{"description":"EXP"}]
			}]}`))
		})

		text, err := vision.NewRecognizer(svc).RecognizeText(context.Background(), []byte("jpeg-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "EXP 2027-05-14\n\nEXP 2027-05-14", text)
		assert.Equal(t, "/v1/images:annotate", path)
		assert.Contains(t, fields, "fullTextAnnotation")
		require.Len(t, got.Requests, 1)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")), got.Requests[0].Image.Content)
		require.Len(t, got.Requests[0].Features, 1)
		assert.Equal(t, "TEXT_DETECTION", got.Requests[0].Features[0].Type)
		assert.Equal(t, 1, got.Requests[0].Features[0].MaxResults)
	})

	t.Run("no text is empty string", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"responses":[{}]}`))
		})

		text, err := vision.NewRecognizer(svc).RecognizeText(context.Background(), []byte("x"))

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("http error is unavailable", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
		})

		_, err := vision.NewRecognizer(svc).RecognizeText(context.Background(), []byte("x"))

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
		assert.Contains(t, useby.ErrorMessage(err), "403")
	})

	t.Run("per-image error is unavailable", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
		})

		_, err := vision.NewRecognizer(svc).RecognizeText(context.Background(), []byte("x"))

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
		assert.Contains(t, useby.ErrorMessage(err), "Bad image data.")
	})

	t.Run("slow api times out", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})

		_, err := vision.NewRecognizer(svc, vision.WithTimeout(20*time.Millisecond)).
			RecognizeText(context.Background(), []byte("x"))

		assert.Equal(t, useby.ETIMEOUT, useby.ErrorCode(err))
	})

	t.Run("empty image is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := vision.NewRecognizer(nil).RecognizeText(context.Background(), nil)

		assert.Equal(t, useby.EINVALID, useby.ErrorCode(err))
	})

	t.Run("nil service is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := vision.NewRecognizer(nil).RecognizeText(context.Background(), []byte("x"))

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
	})
}

func TestLabeler_LabelImage(t *testing.T) {
	t.Parallel()

	var got annotateRequest
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"responses":[{
			"labelAnnotations":[{"description":"Food","score":0.98},{"description":"Granny Smith","score":0.91}],
			"localizedObjectAnnotations":[{"name":"Apple","score":0.88}]
		}]}`))
	})

	labels, err := vision.NewLabeler(svc).LabelImage(context.Background(), []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, []useby.Annotation{
		{Description: "Food", Score: 0.98},
		{Description: "Granny Smith", Score: 0.91},
	}, labels.Labels)
	assert.Equal(t, []useby.Annotation{{Description: "Apple", Score: 0.88}}, labels.Objects)
	assert.Equal(t, "Granny Smith", useby.ClassifyName(labels.Labels, labels.Objects))

	require.Len(t, got.Requests, 1)
	var types []string
	for _, f := range got.Requests[0].Features {
		types = append(types, f.Type)
		assert.Equal(t, 10, f.MaxResults)
	}
	assert.Equal(t, []string{"LABEL_DETECTION", "OBJECT_LOCALIZATION"}, types)
}

func TestCollectText(t *testing.T) {
	t.Parallel()

	assert.Empty(t, vision.CollectText(nil))
	assert.Equal(t, "only full", vision.CollectText(&visionapi.AnnotateImageResponse{
		FullTextAnnotation: &visionapi.TextAnnotation{Text: " only full "},
	}))
	assert.Equal(t, "only first", vision.CollectText(&visionapi.AnnotateImageResponse{
		TextAnnotations: []*visionapi.EntityAnnotation{{Description: "only first"}, {Description: "second"}},
	}))
}

func TestNewService_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := vision.NewService(context.Background(), "")

	assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
}
