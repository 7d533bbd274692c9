package mock

import "github.com/fwojciec/useby"

var _ useby.UploadStore = (*UploadStore)(nil)

// UploadStore is a mock implementation of useby.UploadStore.
type UploadStore struct {
	SaveUploadFn func(image []byte) (string, error)
}

func (s *UploadStore) SaveUpload(image []byte) (string, error) {
	return s.SaveUploadFn(image)
}
