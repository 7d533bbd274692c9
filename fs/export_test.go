package fs

import "time"

// SetNow replaces the clock used for upload names.
func (s *UploadStore) SetNow(now func() time.Time) { s.now = now }
