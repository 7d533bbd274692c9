package useby

// UploadStore keeps copies of uploaded label images for later inspection.
type UploadStore interface {
	// SaveUpload stores image and returns the path it was written to.
	SaveUpload(image []byte) (string, error)
}
