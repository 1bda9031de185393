package pdfdeck

import "errors"

var (
	// ErrExtraction is returned when the source PDF cannot be opened or decoded.
	ErrExtraction = errors.New("pdfdeck: text extraction failed")

	// ErrRender is returned when the presentation cannot be written to its destination.
	ErrRender = errors.New("pdfdeck: deck rendering failed")

	// ErrUploadNotFound is returned when an upload ID does not exist.
	ErrUploadNotFound = errors.New("pdfdeck: upload not found")

	// ErrArtifactNotReady is returned when a download is requested before
	// the upload has been processed into a deck.
	ErrArtifactNotReady = errors.New("pdfdeck: presentation not generated yet")

	// ErrInvalidUpload is returned for uploads with a non-PDF filename or
	// an empty body.
	ErrInvalidUpload = errors.New("pdfdeck: invalid upload")

	// ErrStoreClosed is returned when operating on a closed engine.
	ErrStoreClosed = errors.New("pdfdeck: store is closed")
)
