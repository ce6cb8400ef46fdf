package domain

import "errors"

// Sentinel errors for sync operations
var (
	// ErrListingUnavailable indicates the listing endpoint could not be reached
	ErrListingUnavailable = errors.New("screen listing is unreachable")

	// ErrInvalidListing indicates the listing response body cannot be decoded
	ErrInvalidListing = errors.New("screen listing cannot be decoded")

	// ErrMissingScreenID indicates a listed screen carries no identifier
	ErrMissingScreenID = errors.New("screen has no id")

	// ErrDownloadFailed indicates an artifact download could not complete
	ErrDownloadFailed = errors.New("artifact download failed")

	// ErrWriteFailed indicates an artifact could not be written to disk
	ErrWriteFailed = errors.New("artifact write failed")

	// ErrNotConfigured indicates the API key or project ID is missing
	ErrNotConfigured = errors.New("api key and project id are required")
)
