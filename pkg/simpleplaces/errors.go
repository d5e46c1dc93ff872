package simpleplaces

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tendant/simple-places/pkg/simpleplaces/tenant"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrPostExists indicates a post with the same slug already exists
	ErrPostExists = errors.New("post already exists")

	// ErrMediaOrderNotFound indicates no order list is stored for a set and key
	ErrMediaOrderNotFound = errors.New("media order not found")

	// ErrInvalidMediaOrder indicates a media order list could not be accepted
	ErrInvalidMediaOrder = errors.New("invalid media order")

	// ErrInvalidSlider indicates a slider item set could not be accepted
	ErrInvalidSlider = errors.New("invalid slider")

	// ErrInvalidMedia indicates a media upload could not be accepted
	ErrInvalidMedia = errors.New("invalid media")

	// ErrMalformedSubmission indicates a submission that is not an object
	ErrMalformedSubmission = errors.New("submission must be an object")

	// ErrNoMediaStore indicates the service was built without a media store
	ErrNoMediaStore = errors.New("media store not configured")
)

// ValidationError carries the issues that stopped a write.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "post failed validation"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Path+": "+i.Message)
	}
	return fmt.Sprintf("post failed validation: %s", strings.Join(parts, "; "))
}

// PostError represents an error related to post operations
type PostError struct {
	Tenant tenant.ID
	Slug   string
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for %s/%s: %v", e.Op, e.Tenant, e.Slug, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to media storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
