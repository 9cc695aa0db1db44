package domain

import "errors"

// ============================================================================
// Catalog Errors
// ============================================================================

// Not found errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrFileNotFound     = errors.New("artifact file not found")
)

// Conflict errors
var (
	ErrArtifactExists  = errors.New("an artifact with this name already exists")
	ErrVersionConflict = errors.New("artifact was modified concurrently, retry the edit")
)

// Validation errors
var (
	ErrMissingFields    = errors.New("name and description are required")
	ErrInvalidPrefix    = errors.New("artifact name must start with CN_Z, GE_Z, TE_Z or SF_Z")
	ErrMissingFile      = errors.New("a .zip file must be selected")
	ErrInvalidExtension = errors.New("invalid format: only .zip files are allowed")
	ErrInvalidFilename  = errors.New("file name is not usable")
	ErrFileTooLarge     = errors.New("file exceeds the maximum upload size")
)

// ============================================================================
// Access Errors
// ============================================================================

var (
	ErrUnauthenticated    = errors.New("authentication is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid user or password")
	ErrPermissionDenied   = errors.New("read-only users cannot modify artifacts")
)

// ============================================================================
// Storage Errors
// ============================================================================

var ErrStorage = errors.New("file storage error")
