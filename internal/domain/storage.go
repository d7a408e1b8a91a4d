package domain

import (
	"context"
	"io"
)

// StorageSystem is the contract every media storage backend implements.
// All operations are tenant scoped via the tenant domain; identifiers are
// opaque strings minted once per upload by the manager, so a backend never
// has to guarantee uniqueness itself.
type StorageSystem interface {
	// AddMedia streams content into the store and writes the metadata
	// sidecar afterwards. Returns the identifier to use for later lookups.
	AddMedia(ctx context.Context, content io.Reader, meta MediaMetadata, id, tenantDomain string) (string, error)

	// GetFile returns a handle to the stored content together with the
	// content type recorded in the sidecar. A missing file yields
	// ErrNotFound. The last-accessed timestamp is refreshed best effort;
	// failing to refresh it never fails the read.
	GetFile(ctx context.Context, id, tenantDomain, mediaType string) (*DataContent, error)

	// IsDownloadAllowedForPublicMedia reports whether the file may be served
	// on the unauthenticated download path. Missing metadata yields false,
	// not an error.
	IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error)

	// IsDownloadAllowedForProtectedMedia reports whether the given user may
	// download the file on the authenticated path.
	IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error)

	// IsMediaManagementAllowedForEndUser reports whether the given user owns
	// the file and may manage (inspect, delete) it.
	IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error)

	// GetMediaInformation returns the sidecar document plus derived access
	// links. A missing file yields ErrNotFound.
	GetMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*MediaInformation, error)

	// DeleteMedia removes the sidecar first and the content after, so a
	// crash mid-delete leaves the media already invisible. Missing content
	// yields ErrNotFound.
	DeleteMedia(ctx context.Context, id, mediaType, tenantDomain string) error

	// Transform is an extension point for content transformation (resizing
	// and the like). Current backends pass the stream through unchanged.
	Transform(ctx context.Context, id, mediaType, tenantDomain string, content io.Reader) (io.Reader, error)
}

// TenantResolver maps a tenant domain to the numeric tenant id used in
// storage paths. Resolution itself happens upstream of this subsystem.
type TenantResolver interface {
	TenantID(tenantDomain string) (int, error)
}
