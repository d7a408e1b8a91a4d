// Package media hosts the HTTP handlers for the media storage surface:
// upload, public and protected download, media information and delete.
package media

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/wso2-attic/identity-media/internal/domain"
)

// Store is the slice of the storage manager the handlers use.
type Store interface {
	AddFile(ctx context.Context, content io.Reader, meta domain.MediaMetadata, tenantDomain string) (string, error)
	ReadContent(ctx context.Context, id, tenantDomain, mediaType string) (*domain.DataContent, error)
	IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error)
	IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error)
	IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error)
	RetrieveMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*domain.MediaInformation, error)
	DeleteMedia(ctx context.Context, id, mediaType, tenantDomain string) error
	ValidateMediaTypePathParam(mediaType string) error
	ValidateFileUploadMediaTypes(mediaType, contentType string) error
	ValidateMediaSize(size int64) error
}

type Handler struct {
	Log   *log.Logger
	Store Store

	// DefaultTenant is used when the request carries no tenant header.
	DefaultTenant string
}

const tenantHeader = "X-Tenant-Domain"

func (h *Handler) tenant(r *http.Request) string {
	if t := r.Header.Get(tenantHeader); t != "" {
		return t
	}
	return h.DefaultTenant
}
