// Package media hosts the storage manager: the single entry point
// collaborators use to reach the configured storage backend. The manager
// owns identifier generation and the pre-flight upload validation; the
// backends own everything below.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wso2-attic/identity-media/internal/domain"
)

const idDatePrefixLayout = "20060102"

// NewMediaID mints the identifier for an uploaded media resource: the
// current date concatenated with a random UUID. The hyphen-split fragments
// double as directory levels in the file backend, so the date prefix keeps
// same-day uploads under a shared top fragment.
func NewMediaID() string {
	return time.Now().UTC().Format(idDatePrefixLayout) + "-" + uuid.NewString()
}

type Config struct {
	// StoreType selects the backend from the registry ("file", "s3",
	// "database").
	StoreType string
	// MaxSizeBytes caps upload size; zero disables the check.
	MaxSizeBytes int64
	// ContentTypes is the allow-list of media types and sub-types.
	ContentTypes map[string][]string
}

// Manager is a cheap, stateless facade besides the backend registry. The
// registry is injected at construction; there is no process-wide mutable
// backend lookup.
type Manager struct {
	log    *log.Logger
	cfg    Config
	stores map[string]domain.StorageSystem
	policy domain.ContentTypePolicy
}

func NewManager(cfg Config, stores map[string]domain.StorageSystem, logger *log.Logger) *Manager {
	return &Manager{
		log:    logger,
		cfg:    cfg,
		stores: stores,
		policy: domain.ContentTypePolicy{Allowed: cfg.ContentTypes},
	}
}

// store resolves the configured backend. An unknown store type is a server
// error that names the missing backend; silently dropping uploads on a
// misconfigured store type must never happen.
func (m *Manager) store() (domain.StorageSystem, error) {
	st, ok := m.stores[m.cfg.StoreType]
	if !ok {
		return nil, fmt.Errorf("%w: no storage backend registered for configured media store type %q",
			domain.ErrUnexpected, m.cfg.StoreType)
	}
	return st, nil
}

// AddFile stores an uploaded media file and returns its new identifier.
// Pre-flight validation (ValidateFileUploadMediaTypes, ValidateMediaSize)
// is the caller's responsibility and must happen first.
func (m *Manager) AddFile(ctx context.Context, content io.Reader, meta domain.MediaMetadata, tenantDomain string) (string, error) {
	st, err := m.store()
	if err != nil {
		return "", err
	}
	id := NewMediaID()
	return st.AddMedia(ctx, content, meta, id, tenantDomain)
}

// ReadContent retrieves stored content for download.
func (m *Manager) ReadContent(ctx context.Context, id, tenantDomain, mediaType string) (*domain.DataContent, error) {
	st, err := m.store()
	if err != nil {
		return nil, err
	}
	return st.GetFile(ctx, id, tenantDomain, mediaType)
}

func (m *Manager) IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error) {
	st, err := m.store()
	if err != nil {
		return false, err
	}
	return st.IsDownloadAllowedForPublicMedia(ctx, id, mediaType, tenantDomain)
}

func (m *Manager) IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	st, err := m.store()
	if err != nil {
		return false, err
	}
	return st.IsDownloadAllowedForProtectedMedia(ctx, id, mediaType, tenantDomain, userID)
}

func (m *Manager) IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	st, err := m.store()
	if err != nil {
		return false, err
	}
	return st.IsMediaManagementAllowedForEndUser(ctx, id, mediaType, tenantDomain, userID)
}

// RetrieveMediaInformation returns the metadata document plus access links
// for a media resource, primarily for management callers.
func (m *Manager) RetrieveMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*domain.MediaInformation, error) {
	st, err := m.store()
	if err != nil {
		return nil, err
	}
	return st.GetMediaInformation(ctx, id, mediaType, tenantDomain)
}

func (m *Manager) DeleteMedia(ctx context.Context, id, mediaType, tenantDomain string) error {
	st, err := m.store()
	if err != nil {
		return err
	}
	return st.DeleteMedia(ctx, id, mediaType, tenantDomain)
}

func (m *Manager) Transform(ctx context.Context, id, mediaType, tenantDomain string, content io.Reader) (io.Reader, error) {
	st, err := m.store()
	if err != nil {
		return nil, err
	}
	return st.Transform(ctx, id, mediaType, tenantDomain, content)
}

// ValidateMediaTypePathParam checks the media type path parameter against
// the configured allow-list.
func (m *Manager) ValidateMediaTypePathParam(mediaType string) error {
	return m.policy.ValidateType(mediaType)
}

// ValidateFileUploadMediaTypes checks the declared content type of an upload
// against the media type path parameter and the configured allow-list.
func (m *Manager) ValidateFileUploadMediaTypes(mediaType, contentType string) error {
	return m.policy.ValidateUpload(mediaType, contentType)
}

// ValidateMediaSize rejects uploads above the configured maximum before any
// storage I/O happens.
func (m *Manager) ValidateMediaSize(size int64) error {
	return domain.ValidateMediaSize(size, m.cfg.MaxSizeBytes)
}

// MaxSizeBytes exposes the configured limit so the transport can cap
// request bodies with the same number.
func (m *Manager) MaxSizeBytes() int64 {
	return m.cfg.MaxSizeBytes
}
