// Package database is a placeholder media storage backend. Persisting media
// in a relational database is not implemented; every operation rejects so a
// misconfigured deployment fails loudly instead of dropping uploads.
package database

import (
	"context"
	"fmt"
	"io"

	"github.com/wso2-attic/identity-media/internal/domain"
)

type Store struct{}

var _ domain.StorageSystem = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) AddMedia(ctx context.Context, content io.Reader, meta domain.MediaMetadata, id, tenantDomain string) (string, error) {
	return "", fmt.Errorf("database backed media upload: %w", domain.ErrNotImplemented)
}

func (s *Store) GetFile(ctx context.Context, id, tenantDomain, mediaType string) (*domain.DataContent, error) {
	return nil, fmt.Errorf("database backed media download: %w", domain.ErrNotImplemented)
}

func (s *Store) IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error) {
	return false, fmt.Errorf("database backed security evaluation: %w", domain.ErrNotImplemented)
}

func (s *Store) IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	return false, fmt.Errorf("database backed security evaluation: %w", domain.ErrNotImplemented)
}

func (s *Store) IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	return false, fmt.Errorf("database backed security evaluation: %w", domain.ErrNotImplemented)
}

func (s *Store) GetMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*domain.MediaInformation, error) {
	return nil, fmt.Errorf("database backed media information retrieval: %w", domain.ErrNotImplemented)
}

func (s *Store) DeleteMedia(ctx context.Context, id, mediaType, tenantDomain string) error {
	return fmt.Errorf("database backed media deletion: %w", domain.ErrNotImplemented)
}

func (s *Store) Transform(ctx context.Context, id, mediaType, tenantDomain string, content io.Reader) (io.Reader, error) {
	return content, nil
}
