// Package file implements the media storage contract on a mounted local
// file system. Content lives at
// <root>/<type>/<tenantId>/<frag-N>/.../<frag-1>/<id> with a JSON metadata
// sidecar named <id>_meta.json in the same directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wso2-attic/identity-media/internal/domain"
)

const (
	// The mount base must contain a pre-created media folder; the store
	// refuses to operate without it.
	preCreatedMediaDir = "media"

	publicDownloadAccess    = "public"
	protectedDownloadAccess = "content"
)

type Store struct {
	root    string
	tenants domain.TenantResolver
	log     *log.Logger
}

var _ domain.StorageSystem = (*Store)(nil)

func New(mountBase string, tenants domain.TenantResolver, logger *log.Logger) (*Store, error) {
	root := filepath.Join(mountBase, preCreatedMediaDir)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("a pre-created %q folder within the configured media mount base directory %s is expected",
			preCreatedMediaDir, mountBase)
	}
	return &Store{root: root, tenants: tenants, log: logger}, nil
}

func (s *Store) AddMedia(ctx context.Context, content io.Reader, meta domain.MediaMetadata, id, tenantDomain string) (string, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return "", err
	}
	mediaType, _, _ := strings.Cut(meta.ContentType, "/")

	dir, err := s.ensureMediaDir(mediaType, tenantID, id)
	if err != nil {
		return "", fmt.Errorf("uploading media %s for tenant %s: %w", id, tenantDomain, err)
	}

	target := filepath.Join(dir, id)
	if err := copyToFile(target, content); err != nil {
		return "", fmt.Errorf("uploading media %s for tenant %s: %w", id, tenantDomain, err)
	}

	now := millisNow()
	security := meta.Security
	if security.AllowedAll {
		// A public file needs no allow-list; don't persist a stale one.
		security.AllowedUserIDs = nil
	}
	doc := &domain.Sidecar{
		SchemaVersion:    domain.SidecarSchemaVersion,
		Name:             meta.Name,
		ContentType:      meta.ContentType,
		Tag:              meta.Tag,
		ResourceOwnerID:  meta.ResourceOwnerID,
		Security:         &security,
		CreatedTime:      now,
		LastAccessedTime: now,
	}
	if err := writeSidecar(filepath.Join(dir, sidecarName(id)), doc); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("uploading media %s for tenant %s: %w", id, tenantDomain, err)
	}

	s.log.Printf("stored media id=%s type=%s tenant=%d", id, mediaType, tenantID)
	return id, nil
}

func (s *Store) GetFile(ctx context.Context, id, tenantDomain, mediaType string) (*domain.DataContent, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return nil, err
	}
	dir, err := s.probeMediaDir(mediaType, tenantID, id)
	if err != nil {
		return nil, err
	}

	// Content is never served without a readable sidecar: an orphaned
	// content file reports not found.
	doc, err := readSidecar(filepath.Join(dir, sidecarName(id)))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("media of type %s with id %s: %w", mediaType, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("opening media %s: %w", id, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading media %s: %w", id, err)
	}

	s.touchLastAccessed(dir, id, doc)

	return &domain.DataContent{
		Content:     f,
		ContentType: doc.ContentType,
		Length:      info.Size(),
	}, nil
}

// touchLastAccessed refreshes the advisory last-accessed timestamp. Best
// effort: a failure is logged and never fails the read.
func (s *Store) touchLastAccessed(dir, id string, doc *domain.Sidecar) {
	doc.LastAccessedTime = millisNow()
	if err := writeSidecar(filepath.Join(dir, sidecarName(id)), doc); err != nil {
		s.log.Printf("updating last accessed time for media %s: %v", id, err)
	}
}

func (s *Store) IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error) {
	doc, err := s.sidecar(id, mediaType, tenantDomain)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return domain.IsDownloadAllowedForPublic(doc), nil
}

func (s *Store) IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	doc, err := s.sidecar(id, mediaType, tenantDomain)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return domain.IsDownloadAllowedForUser(doc, userID), nil
}

func (s *Store) IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	doc, err := s.sidecar(id, mediaType, tenantDomain)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return domain.IsManagementAllowedForUser(doc, userID), nil
}

func (s *Store) GetMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*domain.MediaInformation, error) {
	doc, err := s.sidecar(id, mediaType, tenantDomain)
	if err != nil {
		return nil, err
	}

	access := protectedDownloadAccess
	if domain.IsDownloadAllowedForPublic(doc) {
		access = publicDownloadAccess
	}
	return &domain.MediaInformation{
		Links:    []string{fmt.Sprintf("/%s/%s/%s", access, mediaType, id)},
		Metadata: *doc,
	}, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id, mediaType, tenantDomain string) error {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return err
	}
	dir, err := s.probeMediaDir(mediaType, tenantID, id)
	if err != nil {
		return err
	}

	contentPath := filepath.Join(dir, id)
	if _, err := os.Stat(contentPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete request for media of type %s with id %s: %w", mediaType, id, domain.ErrNotFound)
		}
		return fmt.Errorf("deleting media %s: %w", id, err)
	}

	// Sidecar goes first: a crash mid-delete leaves the media already
	// invisible to the access evaluator instead of a dangling reference.
	if err := os.Remove(filepath.Join(dir, sidecarName(id))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting media metadata %s: %w", id, err)
	}
	if err := os.Remove(contentPath); err != nil {
		return fmt.Errorf("deleting media %s: %w", id, err)
	}

	s.log.Printf("deleted media id=%s type=%s tenant=%d", id, mediaType, tenantID)
	return nil
}

func (s *Store) Transform(ctx context.Context, id, mediaType, tenantDomain string, content io.Reader) (io.Reader, error) {
	return content, nil
}

// sidecar loads the metadata document for the given media, without touching
// the content file.
func (s *Store) sidecar(id, mediaType, tenantDomain string) (*domain.Sidecar, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return nil, err
	}
	dir, err := s.probeMediaDir(mediaType, tenantID, id)
	if err != nil {
		return nil, err
	}
	return readSidecar(filepath.Join(dir, sidecarName(id)))
}

func copyToFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating content file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing content file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing content file: %w", err)
	}
	return nil
}

func millisNow() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
