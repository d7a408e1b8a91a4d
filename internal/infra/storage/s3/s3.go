// Package s3 implements the media storage contract on an S3 compatible
// object store (MinIO). Object keys mirror the file backend's tenant
// partitioning: <type>/<tenantId>/<id> for content and
// <type>/<tenantId>/<id>_meta.json for the metadata sidecar; object stores
// need no fragment fan-out.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wso2-attic/identity-media/internal/domain"
)

const sidecarSuffix = "_meta.json"

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

type Store struct {
	cl      *minio.Client
	bucket  string
	tenants domain.TenantResolver
	log     *log.Logger
}

var _ domain.StorageSystem = (*Store)(nil)

func New(cfg Config, tenants domain.TenantResolver, logger *log.Logger) (*Store, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Store{cl: cl, bucket: cfg.Bucket, tenants: tenants, log: logger}, nil
}

func contentKey(mediaType string, tenantID int, id string) string {
	return fmt.Sprintf("%s/%d/%s", mediaType, tenantID, id)
}

func sidecarKey(mediaType string, tenantID int, id string) string {
	return contentKey(mediaType, tenantID, id) + sidecarSuffix
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (s *Store) AddMedia(ctx context.Context, content io.Reader, meta domain.MediaMetadata, id, tenantDomain string) (string, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return "", err
	}
	mediaType, _, _ := strings.Cut(meta.ContentType, "/")

	key := contentKey(mediaType, tenantID, id)
	if _, err := s.cl.PutObject(ctx, s.bucket, key, content, -1, minio.PutObjectOptions{
		ContentType: meta.ContentType,
	}); err != nil {
		return "", fmt.Errorf("uploading media %s for tenant %s: %w", id, tenantDomain, err)
	}

	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	security := meta.Security
	if security.AllowedAll {
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
	if err := s.putSidecar(ctx, sidecarKey(mediaType, tenantID, id), doc); err != nil {
		_ = s.cl.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
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

	doc, err := s.getSidecar(ctx, mediaType, tenantID, id)
	if err != nil {
		return nil, err
	}

	key := contentKey(mediaType, tenantID, id)
	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("media of type %s with id %s: %w", mediaType, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading media %s: %w", id, err)
	}
	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading media %s: %w", id, err)
	}

	doc.LastAccessedTime = strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.putSidecar(ctx, sidecarKey(mediaType, tenantID, id), doc); err != nil {
		s.log.Printf("updating last accessed time for media %s: %v", id, err)
	}

	return &domain.DataContent{
		Content:     obj,
		ContentType: doc.ContentType,
		Length:      info.Size,
	}, nil
}

func (s *Store) IsDownloadAllowedForPublicMedia(ctx context.Context, id, mediaType, tenantDomain string) (bool, error) {
	doc, err := s.sidecarForCheck(ctx, id, mediaType, tenantDomain)
	if doc == nil || err != nil {
		return false, err
	}
	return domain.IsDownloadAllowedForPublic(doc), nil
}

func (s *Store) IsDownloadAllowedForProtectedMedia(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	doc, err := s.sidecarForCheck(ctx, id, mediaType, tenantDomain)
	if doc == nil || err != nil {
		return false, err
	}
	return domain.IsDownloadAllowedForUser(doc, userID), nil
}

func (s *Store) IsMediaManagementAllowedForEndUser(ctx context.Context, id, mediaType, tenantDomain, userID string) (bool, error) {
	doc, err := s.sidecarForCheck(ctx, id, mediaType, tenantDomain)
	if doc == nil || err != nil {
		return false, err
	}
	return domain.IsManagementAllowedForUser(doc, userID), nil
}

func (s *Store) GetMediaInformation(ctx context.Context, id, mediaType, tenantDomain string) (*domain.MediaInformation, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return nil, err
	}
	doc, err := s.getSidecar(ctx, mediaType, tenantID, id)
	if err != nil {
		return nil, err
	}

	access := "content"
	if domain.IsDownloadAllowedForPublic(doc) {
		access = "public"
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

	key := contentKey(mediaType, tenantID, id)
	if _, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("delete request for media of type %s with id %s: %w", mediaType, id, domain.ErrNotFound)
		}
		return fmt.Errorf("deleting media %s: %w", id, err)
	}

	// Sidecar first, same as the file backend.
	if err := s.cl.RemoveObject(ctx, s.bucket, sidecarKey(mediaType, tenantID, id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting media metadata %s: %w", id, err)
	}
	if err := s.cl.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting media %s: %w", id, err)
	}
	return nil
}

func (s *Store) Transform(ctx context.Context, id, mediaType, tenantDomain string, content io.Reader) (io.Reader, error) {
	return content, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.cl.BucketExists(ctx, s.bucket)
	return err
}

// sidecarForCheck loads the sidecar for an access check: missing media
// yields (nil, nil) so the check reports false instead of erroring.
func (s *Store) sidecarForCheck(ctx context.Context, id, mediaType, tenantDomain string) (*domain.Sidecar, error) {
	tenantID, err := s.tenants.TenantID(tenantDomain)
	if err != nil {
		return nil, err
	}
	doc, err := s.getSidecar(ctx, mediaType, tenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (s *Store) getSidecar(ctx context.Context, mediaType string, tenantID int, id string) (*domain.Sidecar, error) {
	obj, err := s.cl.GetObject(ctx, s.bucket, sidecarKey(mediaType, tenantID, id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading media metadata %s: %w", id, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("media metadata: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading media metadata %s: %w", id, err)
	}
	var doc domain.Sidecar
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing media metadata %s: %w", id, err)
	}
	return &doc, nil
}

func (s *Store) putSidecar(ctx context.Context, key string, doc *domain.Sidecar) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding media metadata: %w", err)
	}
	_, err = s.cl.PutObject(ctx, s.bucket, key, bytes.NewReader(b), int64(len(b)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("writing media metadata: %w", err)
	}
	return nil
}
