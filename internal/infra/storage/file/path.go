package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wso2-attic/identity-media/internal/domain"
)

const idFragmentDelimiter = "-"

// mediaDir maps (root, media type, tenant id, identifier) to the directory
// holding the content file and its sidecar. The identifier is split on "-"
// and the fragments become nested directory levels in reverse order, fanning
// media out across many small directories. Purely deterministic: the same
// identifier always yields the same directory, no index needed.
func mediaDir(root, mediaType string, tenantID int, id string) string {
	dir := filepath.Join(root, mediaType, strconv.Itoa(tenantID))
	fragments := strings.Split(id, idFragmentDelimiter)
	for i := len(fragments) - 1; i >= 0; i-- {
		dir = filepath.Join(dir, fragments[i])
	}
	return dir
}

// ensureMediaDir resolves the media directory on the write path, creating
// every level. MkdirAll is idempotent, so concurrent uploads of distinct
// identifiers may race freely.
func (s *Store) ensureMediaDir(mediaType string, tenantID int, id string) (string, error) {
	dir := mediaDir(s.root, mediaType, tenantID, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}
	return dir, nil
}

// probeMediaDir resolves the media directory on the read/delete path. A
// missing level means the media does not exist; nothing is created.
func (s *Store) probeMediaDir(mediaType string, tenantID int, id string) (string, error) {
	dir := mediaDir(s.root, mediaType, tenantID, id)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("media of type %s with id %s: %w", mediaType, id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("probing media directory: %w", err)
	}
	return dir, nil
}
