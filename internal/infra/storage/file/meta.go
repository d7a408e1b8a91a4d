package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wso2-attic/identity-media/internal/domain"
)

const (
	metadataFileSuffix    = "_meta"
	metadataFileExtension = ".json"
)

func sidecarName(id string) string {
	return id + metadataFileSuffix + metadataFileExtension
}

// readSidecar loads and decodes the metadata document. A missing file maps
// to ErrNotFound; a present but unparseable file is an operational error,
// never something to guess around.
func readSidecar(path string) (*domain.Sidecar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("media metadata: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading media metadata: %w", err)
	}
	var doc domain.Sidecar
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing media metadata %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// writeSidecar encodes the document to a temporary name in the same
// directory and renames it into place. The sidecar therefore appears only
// after the content write has fully succeeded, and a crash mid-write leaves
// at worst an orphaned content file with no metadata, which the fail-closed
// access rules render inaccessible.
func writeSidecar(path string, doc *domain.Sidecar) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding media metadata: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing media metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing media metadata: %w", err)
	}
	return nil
}
