package domain

import "io"

// Current version of the metadata sidecar schema. Bump when fields are
// added so older documents stay readable.
const SidecarSchemaVersion = "1"

// MediaMetadata describes an uploaded media file as supplied by the caller.
type MediaMetadata struct {
	Name            string       `json:"name,omitempty"`
	ContentType     string       `json:"contentType,omitempty"`
	Tag             string       `json:"tag,omitempty"`
	ResourceOwnerID string       `json:"resourceOwnerId,omitempty"`
	Security        FileSecurity `json:"security"`
}

// FileSecurity is the access policy attached to a stored media file.
// AllowedAll marks the file public; otherwise only ids listed in
// AllowedUserIDs may download it.
type FileSecurity struct {
	AllowedAll     bool     `json:"allowedAll"`
	AllowedUserIDs []string `json:"allowedUserIds,omitempty"`
}

// Sidecar is the metadata document stored next to each content file
// (<id>_meta.json). Timestamps are millisecond epoch values kept as strings.
// Security is a pointer so a missing policy is distinguishable from an
// explicit one: absence always fails closed.
type Sidecar struct {
	SchemaVersion    string        `json:"schemaVersion,omitempty"`
	Name             string        `json:"name,omitempty"`
	ContentType      string        `json:"contentType,omitempty"`
	Tag              string        `json:"tag,omitempty"`
	ResourceOwnerID  string        `json:"resourceOwnerId,omitempty"`
	Security         *FileSecurity `json:"security,omitempty"`
	CreatedTime      string        `json:"createdTime,omitempty"`
	LastAccessedTime string        `json:"lastAccessedTime,omitempty"`
}

// MediaInformation is the sidecar document plus the derived download links,
// returned to privileged callers managing a media resource.
type MediaInformation struct {
	Links    []string `json:"links"`
	Metadata Sidecar  `json:"metadata"`
}

// DataContent is a handle to stored content, ready to be streamed to the
// caller byte for byte. The caller owns Content and must close it.
type DataContent struct {
	Content     io.ReadCloser
	ContentType string
	Length      int64
}

// Principal is the authenticated requester as resolved by the transport.
// The storage layer only ever sees the opaque UserID.
type Principal struct {
	UserID string
	Login  string
}
