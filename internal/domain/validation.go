package domain

import (
	"fmt"
	"strings"
)

// ContentTypePolicy is the configured allow-list of media types and their
// permitted sub-types, e.g. {"image": ["png", "jpeg"]}.
type ContentTypePolicy struct {
	Allowed map[string][]string
}

// ValidateType checks that the media type path parameter names a supported
// high-level content type.
func (p ContentTypePolicy) ValidateType(mediaType string) error {
	if len(p.Allowed) == 0 {
		return fmt.Errorf("%w: no media content types are configured", ErrUnsupportedMediaType)
	}
	if _, ok := p.Allowed[mediaType]; !ok {
		return fmt.Errorf("%w: unsupported media type %q", ErrUnsupportedMediaType, mediaType)
	}
	return nil
}

// ValidateUpload checks an upload's declared content type against the media
// type path parameter and the allow-list: the declared primary type must
// match the path parameter, the primary type must be allowed, and the
// sub-type must be on that type's sub-type list. All three must hold.
func (p ContentTypePolicy) ValidateUpload(mediaType, contentType string) error {
	primary, sub, ok := splitContentType(contentType)
	if !ok || primary != mediaType {
		return fmt.Errorf("%w: uploading media of content type %q as %q is not allowed",
			ErrUnsupportedMediaType, contentType, mediaType)
	}
	subTypes, found := p.Allowed[primary]
	if !found {
		return fmt.Errorf("%w: uploading media of content type %q is not allowed",
			ErrUnsupportedMediaType, contentType)
	}
	for _, s := range subTypes {
		if s == sub {
			return nil
		}
	}
	return fmt.Errorf("%w: uploading media of content type %q is not allowed",
		ErrUnsupportedMediaType, contentType)
}

func splitContentType(ct string) (primary, sub string, ok bool) {
	primary, sub, ok = strings.Cut(ct, "/")
	if !ok || primary == "" || sub == "" {
		return "", "", false
	}
	return primary, sub, true
}

// ValidateMediaSize rejects uploads above maxBytes. Called before any byte
// reaches the storage root, so a rejected upload never leaves partial files.
func ValidateMediaSize(size, maxBytes int64) error {
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: media size %d bytes exceeds the allowed maximum %d bytes",
			ErrMediaTooLarge, size, maxBytes)
	}
	return nil
}
