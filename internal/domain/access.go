package domain

import "strings"

// Access evaluation is a pure function of the sidecar document and the
// requester identity; no I/O happens here. Ambiguity never grants access:
// a nil or malformed security policy denies everything.

// IsDownloadAllowedForPublic reports whether the file may be served on the
// unauthenticated download path.
func IsDownloadAllowedForPublic(doc *Sidecar) bool {
	if doc == nil || doc.Security == nil {
		return false
	}
	return doc.Security.AllowedAll
}

// IsDownloadAllowedForUser reports whether the given user may download the
// file: public files are open to everyone, protected files only to users on
// the allow-list.
func IsDownloadAllowedForUser(doc *Sidecar, userID string) bool {
	if doc == nil || doc.Security == nil {
		return false
	}
	if doc.Security.AllowedAll {
		return true
	}
	if userID == "" {
		return false
	}
	for _, allowed := range doc.Security.AllowedUserIDs {
		if allowed == userID {
			return true
		}
	}
	return false
}

// IsManagementAllowedForUser reports whether the given user may manage the
// file. Ownership governs management, not the download allow-list.
func IsManagementAllowedForUser(doc *Sidecar, userID string) bool {
	if doc == nil {
		return false
	}
	owner := strings.TrimSpace(doc.ResourceOwnerID)
	return owner != "" && owner == userID
}
