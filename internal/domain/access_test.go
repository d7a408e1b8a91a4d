package domain

import "testing"

func protectedDoc(owner string, allowed ...string) *Sidecar {
	return &Sidecar{
		SchemaVersion:   SidecarSchemaVersion,
		ResourceOwnerID: owner,
		Security:        &FileSecurity{AllowedAll: false, AllowedUserIDs: allowed},
	}
}

func TestProtectedMediaAccess(t *testing.T) {
	// alice uploads a protected file and grants bob download access
	doc := protectedDoc("alice", "bob")

	if IsDownloadAllowedForPublic(doc) {
		t.Error("protected media must not be publicly downloadable")
	}
	if !IsDownloadAllowedForUser(doc, "bob") {
		t.Error("bob is on the allow-list and must be able to download")
	}
	if IsDownloadAllowedForUser(doc, "carol") {
		t.Error("carol is not on the allow-list")
	}
	if IsManagementAllowedForUser(doc, "bob") {
		t.Error("download access must not grant management access")
	}
	if !IsManagementAllowedForUser(doc, "alice") {
		t.Error("the owner must be able to manage the media")
	}
}

func TestPublicMediaAccess(t *testing.T) {
	doc := &Sidecar{
		ResourceOwnerID: "alice",
		Security:        &FileSecurity{AllowedAll: true},
	}

	if !IsDownloadAllowedForPublic(doc) {
		t.Error("public media must be downloadable without auth")
	}
	if !IsDownloadAllowedForUser(doc, "anyone") {
		t.Error("public media must be downloadable by any user")
	}
	if !IsDownloadAllowedForUser(doc, "") {
		t.Error("public media must be downloadable anonymously")
	}
}

func TestAccessFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		doc  *Sidecar
	}{
		{"nil document", nil},
		{"nil security", &Sidecar{ResourceOwnerID: "alice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if IsDownloadAllowedForPublic(tc.doc) {
				t.Error("public check must deny")
			}
			if IsDownloadAllowedForUser(tc.doc, "alice") {
				t.Error("protected check must deny")
			}
		})
	}
}

func TestManagementRequiresNonBlankOwner(t *testing.T) {
	if IsManagementAllowedForUser(&Sidecar{ResourceOwnerID: ""}, "") {
		t.Error("blank owner must never match")
	}
	if IsManagementAllowedForUser(&Sidecar{ResourceOwnerID: "   "}, "") {
		t.Error("whitespace owner must never match")
	}
	if IsManagementAllowedForUser(nil, "alice") {
		t.Error("nil document must deny management")
	}
}
