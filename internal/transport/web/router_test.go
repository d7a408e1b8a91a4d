package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wso2-attic/identity-media/internal/auth/blacklist"
	"github.com/wso2-attic/identity-media/internal/auth/token"
	"github.com/wso2-attic/identity-media/internal/domain"
	filestorage "github.com/wso2-attic/identity-media/internal/infra/storage/file"
	"github.com/wso2-attic/identity-media/internal/media"
	"github.com/wso2-attic/identity-media/internal/tenant"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/health"
	mediahandler "github.com/wso2-attic/identity-media/internal/transport/web/v1/media"
	tokenhandler "github.com/wso2-attic/identity-media/internal/transport/web/v1/token"
)

// memKV is an in-memory stand-in for the redis cache.
type memKV struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemKV() *memKV { return &memKV{keys: make(map[string]struct{})} }

func (m *memKV) SetNX(_ context.Context, key string, _ []byte, _ int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = struct{}{}
	return true, nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[key]
	return ok, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T, maxSize int64) (*httptest.Server, *token.Manager, string) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)

	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "media"), 0o755); err != nil {
		t.Fatal(err)
	}
	tenants, err := tenant.NewStaticResolver("localhost:1")
	if err != nil {
		t.Fatal(err)
	}
	fs, err := filestorage.New(base, tenants, quiet)
	if err != nil {
		t.Fatal(err)
	}
	manager := media.NewManager(media.Config{
		StoreType:    "file",
		MaxSizeBytes: maxSize,
		ContentTypes: map[string][]string{"image": {"png"}},
	}, map[string]domain.StorageSystem{"file": fs}, quiet)

	tm := token.New("test-secret", "identity-media", time.Hour)
	bl := blacklist.NewStore(newMemKV())

	hh := &health.Handler{Log: quiet, Cache: okPinger{}}
	mh := &mediahandler.Handler{Log: quiet, Store: manager, DefaultTenant: "localhost"}
	th := &tokenhandler.Handler{Log: quiet, Tokens: tm, Blacklist: bl}
	auth := mw.AuthDeps{Tokens: tm, Blacklist: bl}

	srv := httptest.NewServer(newRouter(hh, mh, th, auth, maxSize, quiet))
	t.Cleanup(srv.Close)
	return srv, tm, filepath.Join(base, "media")
}

func issueToken(t *testing.T, tm *token.Manager, userID string) string {
	t.Helper()
	tok, _, err := tm.Issue(context.Background(), userID, userID+"@test")
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func multipartUpload(t *testing.T, metadata string, body []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatal(err)
	}
	if metadata != "" {
		if err := w.WriteField("metadata", metadata); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func doRequest(t *testing.T, method, url, bearer string, body io.Reader, contentType string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var env map[string]any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&env)
		resp.Body.Close()
	}
	return resp, env
}

func uploadMedia(t *testing.T, srv *httptest.Server, bearer, metadata string, body []byte) string {
	t.Helper()
	buf, ct := multipartUpload(t, metadata, body)
	resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/media/image", bearer, buf, ct)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, env = %v", resp.StatusCode, env)
	}
	data, _ := env["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("upload response has no id: %v", env)
	}
	return id
}

func TestUploadDownloadDeleteFlow(t *testing.T) {
	srv, tm, _ := newTestServer(t, 1<<20)
	alice := issueToken(t, tm, "alice")
	bob := issueToken(t, tm, "bob")
	carol := issueToken(t, tm, "carol")

	id := uploadMedia(t, srv, alice,
		`{"tag":"avatar","security":{"allowedAll":false,"allowedUserIds":["bob"]}}`,
		[]byte("png bytes"))

	// protected media is not on the public path
	resp, _ := doRequest(t, http.MethodGet, srv.URL+"/v1/public/image/"+id, "", nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("public download of protected media = %d, want 403", resp.StatusCode)
	}

	// bob is on the allow-list
	resp, _ = doRequest(t, http.MethodGet, srv.URL+"/v1/content/image/"+id, bob, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bob download = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "png bytes" {
		t.Fatalf("downloaded content = %q", body)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Fatalf("content type = %q", got)
	}

	// carol is not
	resp, _ = doRequest(t, http.MethodGet, srv.URL+"/v1/content/image/"+id, carol, nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("carol download = %d, want 403", resp.StatusCode)
	}

	// management is owner-only
	resp, _ = doRequest(t, http.MethodGet, srv.URL+"/v1/media/image/"+id, bob, nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("bob info = %d, want 403", resp.StatusCode)
	}
	resp, env := doRequest(t, http.MethodGet, srv.URL+"/v1/media/image/"+id, alice, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("alice info = %d, env = %v", resp.StatusCode, env)
	}

	resp, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/media/image/"+id, bob, nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("bob delete = %d, want 403", resp.StatusCode)
	}
	resp, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/media/image/"+id, alice, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("alice delete = %d, want 200", resp.StatusCode)
	}

	// after deletion the media is gone for everyone, checks fail closed
	resp, _ = doRequest(t, http.MethodGet, srv.URL+"/v1/content/image/"+id, bob, nil, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("download after delete = %d, want 403", resp.StatusCode)
	}
}

func TestPublicMediaFlow(t *testing.T) {
	srv, tm, _ := newTestServer(t, 1<<20)
	alice := issueToken(t, tm, "alice")

	id := uploadMedia(t, srv, alice, `{"security":{"allowedAll":true}}`, []byte("logo"))

	resp, _ := doRequest(t, http.MethodGet, srv.URL+"/v1/public/image/"+id, "", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public download = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "logo" {
		t.Fatalf("content = %q", body)
	}
}

func TestUploadRejections(t *testing.T) {
	srv, tm, mediaRoot := newTestServer(t, 8)
	alice := issueToken(t, tm, "alice")

	// no token
	buf, ct := multipartUpload(t, "", []byte("x"))
	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/v1/media/image", "", buf, ct)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous upload = %d, want 401", resp.StatusCode)
	}

	// unsupported media type path param
	buf, ct = multipartUpload(t, "", []byte("x"))
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/v1/media/video", alice, buf, ct)
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("video upload = %d, want 415", resp.StatusCode)
	}

	// content above the size limit
	buf, ct = multipartUpload(t, "", bytes.Repeat([]byte("a"), 9))
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/v1/media/image", alice, buf, ct)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload = %d, want 413", resp.StatusCode)
	}

	// rejected uploads leave nothing under the storage root
	entries, err := os.ReadDir(mediaRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("storage root not empty after rejected uploads: %v", entries)
	}
}

func TestTokenRevocation(t *testing.T) {
	srv, _, _ := newTestServer(t, 1<<20)

	// issue over HTTP
	resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/token", "",
		strings.NewReader(`{"userId":"alice","login":"alice@test"}`), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("issue = %d, env = %v", resp.StatusCode, env)
	}
	data, _ := env["data"].(map[string]any)
	tok, _ := data["token"].(string)
	if tok == "" {
		t.Fatalf("no token in response: %v", env)
	}

	// token works
	uploadMedia(t, srv, tok, "", []byte("x"))

	// revoke, then it does not
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/v1/token/revoke", tok, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revoke = %d", resp.StatusCode)
	}
	buf, ct := multipartUpload(t, "", []byte("x"))
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/v1/media/image", tok, buf, ct)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("upload with revoked token = %d, want 401", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t, 1<<20)

	for _, path := range []string{"/v1/healthz", "/v1/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _, _ := newTestServer(t, 1<<20)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/healthz", nil)
	req.Header.Set(mw.HeaderRequestID, "req-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(mw.HeaderRequestID); got != "req-123" {
		t.Fatalf("request id = %q, want req-123", got)
	}
}
