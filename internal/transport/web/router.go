package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/wso2-attic/identity-media/internal/docs"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/health"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/media"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/token"
)

func newRouter(hh *health.Handler, mh *media.Handler, th *token.Handler, auth mw.AuthDeps, maxUpload int64, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /v1/readyz", hh.Readiness)

	// tokens
	mux.HandleFunc("POST /v1/token", th.Issue)
	mux.HandleFunc("POST /v1/token/revoke", th.Revoke)

	// media
	mux.Handle("POST /v1/media/{type}", mw.RequireAuth(auth, limitBody(maxUpload, mh.Upload)))
	mux.Handle("GET /v1/media/{type}/{id}", mw.RequireAuth(auth, http.HandlerFunc(mh.Info)))
	mux.Handle("DELETE /v1/media/{type}/{id}", mw.RequireAuth(auth, http.HandlerFunc(mh.Delete)))
	mux.Handle("GET /v1/content/{type}/{id}", mw.RequireAuth(auth, http.HandlerFunc(mh.DownloadProtected)))
	mux.HandleFunc("GET /v1/public/{type}/{id}", mh.DownloadPublic)

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mw.WithRequestID(mw.Logging(logger)(mux))
}

// limitBody caps the request body a little above the media size limit so
// multipart framing does not count against the content itself; the manager
// still enforces the exact content size.
func limitBody(n int64, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, n+1<<20)
		}
		h(w, r)
	})
}
