package media

import (
	"io"
	"net/http"
	"strconv"

	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/logx"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	v1 "github.com/wso2-attic/identity-media/internal/transport/web/v1"
)

// DownloadPublic godoc
// @Summary     Download public media
// @Description Streams the content of a publicly accessible media resource.
// @Tags        media
// @Produce     octet-stream
// @Param       type path string true "media type"
// @Param       id   path string true "media id"
// @Success     200 {file}   file
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/public/{type}/{id} [get]
func (h *Handler) DownloadPublic(w http.ResponseWriter, r *http.Request) {
	const op = "media.download.public"
	h.download(w, r, op, func(mediaType, id, tenant string) (bool, error) {
		return h.Store.IsDownloadAllowedForPublicMedia(r.Context(), id, mediaType, tenant)
	})
}

// DownloadProtected godoc
// @Summary     Download protected media
// @Description Streams content the authenticated user is allowed to read.
// @Tags        media
// @Produce     octet-stream
// @Param       type path string true "media type"
// @Param       id   path string true "media id"
// @Success     200 {file}   file
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/content/{type}/{id} [get]
func (h *Handler) DownloadProtected(w http.ResponseWriter, r *http.Request) {
	const op = "media.download.protected"
	me, ok := mw.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	h.download(w, r, op, func(mediaType, id, tenant string) (bool, error) {
		return h.Store.IsDownloadAllowedForProtectedMedia(r.Context(), id, mediaType, tenant, me.UserID)
	})
}

// download runs the access check and, when it passes, streams the stored
// content byte for byte. A failed check on an existing resource is 403; a
// missing resource is 404 from the read itself.
func (h *Handler) download(w http.ResponseWriter, r *http.Request, op string, allowed func(mediaType, id, tenant string) (bool, error)) {
	reqID := mw.RequestIDFromCtx(r.Context())
	mediaType := r.PathValue("type")
	id := r.PathValue("id")
	tenant := h.tenant(r)

	if err := h.Store.ValidateMediaTypePathParam(mediaType); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	ok, err := allowed(mediaType, id, tenant)
	if err != nil {
		logx.Error(h.Log, reqID, op, "access check failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	dc, err := h.Store.ReadContent(r.Context(), id, tenant, mediaType)
	if err != nil {
		logx.Error(h.Log, reqID, op, "read failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	defer dc.Content.Close()

	if dc.ContentType != "" {
		w.Header().Set("Content-Type", dc.ContentType)
	}
	if dc.Length > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dc.Length, 10))
	}
	w.Header().Set(mw.HeaderRequestID, reqID)
	if _, err := io.Copy(w, dc.Content); err != nil {
		// headers are gone, nothing to send the client
		logx.Error(h.Log, reqID, op, "stream interrupted", err, "id", id)
		return
	}
	logx.Info(h.Log, reqID, op, "served", "id", id, "size", dc.Length)
}
