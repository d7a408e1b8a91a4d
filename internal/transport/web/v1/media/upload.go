package media

import (
	"encoding/json"
	"net/http"

	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/logx"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	v1 "github.com/wso2-attic/identity-media/internal/transport/web/v1"
)

// Upload godoc
// @Summary     Upload media
// @Description multipart: file (required) + metadata (optional JSON part)
// @Tags        media
// @Accept      multipart/form-data
// @Produce     json
// @Param       type     path      string  true   "media type (e.g. image)"
// @Param       file     formData  file    true   "media content"
// @Param       metadata formData  string  false  "JSON metadata"
// @Success     201 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/media/{type} [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "media.upload"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	mediaType := r.PathValue("type")
	if err := h.Store.ValidateMediaTypePathParam(mediaType); err != nil {
		logx.Error(h.Log, reqID, op, "media type rejected", err, "type", mediaType)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logx.Error(h.Log, reqID, op, "parse form failed", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logx.Error(h.Log, reqID, op, "missing file part", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Validation order: type first, then size, both before any storage I/O.
	if err := h.Store.ValidateFileUploadMediaTypes(mediaType, contentType); err != nil {
		logx.Error(h.Log, reqID, op, "content type rejected", err, "content_type", contentType)
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Store.ValidateMediaSize(header.Size); err != nil {
		logx.Error(h.Log, reqID, op, "size rejected", err, "size", header.Size)
		v1.WriteDomainError(w, r, err)
		return
	}

	meta := domain.MediaMetadata{
		Name:        header.Filename,
		ContentType: contentType,
	}
	if s := r.FormValue("metadata"); s != "" {
		if err := json.Unmarshal([]byte(s), &meta); err != nil {
			logx.Error(h.Log, reqID, op, "metadata json invalid", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		// The declared content type and filename win over the metadata part.
		meta.ContentType = contentType
		if meta.Name == "" {
			meta.Name = header.Filename
		}
	}
	// Ownership always comes from the authenticated principal.
	meta.ResourceOwnerID = me.UserID

	id, err := h.Store.AddFile(r.Context(), file, meta, h.tenant(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "store failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "stored", "id", id, "type", mediaType, "size", header.Size)
	v1.WriteCreatedData(w, r, map[string]any{"id": id})
}
