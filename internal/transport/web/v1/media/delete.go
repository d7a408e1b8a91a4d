package media

import (
	"net/http"

	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/logx"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	v1 "github.com/wso2-attic/identity-media/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Delete media
// @Description Removes the media resource and its metadata. Owner only.
// @Tags        media
// @Produce     json
// @Param       type path string true "media type"
// @Param       id   path string true "media id"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/media/{type}/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "media.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	me, ok := mw.PrincipalFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	mediaType := r.PathValue("type")
	id := r.PathValue("id")
	tenant := h.tenant(r)

	if err := h.Store.ValidateMediaTypePathParam(mediaType); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	allowed, err := h.Store.IsMediaManagementAllowedForEndUser(r.Context(), id, mediaType, tenant, me.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "management check failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if !allowed {
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	if err := h.Store.DeleteMedia(r.Context(), id, mediaType, tenant); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "deleted", "id", id)
	v1.WriteOKData(w, r, map[string]any{"deleted": true, "id": id})
}
