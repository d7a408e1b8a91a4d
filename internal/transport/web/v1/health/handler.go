package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/logx"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	v1 "github.com/wso2-attic/identity-media/internal/transport/web/v1"
)

type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	Log   *log.Logger
	Cache Pinger
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Reports the process is up; no dependencies are checked.
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=string}
// @Router       /v1/healthz [get]
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	const op = "health.liveness"
	reqID := mw.RequestIDFromCtx(r.Context())

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOKData(w, r, "ok")
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Reports whether dependencies (cache) answer.
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.APIEnvelope{data=string}
// @Failure      500  {object}  domain.APIEnvelope
// @Router       /v1/readyz [get]
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	const op = "health.readiness"
	reqID := mw.RequestIDFromCtx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			logx.Error(h.Log, reqID, op, "cache ping failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	logx.Info(h.Log, reqID, op, "ready")
	v1.WriteOKData(w, r, "ready")
}
