// Package token exposes token issuance and revocation. Identity itself is
// managed upstream; this surface only mints bearer tokens for a known user
// id so other services and operators can call the media API.
package token

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/logx"
	"github.com/wso2-attic/identity-media/internal/transport/web/mw"
	v1 "github.com/wso2-attic/identity-media/internal/transport/web/v1"
)

type Handler struct {
	Log       *log.Logger
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

// Issue godoc
// @Summary     Issue bearer token
// @Description Mints a token for the given user id.
// @Tags        token
// @Accept      json
// @Produce     json
// @Param       body body object true "{\"userId\":\"...\",\"login\":\"...\"}"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Router      /v1/token [post]
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	const op = "token.issue"
	reqID := mw.RequestIDFromCtx(r.Context())

	var in struct {
		UserID string `json:"userId"`
		Login  string `json:"login"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.UserID) == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	tok, claims, err := h.Tokens.Issue(r.Context(), in.UserID, in.Login)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "issued", "user_id", in.UserID, "jti", claims.JTI)
	v1.WriteOKData(w, r, map[string]any{
		"token":   tok,
		"expires": claims.ExpiresAt.UTC(),
	})
}

// Revoke godoc
// @Summary     Revoke current token
// @Description Blacklists the presented token until it expires.
// @Tags        token
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Router      /v1/token/revoke [post]
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	const op = "token.revoke"
	reqID := mw.RequestIDFromCtx(r.Context())

	raw := bearer(r.Header.Get("Authorization"))
	if raw == "" {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	claims, err := h.Tokens.Parse(r.Context(), raw)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	if err := h.Blacklist.Revoke(r.Context(), claims.JTI, claims.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "jti", claims.JTI)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "revoked", "jti", claims.JTI)
	v1.WriteOKData(w, r, map[string]any{"revoked": true})
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
