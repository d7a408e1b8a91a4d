package web

import (
	"github.com/wso2-attic/identity-media/internal/domain"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/health"
	"github.com/wso2-attic/identity-media/internal/transport/web/v1/media"
)

// Deps collects everything the HTTP layer needs from the rest of the app.
type Deps struct {
	Store     media.Store
	Cache     health.Pinger
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}
