// Package tenant resolves tenant domains to the numeric tenant ids used in
// storage paths. Real resolution happens upstream in the identity platform;
// this static resolver covers deployments configured with a fixed
// domain-to-id mapping.
package tenant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wso2-attic/identity-media/internal/domain"
)

type StaticResolver struct {
	ids map[string]int
}

var _ domain.TenantResolver = (*StaticResolver)(nil)

// NewStaticResolver parses a "domain:id,domain:id" mapping.
func NewStaticResolver(mapping string) (*StaticResolver, error) {
	ids := make(map[string]int)
	for _, pair := range strings.Split(mapping, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid tenant mapping %q, want domain:id", pair)
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant id in mapping %q: %w", pair, err)
		}
		ids[strings.TrimSpace(name)] = id
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("tenant mapping is empty")
	}
	return &StaticResolver{ids: ids}, nil
}

func (r *StaticResolver) TenantID(tenantDomain string) (int, error) {
	id, ok := r.ids[tenantDomain]
	if !ok {
		return 0, fmt.Errorf("%w: unknown tenant domain %q", domain.ErrBadParams, tenantDomain)
	}
	return id, nil
}
