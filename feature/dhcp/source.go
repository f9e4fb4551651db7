package dhcp

import (
	"context"
	"fmt"

	"shaper-sync/core/config"
	"shaper-sync/core/hierarchy"
	"shaper-sync/core/inventory"
	"shaper-sync/core/rate"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/utils"

	"go.uber.org/zap"
)

const kindPrefix = "DHCP"

// Source collects bound DHCP leases from one router, optionally restricted
// to a subset of its DHCP servers.
type Source struct {
	router config.Router
	client routeros.Client
	policy reconcile.RatePolicy
	log    *zap.Logger
}

// NewSource builds a DHCP source for one router.
func NewSource(router config.Router, client routeros.Client, policy reconcile.RatePolicy, log *zap.Logger) *Source {
	return &Source{
		router: router,
		client: client,
		policy: policy,
		log:    log.With(zap.String("router", router.Name)),
	}
}

// Name implements reconcile.Source.
func (s *Source) Name() string { return "dhcp/" + s.router.Name }

// Kind implements reconcile.Source.
func (s *Source) Kind() string { return inventory.CommentDHCP }

// Collect implements reconcile.Source. Leases without a MAC address cannot
// be shaped and are skipped; circuits key on the lease hostname when the
// client reports one, otherwise on the MAC.
func (s *Source) Collect(ctx context.Context) ([]reconcile.Entry, error) {
	leases, err := s.client.FetchResource(ctx, "/ip/dhcp-server/lease", map[string]string{"status": "bound"})
	if err != nil {
		return nil, fmt.Errorf("%w: dhcp leases on %s: %v", reconcile.ErrSourceUnavailable, s.router.Name, err)
	}

	max, min := s.rates()

	entries := make([]reconcile.Entry, 0, len(leases))
	for _, lease := range leases {
		if !s.serverAllowed(lease.Str("server")) {
			continue
		}
		mac := lease.Str("mac-address")
		if mac == "" {
			continue
		}

		hostname := lease.Str("host-name")
		name := kindPrefix + "-" + utils.CompactMAC(mac)
		if hostname != "" {
			name = kindPrefix + "-" + hostname
		}

		entries = append(entries, reconcile.Entry{
			CircuitName: name,
			DeviceName:  hostname,
			MAC:         mac,
			IPv4:        lease.Str("address"),
			Max:         max,
			Min:         min,
			Parent: hierarchy.ParentRequest{
				Router:     s.router.Name,
				KindPrefix: kindPrefix,
				Pool:       s.router.ManualParents,
			},
		})
	}
	return entries, nil
}

// serverAllowed applies the configured DHCP server filter. An empty filter
// or a "*" entry admits every server.
func (s *Source) serverAllowed(server string) bool {
	if len(s.router.DHCP.Servers) == 0 {
		return true
	}
	for _, want := range s.router.DHCP.Servers {
		if want == "*" || want == server {
			return true
		}
	}
	return false
}

// rates stores the configured cap verbatim as the max; only the min is
// derived from it.
func (s *Source) rates() (rate.Pair, rate.Pair) {
	base := rate.Pair{
		RxMbps: s.router.DHCP.DownloadLimitMbps,
		TxMbps: s.router.DHCP.UploadLimitMbps,
	}
	if base.RxMbps == 0 && base.TxMbps == 0 {
		return s.policy.DeriveDefault()
	}
	max := rate.Clamp(base)
	return max, rate.DeriveMin(max, s.policy.MinFactor)
}
