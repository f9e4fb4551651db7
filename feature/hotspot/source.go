package hotspot

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

const kindPrefix = "HS"

// Source collects live hotspot sessions from one router. Hotspot users share
// a flat rate configured per router; there is no per-subscriber plan.
type Source struct {
	router config.Router
	client routeros.Client
	policy reconcile.RatePolicy
	log    *zap.Logger
}

// NewSource builds a hotspot source for one router.
func NewSource(router config.Router, client routeros.Client, policy reconcile.RatePolicy, log *zap.Logger) *Source {
	return &Source{
		router: router,
		client: client,
		policy: policy,
		log:    log.With(zap.String("router", router.Name)),
	}
}

// Name implements reconcile.Source.
func (s *Source) Name() string { return "hotspot/" + s.router.Name }

// Kind implements reconcile.Source.
func (s *Source) Kind() string { return inventory.CommentHotspot }

// Collect implements reconcile.Source. Circuits are keyed by MAC when the
// router keeps MAC identities, falling back to the username; sessions with
// neither are skipped.
func (s *Source) Collect(ctx context.Context) ([]reconcile.Entry, error) {
	sessions, err := s.client.FetchResource(ctx, "/ip/hotspot/active", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: hotspot sessions on %s: %v", reconcile.ErrSourceUnavailable, s.router.Name, err)
	}

	max, min := s.rates()

	entries := make([]reconcile.Entry, 0, len(sessions))
	for _, session := range sessions {
		user := session.Str("user")
		mac := session.Str("mac-address")

		var name string
		switch {
		case s.router.Hotspot.MACKeyed() && mac != "":
			name = kindPrefix + "-" + utils.CompactMAC(mac)
		case user != "":
			name = kindPrefix + "-" + user
		default:
			s.log.Debug("Skipping hotspot session without user or MAC",
				zap.String("address", session.Str("address")))
			continue
		}

		entries = append(entries, reconcile.Entry{
			CircuitName: name,
			DeviceName:  user,
			MAC:         mac,
			IPv4:        session.Str("address"),
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

// rates stores the configured cap verbatim as the max; only the min is
// derived from it.
func (s *Source) rates() (rate.Pair, rate.Pair) {
	base := rate.Pair{
		RxMbps: s.router.Hotspot.DownloadLimitMbps,
		TxMbps: s.router.Hotspot.UploadLimitMbps,
	}
	if base.RxMbps == 0 && base.TxMbps == 0 {
		return s.policy.DeriveDefault()
	}
	max := rate.Clamp(base)
	return max, rate.DeriveMin(max, s.policy.MinFactor)
}
