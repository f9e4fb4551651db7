package ppp

import (
	"context"
	"fmt"

	"shaper-sync/core/config"
	"shaper-sync/core/hierarchy"
	"shaper-sync/core/inventory"
	"shaper-sync/core/rate"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"

	"go.uber.org/zap"
)

const kindPrefix = "PPP"

// Source collects PPPoE subscribers from one router by joining the secret
// list against the live session list. Only secrets with an active session
// become entries; the secret name is the circuit identity.
type Source struct {
	router config.Router
	client routeros.Client
	policy reconcile.RatePolicy
	cache  *rate.ProfileCache
	log    *zap.Logger
}

// NewSource builds a PPP source for one router.
func NewSource(router config.Router, client routeros.Client, policy reconcile.RatePolicy, cacheSize int, log *zap.Logger) *Source {
	return &Source{
		router: router,
		client: client,
		policy: policy,
		cache:  rate.NewProfileCache(cacheSize),
		log:    log.With(zap.String("router", router.Name)),
	}
}

// Name implements reconcile.Source.
func (s *Source) Name() string { return "ppp/" + s.router.Name }

// Kind implements reconcile.Source.
func (s *Source) Kind() string { return inventory.CommentPPP }

// Collect implements reconcile.Source. The profile cache is flushed up front
// so profile edits on the router take effect within one scan interval.
func (s *Source) Collect(ctx context.Context) ([]reconcile.Entry, error) {
	s.cache.Flush()

	secrets, err := s.client.FetchResource(ctx, "/ppp/secret", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ppp secrets on %s: %v", reconcile.ErrSourceUnavailable, s.router.Name, err)
	}
	active, err := s.client.FetchResource(ctx, "/ppp/active", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ppp sessions on %s: %v", reconcile.ErrSourceUnavailable, s.router.Name, err)
	}

	secretByName := make(map[string]routeros.Record, len(secrets))
	for _, secret := range secrets {
		if secret.Bool("disabled") {
			continue
		}
		secretByName[secret.Str("name")] = secret
	}

	entries := make([]reconcile.Entry, 0, len(active))
	for _, session := range active {
		name := session.Str("name")
		secret, ok := secretByName[name]
		if !ok {
			// A session without a matching enabled secret; nothing to shape.
			continue
		}

		profile := secret.Str("profile")
		max, min := s.profileRates(ctx, profile)

		entries = append(entries, reconcile.Entry{
			CircuitName: name,
			IPv4:        session.Str("address"),
			MAC:         session.Str("caller-id"),
			Max:         max,
			Min:         min,
			Parent: hierarchy.ParentRequest{
				Router:     s.router.Name,
				KindPrefix: kindPrefix,
				Plan:       profile,
				PerPlan:    s.router.PPPoE.PerPlanNode,
				Pool:       s.router.ManualParents,
			},
		})
	}
	return entries, nil
}

// profileRates resolves the shaping pair for a PPP profile, consulting the
// per-cycle cache first. A profile that cannot be fetched falls back to the
// default rate.
func (s *Source) profileRates(ctx context.Context, profile string) (rate.Pair, rate.Pair) {
	if text, ok := s.cache.Get(profile); ok {
		return s.policy.DeriveText(text)
	}

	rows, err := s.client.FetchResource(ctx, "/ppp/profile", map[string]string{"name": profile})
	if err != nil || len(rows) == 0 {
		s.log.Warn("Profile lookup failed, applying default rate",
			zap.String("profile", profile),
			zap.Error(err),
		)
		return s.policy.DeriveDefault()
	}

	field := "rate-limit"
	if s.router.PPPoE.UseProfileComment {
		field = "comment"
	}
	text := rows[0].Str(field)

	s.cache.Put(profile, text)
	return s.policy.DeriveText(text)
}
