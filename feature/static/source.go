package static

import (
	"context"
	"fmt"

	"shaper-sync/core/config"
	"shaper-sync/core/inventory"
	"shaper-sync/core/rate"
	"shaper-sync/core/reconcile"

	"go.uber.org/zap"
)

// Source reads the declarative static device list. The file is re-read every
// cycle so operator edits apply without a restart.
type Source struct {
	path   string
	policy reconcile.RatePolicy
	log    *zap.Logger
}

// NewSource builds the static list source.
func NewSource(path string, policy reconcile.RatePolicy, log *zap.Logger) *Source {
	return &Source{path: path, policy: policy, log: log}
}

// Name implements reconcile.Source.
func (s *Source) Name() string { return "static" }

// Kind implements reconcile.Source.
func (s *Source) Kind() string { return inventory.CommentStatic }

// Collect implements reconcile.Source.
func (s *Source) Collect(ctx context.Context) ([]reconcile.Entry, error) {
	devices, err := config.LoadStaticDevices(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: static list: %v", reconcile.ErrSourceUnavailable, err)
	}

	entries := make([]reconcile.Entry, 0, len(devices))
	for _, dev := range devices {
		if dev.ParentNode == "" {
			dev.ParentNode = "Static"
		}
		max, min := s.rates(dev)
		entries = append(entries, reconcile.Entry{
			CircuitName:  dev.CircuitName,
			DeviceName:   dev.DeviceName,
			MAC:          dev.MAC,
			IPv4:         dev.IPv4,
			IPv6:         dev.IPv6,
			Max:          max,
			Min:          min,
			StaticParent: dev.ParentNode,
		})
	}
	return entries, nil
}

// rates honors explicit operator rates and fills in the rest: a declared max
// without a min gets the usual derived minimum, and a device with no rates
// at all gets the default pair.
func (s *Source) rates(dev config.StaticDevice) (rate.Pair, rate.Pair) {
	if dev.DownloadMaxMbps == 0 && dev.UploadMaxMbps == 0 {
		return s.policy.DeriveDefault()
	}

	max := rate.Clamp(rate.Pair{RxMbps: dev.DownloadMaxMbps, TxMbps: dev.UploadMaxMbps})
	if dev.DownloadMinMbps == 0 && dev.UploadMinMbps == 0 {
		return max, rate.DeriveMin(max, s.policy.MinFactor)
	}

	// A declared min never exceeds the declared max.
	min := rate.Clamp(rate.Pair{RxMbps: dev.DownloadMinMbps, TxMbps: dev.UploadMinMbps})
	if min.RxMbps > max.RxMbps {
		min.RxMbps = max.RxMbps
	}
	if min.TxMbps > max.TxMbps {
		min.TxMbps = max.TxMbps
	}
	return max, min
}
