package hotspot

import (
	"context"
	"errors"
	"testing"

	"shaper-sync/core/config"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/routeros/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPolicy() reconcile.RatePolicy {
	return reconcile.RatePolicy{MaxFactor: 1.15, MinFactor: 0.5, DefaultMbps: 3}
}

func TestSource_MACKeyedIdentity(t *testing.T) {
	router := config.Router{
		Name: "edge-01",
		Hotspot: config.HotspotAccess{
			Enabled:           true,
			DownloadLimitMbps: 10,
			UploadLimitMbps:   10,
		},
	}

	client := new(mocks.Client)
	client.On("FetchResource", mock.Anything, "/ip/hotspot/active", mock.Anything).Return([]routeros.Record{
		{"user": "guest42", "mac-address": "AA:BB:CC:00:11:22", "address": "172.16.0.5"},
		{"user": "nomac", "address": "172.16.0.6"},
		{"address": "172.16.0.7"},
	}, nil)

	src := NewSource(router, client, testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "HS-AABBCC001122", entries[0].CircuitName)
	assert.Equal(t, "guest42", entries[0].DeviceName)
	assert.Equal(t, "HS-nomac", entries[1].CircuitName)

	// The configured 10 Mbps cap is stored as-is; only the min is derived.
	assert.Equal(t, 10.0, entries[0].Max.RxMbps)
	assert.Equal(t, 10.0, entries[0].Max.TxMbps)
	assert.Equal(t, 5.0, entries[0].Min.RxMbps)
	assert.Equal(t, "HS", entries[0].Parent.KindPrefix)
}

func TestSource_UserKeyedWhenMACDisabled(t *testing.T) {
	includeMAC := false
	router := config.Router{
		Name: "edge-01",
		Hotspot: config.HotspotAccess{
			Enabled:    true,
			IncludeMAC: &includeMAC,
		},
	}

	client := new(mocks.Client)
	client.On("FetchResource", mock.Anything, "/ip/hotspot/active", mock.Anything).Return([]routeros.Record{
		{"user": "guest42", "mac-address": "AA:BB:CC:00:11:22"},
	}, nil)

	src := NewSource(router, client, testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HS-guest42", entries[0].CircuitName)
}

func TestSource_NoConfiguredLimitUsesDefault(t *testing.T) {
	router := config.Router{Name: "edge-01", Hotspot: config.HotspotAccess{Enabled: true}}

	client := new(mocks.Client)
	client.On("FetchResource", mock.Anything, "/ip/hotspot/active", mock.Anything).Return([]routeros.Record{
		{"user": "guest42", "mac-address": "AA:BB:CC:00:11:22"},
	}, nil)

	src := NewSource(router, client, testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3.0, entries[0].Max.RxMbps)
	assert.Equal(t, 2.0, entries[0].Min.RxMbps)
}

func TestSource_FetchFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("FetchResource", mock.Anything, "/ip/hotspot/active", mock.Anything).
		Return(nil, errors.New("timeout"))

	src := NewSource(config.Router{Name: "edge-01"}, client, testPolicy(), zap.NewNop())
	_, err := src.Collect(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
}
