package static

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shaper-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPolicy() reconcile.RatePolicy {
	return reconcile.RatePolicy{MaxFactor: 1.15, MinFactor: 0.5, DefaultMbps: 3}
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "static-devices.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSource_ExplicitAndDerivedRates(t *testing.T) {
	path := writeList(t, `{
		"static_devices": [
			{
				"circuit_name": "office-core",
				"parent_node": "CORE",
				"ipv4": "10.0.0.1",
				"download_max_mbps": 500,
				"upload_max_mbps": 500,
				"download_min_mbps": 100,
				"upload_min_mbps": 100
			},
			{
				"circuit_name": "tower-cam",
				"ipv4": "10.0.0.2",
				"download_max_mbps": 50,
				"upload_max_mbps": 10
			},
			{
				"circuit_name": "sensor",
				"ipv4": "10.0.0.3"
			}
		]
	}`)

	src := NewSource(path, testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	core := entries[0]
	assert.Equal(t, "office-core", core.CircuitName)
	assert.Equal(t, "CORE", core.StaticParent)
	assert.Equal(t, 500.0, core.Max.RxMbps)
	assert.Equal(t, 100.0, core.Min.RxMbps)

	// Declared max, derived min.
	cam := entries[1]
	assert.Equal(t, 50.0, cam.Max.RxMbps)
	assert.Equal(t, 10.0, cam.Max.TxMbps)
	assert.Equal(t, 25.0, cam.Min.RxMbps)
	assert.Equal(t, 5.0, cam.Min.TxMbps)

	// No rates at all: default pair through the usual derivation. The parent
	// falls back to the shared Static node.
	sensor := entries[2]
	assert.Equal(t, 3.0, sensor.Max.RxMbps)
	assert.Equal(t, 2.0, sensor.Min.RxMbps)
	assert.Equal(t, "Static", sensor.StaticParent)
}

func TestSource_DeclaredMinCappedAtMax(t *testing.T) {
	path := writeList(t, `{
		"static_devices": [
			{
				"circuit_name": "backhaul",
				"ipv4": "10.0.0.9",
				"download_max_mbps": 100,
				"upload_max_mbps": 40,
				"download_min_mbps": 200,
				"upload_min_mbps": 20
			}
		]
	}`)

	src := NewSource(path, testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The oversized declared min collapses onto the max; the sane side is
	// kept as declared.
	assert.Equal(t, 100.0, entries[0].Max.RxMbps)
	assert.Equal(t, 100.0, entries[0].Min.RxMbps)
	assert.Equal(t, 20.0, entries[0].Min.TxMbps)
}

func TestSource_MissingFileMeansNoDevices(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "nope.json"), testPolicy(), zap.NewNop())
	entries, err := src.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSource_MalformedListFails(t *testing.T) {
	path := writeList(t, `{"static_devices": [{"device_name": "anonymous"}]}`)
	src := NewSource(path, testPolicy(), zap.NewNop())
	_, err := src.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
}
