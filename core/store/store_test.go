package store

import (
	"os"
	"path/filepath"
	"testing"

	"shaper-sync/core/hierarchy"
	"shaper-sync/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStore(t *testing.T) *FileStore {
	dir := t.TempDir()
	return NewFileStore(Config{
		TablePath:     filepath.Join(dir, "ShapedDevices.csv"),
		HierarchyPath: filepath.Join(dir, "network.json"),
		ModePath:      filepath.Join(dir, ".parent-mode"),
	}, zap.NewNop())
}

func TestTable_MissingFileStartsEmpty(t *testing.T) {
	s := testStore(t)
	table, err := s.LoadTable()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestTable_SaveLoad(t *testing.T) {
	s := testStore(t)

	table := inventory.NewTable()
	table.Insert(&inventory.Record{
		CircuitID:       "A1B2C3D4",
		CircuitName:     "user1",
		DeviceID:        "E5F6G7H8",
		DeviceName:      "user1",
		ParentNode:      "PPP-edge1",
		IPv4:            "10.0.0.5",
		DownloadMinMbps: 11,
		UploadMinMbps:   2,
		DownloadMaxMbps: 23,
		UploadMaxMbps:   5,
		Comment:         inventory.CommentPPP,
	})
	require.NoError(t, s.SaveTable(table))

	loaded, err := s.LoadTable()
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	rec, ok := loaded.Get("user1")
	require.True(t, ok)
	assert.Equal(t, "A1B2C3D4", rec.CircuitID)
}

func TestHierarchy_SaveLoad(t *testing.T) {
	s := testStore(t)

	tree := make(hierarchy.Tree)
	tree["edge1"] = hierarchy.NewNode(hierarchy.KindSite, 2000)
	tree["edge1"].Children["PPP-edge1"] = hierarchy.NewNode(hierarchy.KindSite, 2000)
	require.NoError(t, s.SaveHierarchy(tree))

	loaded, err := s.LoadHierarchy()
	require.NoError(t, err)
	root, ok := loaded["edge1"]
	require.True(t, ok)
	assert.Equal(t, hierarchy.KindSite, root.Kind)
	assert.Equal(t, float64(2000), root.DownloadBandwidthMbps)
	assert.Contains(t, root.Children, "PPP-edge1")
}

func TestHierarchy_MissingFileStartsEmpty(t *testing.T) {
	s := testStore(t)
	tree, err := s.LoadHierarchy()
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestMode_RoundTrip(t *testing.T) {
	s := testStore(t)

	mode, err := s.LoadMode()
	require.NoError(t, err)
	assert.Equal(t, "", mode)

	require.NoError(t, s.SaveMode("manual"))
	mode, err = s.LoadMode()
	require.NoError(t, err)
	assert.Equal(t, "manual", mode)
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveMode("auto"))

	entries, err := os.ReadDir(filepath.Dir(s.cfg.ModePath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
