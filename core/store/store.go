package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shaper-sync/core/hierarchy"
	"shaper-sync/core/inventory"

	"go.uber.org/zap"
)

// Config holds the locations of the persisted artifacts and the declarative
// input files.
type Config struct {
	// TablePath is the canonical shaped-device CSV consumed by the shaping engine.
	TablePath string `mapstructure:"table" default:"ShapedDevices.csv"`
	// HierarchyPath is the parent-node tree document.
	HierarchyPath string `mapstructure:"hierarchy" default:"network.json"`
	// ModePath is the persisted parent-assignment mode token.
	ModePath string `mapstructure:"mode" default:".parent-mode"`
	// RoutersPath is the declarative router list.
	RoutersPath string `mapstructure:"routers" default:"routers.json"`
	// StaticPath is the declarative static device list.
	StaticPath string `mapstructure:"static" default:"static-devices.json"`
}

// FileStore persists the canonical table, the hierarchy tree, and the
// mode-state scalar to local files. Writes go through a temp file and rename
// so the shaping engine never reads a half-written table.
type FileStore struct {
	cfg Config
	log *zap.Logger
}

// NewFileStore creates a file-backed store.
func NewFileStore(cfg Config, log *zap.Logger) *FileStore {
	return &FileStore{cfg: cfg, log: log}
}

// LoadTable reads the persisted canonical table. A missing file yields an
// empty table: first run, or a fresh start after manual cleanup.
func (s *FileStore) LoadTable() (*inventory.Table, error) {
	f, err := os.Open(s.cfg.TablePath)
	if os.IsNotExist(err) {
		s.log.Info("No existing shaped-device table, starting empty",
			zap.String("path", s.cfg.TablePath))
		return inventory.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	table, err := inventory.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", s.cfg.TablePath, err)
	}
	return table, nil
}

// SaveTable persists the canonical table.
func (s *FileStore) SaveTable(table *inventory.Table) error {
	var sb strings.Builder
	if err := table.WriteCSV(&sb); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return s.writeFile(s.cfg.TablePath, []byte(sb.String()))
}

// LoadHierarchy reads the persisted parent-node tree. Missing file yields an
// empty tree.
func (s *FileStore) LoadHierarchy() (hierarchy.Tree, error) {
	data, err := os.ReadFile(s.cfg.HierarchyPath)
	if os.IsNotExist(err) {
		return make(hierarchy.Tree), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}

	var tree hierarchy.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse hierarchy %s: %w", s.cfg.HierarchyPath, err)
	}
	return tree, nil
}

// SaveHierarchy persists the parent-node tree.
func (s *FileStore) SaveHierarchy(tree hierarchy.Tree) error {
	data, err := json.MarshalIndent(tree, "", "    ")
	if err != nil {
		return fmt.Errorf("encode hierarchy: %w", err)
	}
	return s.writeFile(s.cfg.HierarchyPath, data)
}

// LoadMode reads the persisted parent-assignment mode token. Missing file
// yields the empty token (no baseline yet).
func (s *FileStore) LoadMode() (string, error) {
	data, err := os.ReadFile(s.cfg.ModePath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read mode token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveMode persists the mode token as the new comparison baseline.
func (s *FileStore) SaveMode(mode string) error {
	return s.writeFile(s.cfg.ModePath, []byte(mode+"\n"))
}

func (s *FileStore) writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
