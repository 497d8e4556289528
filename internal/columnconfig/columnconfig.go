// Package columnconfig remembers which list columns the user chose to see,
// per record kind.
package columnconfig

import (
	"sort"
	"strings"
	"sync"

	"github.com/dloss/drilldown/internal/resources"
)

const labelPrefix = "label:"

// ColumnConfig stores the user-chosen visible column IDs for one kind.
type ColumnConfig struct {
	Visible []string // column IDs in display order
}

// Store holds per-kind column visibility configs. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	configs map[string]ColumnConfig
}

func New() *Store {
	return &Store{configs: make(map[string]ColumnConfig)}
}

// ID identifies col in a stored config: its header, or "label:<key>" for
// label columns.
func ID(col resources.TableColumn) string {
	if col.Label != "" {
		return labelPrefix + col.Label
	}
	return col.Name
}

// LabelColumns returns one column per label key found on records, sorted by
// key. Labels without '=' are ignored.
func LabelColumns(records []resources.Record) []resources.TableColumn {
	seen := map[string]bool{}
	for _, r := range records {
		for _, label := range r.Labels {
			if key, _, ok := strings.Cut(label, "="); ok && key != "" {
				seen[key] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cols := make([]resources.TableColumn, 0, len(keys))
	for _, key := range keys {
		cols = append(cols, labelColumn(key))
	}
	return cols
}

func labelColumn(key string) resources.TableColumn {
	return resources.TableColumn{
		Name:  strings.ToUpper(key),
		Width: min(max(len(key), 12), 20),
		Label: key,
	}
}

// LabelValue returns the value of label key on r.
func LabelValue(r resources.Record, key string) string {
	for _, label := range r.Labels {
		if k, v, ok := strings.Cut(label, "="); ok && k == key {
			return v
		}
	}
	return ""
}

// Get returns the active columns for kind. Without a stored config the whole
// pool is shown. The first pool column is always kept in front.
func (s *Store) Get(kind string, pool []resources.TableColumn) []resources.TableColumn {
	s.mu.RLock()
	config, exists := s.configs[kind]
	s.mu.RUnlock()

	if !exists || len(pool) == 0 {
		return pool
	}

	poolByID := make(map[string]resources.TableColumn, len(pool))
	for _, col := range pool {
		poolByID[ID(col)] = col
	}

	first := ID(pool[0])
	result := []resources.TableColumn{pool[0]}
	for _, id := range config.Visible {
		if id == first {
			continue
		}
		if col, ok := poolByID[id]; ok {
			result = append(result, col)
		} else if key, ok := strings.CutPrefix(id, labelPrefix); ok {
			// Records carrying this label may not be loaded yet.
			result = append(result, labelColumn(key))
		}
	}
	return result
}

func (s *Store) Set(kind string, visible []string) {
	copied := append([]string(nil), visible...)
	s.mu.Lock()
	s.configs[kind] = ColumnConfig{Visible: copied}
	s.mu.Unlock()
}

// Reset reverts kind to its default columns.
func (s *Store) Reset(kind string) {
	s.mu.Lock()
	delete(s.configs, kind)
	s.mu.Unlock()
}

// IsCustom reports whether the user changed the columns of kind.
func (s *Store) IsCustom(kind string) bool {
	s.mu.RLock()
	_, exists := s.configs[kind]
	s.mu.RUnlock()
	return exists
}
