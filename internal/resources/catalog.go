package resources

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Catalog is the in-memory backend behind the built-in features. Records are
// grouped in named collections.
type Catalog struct {
	mu          sync.RWMutex
	collections map[string][]Record
	nextID      map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{collections: map[string][]Record{}, nextID: map[string]int{}}
}

// Put stores records as-is, replacing records with the same parent and ID.
func (c *Catalog) Put(collection string, records ...Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		if idx := c.childLocked(collection, r.Parent, r.ID); idx >= 0 {
			c.collections[collection][idx] = r
			continue
		}
		c.collections[collection] = append(c.collections[collection], r)
		if n, ok := r.ID.(int); ok && n >= c.nextID[collection] {
			c.nextID[collection] = n + 1
		}
	}
}

// List returns the records listed under parent; a nil parent lists the
// top-level records.
func (c *Catalog) List(collection string, parent any) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Record
	for _, r := range c.collections[collection] {
		if r.Parent == parent {
			out = append(out, r)
		}
	}
	return out
}

// Get looks a record up by ID. String IDs that parse as integers also match
// integer IDs.
func (c *Catalog) Get(collection string, id any) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.indexLocked(collection, id)
	if idx < 0 {
		if s, ok := id.(string); ok {
			if n, err := strconv.Atoi(s); err == nil {
				idx = c.indexLocked(collection, n)
			}
		}
	}
	if idx < 0 {
		return Record{}, fmt.Errorf("%s %v: %w", collection, id, ErrNotFound)
	}
	return c.collections[collection][idx], nil
}

// Create adds r. Integer collections assign the next ID when r.ID is nil;
// other records default to their name as ID.
func (c *Catalog) Create(collection string, r Record) (Record, error) {
	if r.Name == "" {
		return Record{}, fmt.Errorf("create %s: name is required", collection)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.ID == nil {
		if next, ok := c.nextID[collection]; ok {
			r.ID = next
		} else {
			r.ID = r.Name
		}
	}
	if c.childLocked(collection, r.Parent, r.ID) >= 0 {
		return Record{}, fmt.Errorf("create %s %v: %w", collection, r.ID, ErrDuplicate)
	}
	if n, ok := r.ID.(int); ok && n >= c.nextID[collection] {
		c.nextID[collection] = n + 1
	}
	c.collections[collection] = append(c.collections[collection], r)
	return r, nil
}

// Delete removes the first record with id and every record listed under it
// in other collections.
func (c *Catalog) Delete(collection string, id any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexLocked(collection, id)
	if idx < 0 {
		return fmt.Errorf("delete %s %v: %w", collection, id, ErrNotFound)
	}
	records := c.collections[collection]
	c.collections[collection] = append(records[:idx:idx], records[idx+1:]...)
	for name, rs := range c.collections {
		if name == collection {
			continue
		}
		kept := rs[:0]
		for _, r := range rs {
			if r.Parent != id {
				kept = append(kept, r)
			}
		}
		c.collections[name] = kept
	}
	return nil
}

func (c *Catalog) childLocked(collection string, parent, id any) int {
	for i, r := range c.collections[collection] {
		if r.Parent == parent && r.ID == id {
			return i
		}
	}
	return -1
}

// indexLocked finds id under any parent.
func (c *Catalog) indexLocked(collection string, id any) int {
	for i, r := range c.collections[collection] {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// CatalogSource serves one collection as a drilldown level.
type CatalogSource struct {
	Catalog    *Catalog
	Collection string
	Kind       string
	// Limit caps the loaded page, like a paged remote store. Records past
	// the page are still reachable through Find.
	Limit int
	// Latency simulates a remote round trip.
	Latency time.Duration
	// Nested lists records under the selected parent.
	Nested  bool
	Columns []TableColumn
}

func (s *CatalogSource) Name() string { return s.Kind }

func (s *CatalogSource) Fetch(ctx context.Context, parent *Record) ([]Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	var parentID any
	if s.Nested {
		if parent == nil {
			return nil, nil
		}
		parentID = parent.ID
	}
	records := s.Catalog.List(s.Collection, parentID)
	defaultSort(records)
	if s.Limit > 0 && len(records) > s.Limit {
		records = records[:s.Limit]
	}
	return records, nil
}

func (s *CatalogSource) Find(ctx context.Context, id string) (Record, error) {
	if err := s.wait(ctx); err != nil {
		return Record{}, err
	}
	return s.Catalog.Get(s.Collection, id)
}

func (s *CatalogSource) Remove(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Catalog.Delete(s.Collection, record.ID)
}

func (s *CatalogSource) TableColumns() []TableColumn {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	return []TableColumn{{Name: "NAME", Width: 28}, {Name: "STATUS", Width: 12}, {Name: "AGE", Width: 6}}
}

func (s *CatalogSource) TableRow(r Record) []string {
	row := make([]string, 0, len(s.TableColumns()))
	for _, col := range s.TableColumns() {
		switch col.Name {
		case "NAME":
			row = append(row, r.Name)
		case "ID":
			row = append(row, fmt.Sprint(r.ID))
		case "KIND":
			row = append(row, r.Kind)
		case "STATUS":
			row = append(row, r.Status)
		case "AGE":
			row = append(row, r.Age)
		default:
			v, _ := r.Field(col.Name)
			row = append(row, v)
		}
	}
	return row
}

func (s *CatalogSource) wait(ctx context.Context) error {
	if s.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
