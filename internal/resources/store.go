package resources

import (
	"context"

	"github.com/dloss/drilldown/internal/drilldown"
)

// Store holds the records of one drilldown level and implements
// drilldown.Store. It is not safe for concurrent use: Begin and Apply run on
// the UI goroutine, only Request.Fetch runs elsewhere.
type Store struct {
	source   Source
	parent   *Record
	records  []Record
	loading  bool
	loaded   bool
	err      error
	ticket   uint64
	onLoad   []func()
	sortMode string
	reverse  bool
}

func NewStore(source Source) *Store {
	return &Store{source: source, sortMode: "name"}
}

// Request is one pending load. Fetch may run on any goroutine.
type Request struct {
	Ticket uint64
	Source Source
	Parent *Record
}

func (r Request) Fetch(ctx context.Context) ([]Record, error) {
	return r.Source.Fetch(ctx, r.Parent)
}

func (s *Store) Name() string    { return s.source.Name() }
func (s *Store) Source() Source  { return s.source }
func (s *Store) Parent() *Record { return s.parent }
func (s *Store) Err() error      { return s.err }

// Begin starts a load for parent and marks the store loading. Results of
// earlier requests are discarded by Apply.
func (s *Store) Begin(parent *Record) Request {
	s.ticket++
	s.parent = parent
	s.loading = true
	return Request{Ticket: s.ticket, Source: s.source, Parent: parent}
}

// Refresh starts a load for the current parent.
func (s *Store) Refresh() Request {
	return s.Begin(s.parent)
}

// Apply completes the load identified by ticket. It reports false for a
// superseded request. One-shot load callbacks fire after the records are in
// place, even when the fetch failed.
func (s *Store) Apply(ticket uint64, records []Record, err error) bool {
	if ticket != s.ticket {
		return false
	}
	s.loading = false
	s.loaded = true
	s.err = err
	if err != nil {
		records = nil
	}
	s.records = append([]Record(nil), records...)
	s.sort()

	callbacks := s.onLoad
	s.onLoad = nil
	for _, fn := range callbacks {
		fn()
	}
	return true
}

// Reset drops the records, for example when the parent selection is cleared.
// Pending requests are invalidated.
func (s *Store) Reset() {
	s.ticket++
	s.parent = nil
	s.records = nil
	s.loading = false
	s.loaded = false
	s.err = nil
}

func (s *Store) IsLoading() bool { return s.loading }
func (s *Store) IsLoaded() bool  { return s.loaded }

// Load fetches synchronously.
func (s *Store) Load() {
	req := s.Refresh()
	records, err := req.Fetch(context.Background())
	s.Apply(req.Ticket, records, err)
}

func (s *Store) OnLoad(fn func()) {
	s.onLoad = append(s.onLoad, fn)
}

func (s *Store) Count() int { return len(s.records) }

func (s *Store) GetAt(i int) drilldown.Model {
	return s.records[i]
}

func (s *Store) Record(i int) Record {
	return s.records[i]
}

func (s *Store) FindBy(fn func(drilldown.Model) bool) int {
	for i, r := range s.records {
		if fn(r) {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of the record with the given ID.
func (s *Store) IndexOf(id any) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

func (s *Store) SortMode() string { return s.sortMode }
func (s *Store) Reversed() bool   { return s.reverse }

// SetSort changes the sort mode and re-sorts the loaded records.
func (s *Store) SetSort(mode string, reverse bool) {
	s.sortMode = mode
	s.reverse = reverse
	s.sort()
}

// CycleSort advances to the next sort mode.
func (s *Store) CycleSort() string {
	s.SetSort(cycleSortMode(s.sortMode, sortModes), false)
	return s.sortMode
}

func (s *Store) sort() {
	switch s.sortMode {
	case "status":
		problemSort(s.records)
	case "age":
		ageSort(s.records)
	default:
		defaultSort(s.records)
	}
	if s.reverse {
		for i, j := 0, len(s.records)-1; i < j; i, j = i+1, j-1 {
			s.records[i], s.records[j] = s.records[j], s.records[i]
		}
	}
}

// AsRecord unwraps a drilldown model.
func AsRecord(m drilldown.Model) (Record, bool) {
	switch r := m.(type) {
	case Record:
		return r, true
	case *Record:
		if r == nil {
			return Record{}, false
		}
		return *r, true
	default:
		return Record{}, false
	}
}
