package resources

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Record is one row of a master list. ID is a string or an int; it is the
// value encoded into bookmarks.
type Record struct {
	ID     any
	Name   string
	Kind   string
	Status string
	Icon   string
	Age    string
	Labels []string
	Fields []Field
	// Parent is the ID of the record this one was listed under, if any.
	Parent any
}

type Field struct {
	Name  string
	Value string
}

// Field returns the value of the named field.
func (r Record) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Source fetches the records of one drilldown level. parent is the record
// selected on the previous level, nil for level 0.
type Source interface {
	Name() string
	Fetch(ctx context.Context, parent *Record) ([]Record, error)
}

// Finder is implemented by sources that can look up a record that is not in
// the loaded page.
type Finder interface {
	Find(ctx context.Context, id string) (Record, error)
}

// Remover is implemented by sources whose records can be deleted.
type Remover interface {
	Remove(ctx context.Context, record Record) error
}

// TableColumn describes a list column; sources may implement TableSource to
// render their own rows.
type TableColumn struct {
	Name  string
	Width int
	// Label, when set, shows the value of the record label with this key.
	Label string
}

type TableSource interface {
	TableColumns() []TableColumn
	TableRow(record Record) []string
}
