package resources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dloss/drilldown/internal/drilldown"
)

// Dispatch runs fetch away from the caller and hands the result to deliver
// on the caller's goroutine. The UI provides one backed by tea.Cmd. Deletes
// travel the same way.
type Dispatch func(fetch func(ctx context.Context) (Record, error), deliver func(Record, error))

// RecordPolicy adapts a Feature's sources to drilldown.Policy.
type RecordPolicy struct {
	Sources  []Source
	Dispatch Dispatch
	Logger   *slog.Logger
	// Timeout bounds deletes and fallback lookups.
	Timeout time.Duration
	// DefaultIcon is used for records without an icon.
	DefaultIcon string
}

func NewRecordPolicy(f Feature, dispatch Dispatch, logger *slog.Logger) *RecordPolicy {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RecordPolicy{
		Sources:     f.Masters,
		Dispatch:    dispatch,
		Logger:      logger,
		Timeout:     10 * time.Second,
		DefaultIcon: f.Icon,
	}
}

func (p *RecordPolicy) Describe(m drilldown.Model) string {
	if r, ok := AsRecord(m); ok {
		return r.Name
	}
	return ""
}

func (p *RecordPolicy) ModelID(m drilldown.Model) any {
	if r, ok := AsRecord(m); ok {
		return r.ID
	}
	return nil
}

func (p *RecordPolicy) IconClass(m drilldown.Model) string {
	r, ok := AsRecord(m)
	if !ok {
		return ""
	}
	if r.Icon != "" {
		return r.Icon
	}
	return p.DefaultIcon
}

// ResolveFallback searches the level's source for records outside the
// loaded page. Sources without Find leave the default not-found handling in
// place.
func (p *RecordPolicy) ResolveFallback(level int, id string, found func(drilldown.Model)) bool {
	if level < 0 || level >= len(p.Sources) {
		return false
	}
	finder, ok := p.Sources[level].(Finder)
	if !ok {
		return false
	}

	fetch := func(ctx context.Context) (Record, error) {
		ctx, cancel := p.context(ctx)
		defer cancel()
		return finder.Find(ctx, id)
	}
	deliver := func(r Record, err error) {
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				p.Logger.Warn("fallback lookup failed", "level", level, "id", id, "error", err)
			}
			found(nil)
			return
		}
		found(r)
	}

	if p.Dispatch == nil {
		deliver(fetch(context.Background()))
		return true
	}
	p.Dispatch(fetch, deliver)
	return true
}

// DeleteModel removes a level-0 record through its source. The source call
// runs through Dispatch so a slow backend does not block the caller.
func (p *RecordPolicy) DeleteModel(m drilldown.Model, done func(error)) {
	r, ok := AsRecord(m)
	if !ok {
		done(errors.New("delete: not a record"))
		return
	}
	if len(p.Sources) == 0 {
		done(errors.New("delete: feature has no sources"))
		return
	}
	source := p.Sources[0]
	remover, ok := source.(Remover)
	if !ok {
		done(errors.New("delete: " + source.Name() + " records cannot be deleted"))
		return
	}

	remove := func(ctx context.Context) (Record, error) {
		ctx, cancel := p.context(ctx)
		defer cancel()
		return r, remover.Remove(ctx, r)
	}
	deliver := func(r Record, err error) {
		if err == nil {
			p.Logger.Info("deleted record", "kind", source.Name(), "id", r.ID)
		}
		done(err)
	}

	if p.Dispatch == nil {
		deliver(remove(context.Background()))
		return
	}
	p.Dispatch(remove, deliver)
}

func (p *RecordPolicy) context(parent context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, p.Timeout)
}
