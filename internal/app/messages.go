package app

import (
	"context"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/drilldown"
	"github.com/dloss/drilldown/internal/refresh"
	"github.com/dloss/drilldown/internal/resources"
)

// callbackMsg runs fn on the UI goroutine. Machine continuations (panel
// activation, fallback lookups) travel as callbackMsg.
type callbackMsg struct{ fn func() }

func callback(fn func()) bubbletea.Cmd {
	return func() bubbletea.Msg { return callbackMsg{fn: fn} }
}

// loadedMsg completes a store load started with Store.Begin.
type loadedMsg struct {
	feature string
	level   int
	ticket  uint64
	records []resources.Record
	err     error
}

func loadCmd(ctx context.Context, feature string, level int, req resources.Request) bubbletea.Cmd {
	return func() bubbletea.Msg {
		records, err := req.Fetch(ctx)
		return loadedMsg{feature: feature, level: level, ticket: req.Ticket, records: records, err: err}
	}
}

type refreshMsg struct {
	event refresh.Event
}

// waitForRefresh blocks on the next push event. It returns nil, ending the
// loop, once the channel is closed.
func waitForRefresh(events <-chan refresh.Event) bubbletea.Cmd {
	if events == nil {
		return nil
	}
	return func() bubbletea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return refreshMsg{event: ev}
	}
}

type notice struct {
	id       int
	text     string
	severity drilldown.Severity
}

type clearNoticeMsg struct{ id int }

func clearNoticeAfter(ttl time.Duration, id int) bubbletea.Cmd {
	if ttl <= 0 {
		return nil
	}
	return bubbletea.Tick(ttl, func(time.Time) bubbletea.Msg {
		return clearNoticeMsg{id: id}
	})
}
