// Package refresh listens for server-pushed reload notifications over
// Socket.IO.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dloss/drilldown/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event asks the console to reload. An empty Feature means every feature.
type Event struct {
	Feature string
	// Bookmark, when set, is navigated to after the reload.
	Bookmark string
}

type Options struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// Client is a connected listener. Events are delivered on Events until Close.
type Client struct {
	io     *socket.Socket
	events chan Event
	logger *slog.Logger
}

// Dial connects and subscribes to opts.Event. It blocks until the connection
// is established, fails, or the timeout elapses.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("component", "refresh", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	ioOpts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		ioOpts.SetPath(parsedURL.Path)
	}
	ioOpts.SetTransports(types.NewSet(transports.WebSocket))

	scheme := parsedURL.Scheme
	switch scheme {
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, ioOpts)
	io := manager.Socket(opts.Namespace, ioOpts)

	c := &Client{io: io, events: make(chan Event, 16), logger: logger}
	connectChan := make(chan error, 1)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.On(types.EventName(opts.Event), func(data ...any) {
		ev := ParsePayload(data...)
		logger.Debug("Refresh event received", "feature", ev.Feature, "bookmark", ev.Bookmark)
		select {
		case c.events <- ev:
		default:
			logger.Warn("Dropping refresh event, consumer is behind")
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

func (c *Client) Events() <-chan Event { return c.events }

func (c *Client) Close() {
	c.logger.Debug("Disconnecting")
	c.io.Disconnect()
}

// ParsePayload reads an event payload: a feature path string, or an object
// with "feature" and "bookmark" keys.
func ParsePayload(data ...any) Event {
	if len(data) == 0 {
		return Event{}
	}
	switch v := data[0].(type) {
	case string:
		return Event{Feature: v}
	case map[string]any:
		var ev Event
		if s, ok := v["feature"].(string); ok {
			ev.Feature = s
		}
		if s, ok := v["bookmark"].(string); ok {
			ev.Bookmark = s
		}
		return ev
	default:
		return Event{}
	}
}

// Matches reports whether ev concerns the feature at path.
func (ev Event) Matches(path string) bool {
	return ev.Feature == "" || ev.Feature == path
}
