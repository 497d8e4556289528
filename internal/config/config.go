// Package config provides configuration management for the drilldown console.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/dloss/drilldown/internal/bookmark"
)

// Config holds the application configuration.
type Config struct {
	// Feature definitions
	ConfigFile string
	Start      string

	// Logging options
	LogLevel  string
	LogFormat string
	LogFile   string

	// Grant is a comma separated list of permission patterns.
	Grant string
	// NoticeTTL is how long status messages stay visible.
	NoticeTTL time.Duration

	// Cluster options
	Kube       bool
	Kubeconfig string

	// Push refresh options
	RefreshURL       string
	RefreshNamespace string
	RefreshEvent     string
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		Start:        "security/users",
		LogLevel:     "info",
		LogFormat:    "text",
		Grant:        "*",
		NoticeTTL:    5 * time.Second,
		RefreshEvent: "refresh",
	}
}

// ParseFlags parses command line arguments and updates the config.
func (c *Config) ParseFlags(args []string, output io.Writer) error {
	fs := flag.NewFlagSet("drilldown", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "HCL file with additional features and records")
	fs.StringVar(&c.Start, "start", c.Start, "Initial bookmark, e.g. security/users:alice")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (text, json)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to this file (default: discarded)")
	fs.StringVar(&c.Grant, "grant", c.Grant, "Granted permissions, comma separated (* for all, prefix:* for a subtree)")
	fs.DurationVar(&c.NoticeTTL, "notice-ttl", c.NoticeTTL, "How long status messages stay visible (0 keeps them)")
	fs.BoolVar(&c.Kube, "kube", c.Kube, "Add the cluster namespaces feature")
	fs.StringVar(&c.Kubeconfig, "kubeconfig", c.Kubeconfig, "Path to kubeconfig (implies -kube)")
	fs.StringVar(&c.RefreshURL, "refresh-url", c.RefreshURL, "Socket.IO endpoint pushing refresh events")
	fs.StringVar(&c.RefreshNamespace, "refresh-namespace", c.RefreshNamespace, "Socket.IO namespace for refresh events")
	fs.StringVar(&c.RefreshEvent, "refresh-event", c.RefreshEvent, "Event name that triggers a reload")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.Kubeconfig != "" {
		c.Kube = true
	}
	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.LogFormat)
	}
	if c.NoticeTTL < 0 {
		return fmt.Errorf("invalid notice ttl: %s", c.NoticeTTL)
	}
	if strings.TrimSpace(c.Start) == "" {
		return errors.New("start bookmark must not be empty")
	}
	if c.RefreshURL != "" {
		u, err := url.Parse(c.RefreshURL)
		if err != nil {
			return fmt.Errorf("invalid refresh url %s: %w", c.RefreshURL, err)
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			return fmt.Errorf("invalid refresh url %s: scheme must be http(s) or ws(s)", c.RefreshURL)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid refresh url %s: missing host", c.RefreshURL)
		}
		if c.RefreshEvent == "" {
			return errors.New("refresh event must not be empty")
		}
	}
	return nil
}

// StartBookmark is the bookmark the console opens with.
func (c *Config) StartBookmark() bookmark.Bookmark {
	return bookmark.FromToken(strings.TrimSpace(c.Start))
}
