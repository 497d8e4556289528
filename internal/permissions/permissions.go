// Package permissions answers whether an action such as "nexus:users:create"
// is granted.
package permissions

import "strings"

// Set holds granted patterns. "*" grants everything and "prefix:*" grants
// every action below prefix.
type Set struct {
	exact    map[string]struct{}
	prefixes []string
	all      bool
}

func New(patterns ...string) *Set {
	s := &Set{exact: map[string]struct{}{}}
	s.Grant(patterns...)
	return s
}

// Parse reads a comma separated pattern list.
func Parse(list string) *Set {
	var patterns []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return New(patterns...)
}

func (s *Set) Grant(patterns ...string) {
	for _, p := range patterns {
		switch {
		case p == "*":
			s.all = true
		case strings.HasSuffix(p, ":*"):
			s.prefixes = append(s.prefixes, strings.TrimSuffix(p, "*"))
		default:
			s.exact[p] = struct{}{}
		}
	}
}

func (s *Set) IsPermitted(action string) bool {
	if s.all {
		return true
	}
	if _, ok := s.exact[action]; ok {
		return true
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(action, prefix) {
			return true
		}
	}
	return false
}
