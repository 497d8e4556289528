// Package bookmark implements the navigational location of a drilldown: an
// immutable, ordered list of string segments.
//
// Segment 0 names the feature (for example "security/users") and may carry a
// filter after the first '='. Segments 1..n hold one escaped model identifier
// per drilldown level.
package bookmark

import (
	"fmt"
	"net/url"
	"strings"
)

// Separator joins segments in a bookmark token.
const Separator = ":"

// Bookmark is a value type; every method that changes segments returns a new
// Bookmark. The zero value is the empty bookmark.
type Bookmark struct {
	segments []string
}

// FromToken splits a raw navigation token into segments. Any string is
// accepted. The empty string yields the empty bookmark.
func FromToken(raw string) Bookmark {
	if raw == "" {
		return Bookmark{}
	}
	return Bookmark{segments: strings.Split(raw, Separator)}
}

func FromSegments(segments []string) Bookmark {
	if len(segments) == 0 {
		return Bookmark{}
	}
	copied := make([]string, len(segments))
	copy(copied, segments)
	return Bookmark{segments: copied}
}

func (b Bookmark) Segments() []string {
	copied := make([]string, len(b.segments))
	copy(copied, b.segments)
	return copied
}

func (b Bookmark) Segment(i int) (string, bool) {
	if i < 0 || i >= len(b.segments) {
		return "", false
	}
	return b.segments[i], true
}

func (b Bookmark) Len() int      { return len(b.segments) }
func (b Bookmark) IsEmpty() bool { return len(b.segments) == 0 }

func (b Bookmark) Equal(other Bookmark) bool {
	if len(b.segments) != len(other.segments) {
		return false
	}
	for i := range b.segments {
		if b.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Token is the inverse of FromToken.
func (b Bookmark) Token() string {
	return strings.Join(b.segments, Separator)
}

func (b Bookmark) String() string { return b.Token() }

func (b Bookmark) Append(segments ...string) Bookmark {
	out := make([]string, 0, len(b.segments)+len(segments))
	out = append(out, b.segments...)
	out = append(out, segments...)
	return Bookmark{segments: out}
}

// Truncate keeps at most the first n segments.
func (b Bookmark) Truncate(n int) Bookmark {
	if n <= 0 {
		return Bookmark{}
	}
	if n >= len(b.segments) {
		return FromSegments(b.segments)
	}
	return FromSegments(b.segments[:n])
}

// Root keeps only the feature segment.
func (b Bookmark) Root() Bookmark {
	return b.Truncate(1)
}

// Feature is segment 0 without its filter.
func (b Bookmark) Feature() string {
	root, _ := b.Segment(0)
	feature, _, _ := strings.Cut(root, "=")
	return feature
}

// Filter is the part of segment 0 after the first '=', if any.
func (b Bookmark) Filter() string {
	root, _ := b.Segment(0)
	_, filter, _ := strings.Cut(root, "=")
	return filter
}

// ModelIDs returns the decoded identifier segments.
func (b Bookmark) ModelIDs() []string {
	if len(b.segments) < 2 {
		return nil
	}
	ids := make([]string, 0, len(b.segments)-1)
	for _, segment := range b.segments[1:] {
		ids = append(ids, DecodeID(segment))
	}
	return ids
}

// EncodeID escapes a model identifier for use as a segment.
func EncodeID(id any) string {
	return url.QueryEscape(fmt.Sprint(id))
}

// DecodeID reverses EncodeID. Segments that are not valid escapes are
// returned as-is.
func DecodeID(segment string) string {
	decoded, err := url.QueryUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}
