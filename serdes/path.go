// Copyright DataStax, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serdes implements the ser/des engine (C6): path-aware,
// codec-driven transformation between user-facing values and wire
// JSON for both documents and rows.
package serdes

import (
	"errors"
	"strconv"
	"strings"
)

// Segment is one element of a traversal path: either a string object
// key or an integer array index.
type Segment struct {
	Key   string
	Index int
	IsIdx bool
}

// StringSegment builds a string-keyed segment.
func StringSegment(s string) Segment { return Segment{Key: s} }

// IndexSegment builds an integer-indexed segment.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIdx: true} }

func (s Segment) String() string {
	if s.IsIdx {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is a stack of segments from the traversal root.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Push returns a new Path with s appended; Path itself is never
// mutated in place, preserving the "ctx.path on return equals ctx.path
// on entry" stack discipline (spec.md Testable Property 6) at every
// call site that threads a ctx down one level.
func (p Path) Push(s Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// --- field path escaping grammar (spec.md 4.6, 6.5) ---
//
//	path     = segment ( "." segment )*
//	segment  = ( char | escape )+
//	escape   = "&." | "&&"
//	char     = any char except "." "&"

// ErrStrayAmpersand is returned when a lone '&' appears that is not
// part of a recognized escape sequence.
var ErrStrayAmpersand = errors.New("field path: stray '&' is not a valid escape")

// ErrEmptyBoundarySegment is returned for a leading/trailing '.' or
// any other empty segment.
var ErrEmptyBoundarySegment = errors.New("field path: leading/trailing or empty segment")

// EscapeFieldNames joins raw field-name segments into the dotted,
// escaped field path grammar: '.' encodes as "&.", '&' encodes as
// "&&".
func EscapeFieldNames(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		var b strings.Builder
		for _, r := range s {
			switch r {
			case '.':
				b.WriteString("&.")
			case '&':
				b.WriteString("&&")
			default:
				b.WriteRune(r)
			}
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}

// UnescapeFieldPath splits a dotted, escaped field path back into its
// raw segments.
func UnescapeFieldPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	var segments []string
	var cur strings.Builder
	runes := []rune(path)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '&':
			if i+1 >= len(runes) {
				return nil, ErrStrayAmpersand
			}
			switch runes[i+1] {
			case '.':
				cur.WriteRune('.')
				i++
			case '&':
				cur.WriteRune('&')
				i++
			default:
				return nil, ErrStrayAmpersand
			}
		case '.':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	segments = append(segments, cur.String())

	for i, s := range segments {
		if s == "" {
			_ = i
			return nil, ErrEmptyBoundarySegment
		}
	}
	return segments, nil
}
