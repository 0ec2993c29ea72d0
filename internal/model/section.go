// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines SectionPath, the address of an entity collection, and
// Pattern, which lets generic verifiers select sections at any depth.
package model

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// SectionPath identifies where in the tree a collection of entities lives.
// Top-level sections have one segment. Children of entity `id` in section P
// live at P + [id, childSection].
type SectionPath []string

// segmentRegex matches a single path segment: a section name or an identifier.
var segmentRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Path builds a SectionPath from its segments.
func Path(segments ...string) SectionPath {
	return SectionPath(slices.Clone(segments))
}

// ParseSectionPath parses the canonical "a/b/c" form.
func ParseSectionPath(raw string) (SectionPath, error) {
	if raw == "" {
		return nil, fmt.Errorf("section path cannot be empty")
	}
	var p SectionPath
	for _, seg := range strings.Split(raw, "/") {
		if seg == "" {
			return nil, fmt.Errorf("section path %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(seg) || seg == "." || seg == ".." {
			return nil, fmt.Errorf("invalid section path segment %q", seg)
		}
		p = append(p, seg)
	}
	return p, nil
}

// String serializes the path into its canonical "a/b/c" form.
func (p SectionPath) String() string {
	return strings.Join(p, "/")
}

// Key is the map key used for the path. It matches String.
func (p SectionPath) Key() string {
	return p.String()
}

// Child returns the path of the children of entity id under section.
func (p SectionPath) Child(id, section string) SectionPath {
	out := make(SectionPath, 0, len(p)+2)
	out = append(out, p...)
	return append(out, id, section)
}

// Last returns the final segment, the section name proper.
func (p SectionPath) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether two paths have the same segments.
func (p SectionPath) Equal(other SectionPath) bool {
	return slices.Equal(p, other)
}

// Pattern selects section paths. A `*` segment matches exactly one segment and
// `**` matches any number of segments, including none.
type Pattern []string

// MustPattern parses a "/"-separated pattern such as "schemas/**/properties".
func MustPattern(raw string) Pattern {
	if raw == "" {
		panic("model: empty section pattern")
	}
	return Pattern(strings.Split(raw, "/"))
}

// Match reports whether p selects path.
func (pat Pattern) Match(path SectionPath) bool {
	return matchSegments(pat, path)
}

func (pat Pattern) String() string {
	return strings.Join(pat, "/")
}

func matchSegments(pat []string, path []string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case "**":
			for i := 0; i <= len(path); i++ {
				if matchSegments(pat[1:], path[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(path) == 0 {
				return false
			}
		default:
			if len(path) == 0 || path[0] != pat[0] {
				return false
			}
		}
		pat, path = pat[1:], path[1:]
	}
	return len(path) == 0
}
