package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionPath(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  SectionPath
	}{
		{name: "single segment", raw: "tasks", expected: SectionPath{"tasks"}},
		{name: "nested", raw: "schemas/event/properties", expected: SectionPath{"schemas", "event", "properties"}},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - empty segment", raw: "schemas//properties", expectErr: true},
		{name: "error - dot segment", raw: "schemas/../x", expectErr: true},
		{name: "error - spaces", raw: "my tasks", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseSectionPath(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
			assert.Equal(t, tc.raw, p.String())
		})
	}
}

func TestSectionPath_Child(t *testing.T) {
	base := Path("schemas")
	child := base.Child("event", "properties")

	assert.Equal(t, "schemas/event/properties", child.String())
	assert.Equal(t, "properties", child.Last())
	assert.Equal(t, "schemas", base.String(), "parent must not be modified")
	assert.True(t, child.Equal(Path("schemas", "event", "properties")))
	assert.False(t, child.Equal(base))
}

func TestPattern_Match(t *testing.T) {
	testCases := []struct {
		pattern string
		path    SectionPath
		match   bool
	}{
		{"tasks", Path("tasks"), true},
		{"tasks", Path("schemas"), false},
		{"schemas/*/properties", Path("schemas", "event", "properties"), true},
		{"schemas/*/properties", Path("schemas", "event", "properties", "id", "properties"), false},
		{"schemas/**/properties", Path("schemas", "event", "properties", "id", "properties"), true},
		{"schemas/**/properties", Path("schemas"), false},
		{"**", Path("anything", "at", "all"), true},
		{"*", Path("tasks"), true},
		{"*", Path("tasks", "a", "b"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern+" "+tc.path.String(), func(t *testing.T) {
			assert.Equal(t, tc.match, MustPattern(tc.pattern).Match(tc.path))
		})
	}
}
