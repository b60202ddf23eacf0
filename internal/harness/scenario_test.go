package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: sample
description: "d"
delta: 0.25
script: ["Wait|1"]
control:
  - tick: 1
    jump: 0
assertions:
  - type: object_position
    object: cube
    position: {x: 1, y: 2, z: 3}
`))
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.Delta)
	require.Len(t, s.Control, 1)
	require.NotNil(t, s.Control[0].Jump)
	assert.Equal(t, 0, *s.Control[0].Jump)
	assert.Equal(t, 3.0, s.Assertions[0].Position.Z)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\nscript: [Log]\nassertion: []\n", "field assertion not found"},
		{"missing name", "description: b\nscript: [Log]\nassertions: [{type: ended, expect: true}]\n", "name is required"},
		{"missing description", "name: a\nscript: [Log]\nassertions: [{type: ended, expect: true}]\n", "description is required"},
		{"empty script", "name: a\ndescription: b\nscript: []\nassertions: [{type: ended, expect: true}]\n", "script is required"},
		{"negative delta", "name: a\ndescription: b\ndelta: -1\nscript: [Log]\nassertions: [{type: ended, expect: true}]\n", "delta"},
		{"no assertions", "name: a\ndescription: b\nscript: [Log]\n", "assertions list is required"},
		{"bad input tick", "name: a\ndescription: b\nscript: [Log]\ninput: [0]\nassertions: [{type: ended, expect: true}]\n", "input[0]"},
		{"control without action", "name: a\ndescription: b\nscript: [Log]\ncontrol: [{tick: 1}]\nassertions: [{type: ended, expect: true}]\n", "exactly one"},
		{"control with two actions", "name: a\ndescription: b\nscript: [Log]\ncontrol: [{tick: 1, end: true, restart: true}]\nassertions: [{type: ended, expect: true}]\n", "exactly one"},
		{"ended not bool", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: ended, expect: 1}]\n", "bool"},
		{"ticks not int", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: ticks, expect: x}]\n", "integer"},
		{"messages not list", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: messages, expect: x}]\n", "list"},
		{"bad order pattern", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: trace_order, events: [\"start Log@x\"]}]\n", "invalid index"},
		{"fault without code", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: fault}]\n", "code is required"},
		{"position without object", "name: a\ndescription: b\nscript: [Log]\nassertions: [{type: object_position, position: {x: 1}}]\n", "object is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios_SortedAndStrict(t *testing.T) {
	dir := t.TempDir()
	valid := "name: %s\ndescription: d\nscript: [Log]\nassertions: [{type: ended, expect: true}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(fmt.Sprintf(valid, "b")), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(fmt.Sprintf(valid, "a")), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	scenarios, paths, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
	assert.Equal(t, filepath.Join(dir, "a.yml"), paths[0])

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("name: c\n"), 0644))
	_, _, err = LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c.yaml")
}
