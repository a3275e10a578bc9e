package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDescription = `
id: match-42
name: friday duel
max_ticks: 3600
tanks:
  - name: alpha
    container: codetanks-alpha
  - name: beta
    container: codetanks-beta
    endpoint: http://10.0.0.7:8080/command
arena:
  width: 800
  height: 600
  starts:
    - id: a
      point: [-200, 0]
    - id: b
      point: [200, 0]
  obstacles:
    - id: pillar
      polygon: [[-10, -10], [10, -10], [10, 10], [-10, 10]]
`

func TestParseGameDescription(t *testing.T) {
	desc, err := ParseGameDescription([]byte(sampleDescription))
	require.NoError(t, err)

	assert.Equal(t, "match-42", desc.GetId())
	assert.Equal(t, "friday duel", desc.GetName())
	assert.Equal(t, 3600, desc.GetMaxTicks())
	require.Len(t, desc.GetContestants(), 2)
	assert.Equal(t, "codetanks-alpha", desc.GetContestants()[0].Container)
	assert.Equal(t, "http://10.0.0.7:8080/command", desc.GetContestants()[1].Endpoint)

	arena := desc.GetMapContainer()
	assert.Equal(t, 800.0, arena.Width)
	require.Len(t, arena.Starts, 2)
	assert.Equal(t, -200.0, arena.Starts[0].Point.X)
	require.Len(t, arena.Obstacles, 1)
	assert.Len(t, arena.Obstacles[0].Polygon.Points, 4)
}

func TestParseGameDescriptionGeneratesId(t *testing.T) {
	desc, err := ParseGameDescription([]byte("tanks:\n  - name: solo\n    container: c1\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, desc.GetId())
}

func TestGameDescriptionValidation(t *testing.T) {
	examples := []struct {
		Name string
		Yaml string
	}{
		{Name: "no tank", Yaml: "name: empty\n"},
		{Name: "nameless tank", Yaml: "tanks:\n  - container: c1\n"},
		{Name: "duplicated name", Yaml: "tanks:\n  - name: a\n    container: c1\n  - name: a\n    container: c2\n"},
		{Name: "unreachable tank", Yaml: "tanks:\n  - name: a\n"},
		{Name: "missing spawn point", Yaml: "tanks:\n  - name: a\n    container: c1\n  - name: b\n    container: c2\narena:\n  starts:\n    - point: [0, 0]\n"},
		{Name: "bad point", Yaml: "tanks:\n  - name: a\n    container: c1\narena:\n  starts:\n    - point: [0]\n"},
		{Name: "negative tps", Yaml: "tps: -1\ntanks:\n  - name: a\n    container: c1\n"},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			_, err := ParseGameDescription([]byte(example.Yaml))
			assert.Error(t, err)
		})
	}
}
