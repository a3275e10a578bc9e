package number

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	examples := []struct {
		Name     string
		Value    float64
		Min, Max float64
		Expected float64
	}{
		{Name: "inside", Value: 0.5, Min: -1, Max: 1, Expected: 0.5},
		{Name: "below", Value: -4, Min: -1, Max: 1, Expected: -1},
		{Name: "above", Value: 7, Min: -1, Max: 1, Expected: 1},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			assert.Equal(t, example.Expected, Clamp(example.Value, example.Min, example.Max))
		})
	}

	assert.Equal(t, -0.2, ClampAbs(-3, 0.2))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(12.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestToFixed(t *testing.T) {
	assert.Equal(t, 1.24, ToFixed(1.2351, 2))
	assert.Equal(t, "3.142", FloatToStr(math.Pi, 3))
}
