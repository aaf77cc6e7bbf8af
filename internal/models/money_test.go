package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillsString(t *testing.T) {
	assert.Equal(t, "108.000", Mills(108_000).String())
	assert.Equal(t, "0.001", Mills(1).String())
	assert.Equal(t, "-2.500", Mills(-2_500).String())
	assert.Equal(t, "0.000", Mills(0).String())
}

func TestMillsJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Mills(123_456))
	require.NoError(t, err)
	assert.Equal(t, "123.456", string(b))

	var m Mills
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, Mills(123_456), m)
}

func TestRoundToMultiple(t *testing.T) {
	cases := []struct {
		v, step, want Mills
	}{
		{105, 10, 110}, // half away from zero
		{104, 10, 100},
		{-105, 10, -110},
		{250, 100, 300},
		{249, 100, 200},
		{0, 10, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.RoundToMultiple(c.step), "%d to %d", c.v, c.step)
	}
}

func TestCoinsToMills(t *testing.T) {
	assert.Equal(t, Mills(1_500), CoinsToMills(1.5))
	assert.Equal(t, Mills(1), CoinsToMills(0.001))
	assert.Equal(t, Mills(-2_000), CoinsToMills(-2))
}
