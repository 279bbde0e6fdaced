package odr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyNormalization(t *testing.T) {
	k1 := cacheKey("  A*X + B  ", []string{"x"}, []string{"a", "b"})
	k2 := cacheKey("a*x + b", []string{"x"}, []string{"a", "b"})
	assert.Equal(t, k1, k2)
}

func TestGetOrCompileCachesAndReuses(t *testing.T) {
	m1, err := getOrCompile("a*x+b", []string{"x"}, []string{"a", "b"})
	require.NoError(t, err)
	m2, err := getOrCompile("a*x+b", []string{"x"}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestGetOrCompileParseError(t *testing.T) {
	_, err := getOrCompile("a*x+", []string{"x"}, []string{"a"})
	assert.Error(t, err)
}
