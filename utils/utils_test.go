package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	require.Equal(t, 1, Min(1, 2))
	require.Equal(t, 2, Max(1, 2))
	require.Equal(t, -2.5, Min(-2.5, 0.0))
	require.Equal(t, "b", Max("a", "b"))
}

func TestAbs(t *testing.T) {
	require.Equal(t, 3, Abs(-3))
	require.Equal(t, 3, Abs(3))
	require.Equal(t, int64(0), Abs(int64(0)))
}

func TestMod(t *testing.T) {
	require.Equal(t, 1, Mod(5, 4))
	require.Equal(t, 3, Mod(-5, 4))
	require.Equal(t, 0, Mod(-4, 4))
	require.Equal(t, 7, Mod(-1, 8))
}
