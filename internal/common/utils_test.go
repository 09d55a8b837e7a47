package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsAnyFold(t *testing.T) {
	require.True(t, ContainsAnyFold("I put on SUNSCREEN", "sunscreen"))
	require.True(t, ContainsAnyFold("me he echado crema", "sunscreen", "crema"))
	require.False(t, ContainsAnyFold("hello", "sunscreen", ""))
	require.False(t, ContainsAnyFold("hello"))
}
