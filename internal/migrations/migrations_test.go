package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSource(t *testing.T) {
	src, err := GetSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	up, identifier, err := src.ReadUp(next)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_export_runs", identifier)
}
