package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrator_EmbeddedFiles(t *testing.T) {
	m, err := NewMigrator(nil)
	require.NoError(t, err)

	names, err := m.migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_portal_sessions.sql"}, names)

	content, err := fs.ReadFile(m.files, names[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "portal_sessions")
}
