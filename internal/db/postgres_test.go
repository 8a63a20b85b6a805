package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_more.sql":      {Data: []byte("SELECT 1")},
		"001_documents.sql": {Data: []byte("SELECT 1")},
		"README.md":         {Data: []byte("notes")},
		"old/003_x.sql":     {Data: []byte("SELECT 1")},
	}

	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_documents.sql", "002_more.sql"}, names)
}
