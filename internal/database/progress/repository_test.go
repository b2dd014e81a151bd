package progress

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdshelf/opdshelf/internal/database"
	"github.com/opdshelf/opdshelf/internal/entities"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sync.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func record(user, document string, percentage float64, timestamp int64) *entities.ProgressRecord {
	return &entities.ProgressRecord{
		User:       user,
		Document:   document,
		Percentage: percentage,
		Progress:   "/body/DocFragment[12]/body/div/p[5]/text().0",
		Device:     "KOReader",
		DeviceID:   "device-1",
		Timestamp:  timestamp,
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo := setupTestRepo(t)

	t.Run("inserts a first report", func(t *testing.T) {
		err := repo.Upsert(record("alice", "doc-1", 0.25, 100))
		require.NoError(t, err)

		stored, err := repo.Fetch("alice", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 0.25, stored.Percentage)
		assert.Equal(t, int64(100), stored.Timestamp)
	})

	t.Run("a later report replaces the earlier one", func(t *testing.T) {
		updated := record("alice", "doc-1", 0.75, 200)
		updated.Device = "AnotherDevice"
		require.NoError(t, repo.Upsert(updated))

		stored, err := repo.Fetch("alice", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 0.75, stored.Percentage)
		assert.Equal(t, "AnotherDevice", stored.Device)
		assert.Equal(t, int64(200), stored.Timestamp)

		all, err := repo.FetchAll("alice")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("same document is tracked per user", func(t *testing.T) {
		require.NoError(t, repo.Upsert(record("bob", "doc-1", 0.10, 300)))

		stored, err := repo.Fetch("alice", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 0.75, stored.Percentage)

		stored, err = repo.Fetch("bob", "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 0.10, stored.Percentage)
	})
}

func TestRepository_Fetch(t *testing.T) {
	repo := setupTestRepo(t)

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.Fetch("alice", "never-seen")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_FetchAll(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Upsert(record("alice", "doc-b", 0.5, 300)))
	require.NoError(t, repo.Upsert(record("alice", "doc-a", 0.2, 100)))
	require.NoError(t, repo.Upsert(record("bob", "doc-c", 0.9, 200)))

	t.Run("returns only the user's records oldest first", func(t *testing.T) {
		records, err := repo.FetchAll("alice")
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "doc-a", records[0].Document)
		assert.Equal(t, "doc-b", records[1].Document)
	})

	t.Run("unknown user yields an empty list", func(t *testing.T) {
		records, err := repo.FetchAll("nobody")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
