package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateKnowledgeEntry(t *testing.T) {
	db := setupTestDB(t, &User{}, &KnowledgeEntry{})
	user := mustCreateUser(t, db, "Alice", "alice@example.com")

	doc := JSONMap{
		"nodes": []any{map[string]any{"id": "n1", "label": "billing"}},
		"edges": []any{},
	}
	entry, err := CreateKnowledgeEntry(db, user.ID, doc)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.UploadTime.IsZero())

	_, err = CreateKnowledgeEntry(db, 999999, doc)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = CreateKnowledgeEntry(db, user.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKnowledgeRoundTrip(t *testing.T) {
	db := setupTestDB(t, &User{}, &KnowledgeEntry{})
	user := mustCreateUser(t, db, "Alice", "alice@example.com")

	doc := JSONMap{
		"topic": "refunds",
		"depth": float64(3),
		"tags":  []any{"policy", "billing"},
	}
	entry, err := CreateKnowledgeEntry(db, user.ID, doc)
	require.NoError(t, err)

	got, err := GetKnowledgeEntry(db, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got.JSONData, "document comes back verbatim")
}

func TestUpdateKnowledgeEntry(t *testing.T) {
	db := setupTestDB(t, &User{}, &KnowledgeEntry{})
	user := mustCreateUser(t, db, "Alice", "alice@example.com")
	entry, err := CreateKnowledgeEntry(db, user.ID, JSONMap{"v": float64(1)})
	require.NoError(t, err)

	require.NoError(t, UpdateKnowledgeEntry(db, entry.ID, JSONMap{"v": float64(2)}))
	got, err := GetKnowledgeEntry(db, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, JSONMap{"v": float64(2)}, got.JSONData)

	assert.ErrorIs(t, UpdateKnowledgeEntry(db, 999999, JSONMap{"v": float64(3)}), ErrEntryNotFound)
	assert.ErrorIs(t, UpdateKnowledgeEntry(db, entry.ID, nil), ErrValidation)
}

func TestListKnowledgeByUser(t *testing.T) {
	db := setupTestDB(t, &User{}, &KnowledgeEntry{})
	alice := mustCreateUser(t, db, "Alice", "alice@example.com")
	bob := mustCreateUser(t, db, "Bob", "bob@example.com")

	for i := 0; i < 3; i++ {
		_, err := CreateKnowledgeEntry(db, alice.ID, JSONMap{"n": float64(i)})
		require.NoError(t, err)
	}
	_, err := CreateKnowledgeEntry(db, bob.ID, JSONMap{"n": float64(9)})
	require.NoError(t, err)

	entries, err := ListKnowledgeByUser(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].ID > entries[2].ID, "newest first")
}

func TestDeleteKnowledgeEntry(t *testing.T) {
	db := setupTestDB(t, &User{}, &KnowledgeEntry{})
	user := mustCreateUser(t, db, "Alice", "alice@example.com")
	entry, err := CreateKnowledgeEntry(db, user.ID, JSONMap{"v": float64(1)})
	require.NoError(t, err)

	require.NoError(t, DeleteKnowledgeEntry(db, entry.ID))
	_, err = GetKnowledgeEntry(db, entry.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, DeleteKnowledgeEntry(db, entry.ID), ErrEntryNotFound)
}
