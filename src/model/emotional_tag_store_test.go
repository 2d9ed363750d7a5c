// src/model/emotional_tag_store_test.go
package model

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTagTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE emotional_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		trade_id INTEGER,
		emotional_state TEXT NOT NULL,
		intensity REAL NOT NULL DEFAULT 5,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	return db
}

func TestEmotionalTagStore_InsertAndList(t *testing.T) {
	db := newTagTestDB(t)

	tradeID := int64(7)
	first, err := InsertEmotionalTag(db, 1, nil, "anxious", 8, "pre-market jitters")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Nil(t, first.TradeID)

	second, err := InsertEmotionalTag(db, 1, &tradeID, "confident", 5, "")
	require.NoError(t, err)
	require.NotNil(t, second.TradeID)
	assert.Equal(t, tradeID, *second.TradeID)

	tags, err := ListEmotionalTags(db, 1, 0)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// Newest first.
	assert.Equal(t, "confident", tags[0].EmotionalState)
	require.NotNil(t, tags[0].TradeID)
	assert.Equal(t, tradeID, *tags[0].TradeID)
	assert.Equal(t, "anxious", tags[1].EmotionalState)
	assert.Nil(t, tags[1].TradeID)
	assert.Equal(t, 8.0, tags[1].Intensity)
	assert.Equal(t, "pre-market jitters", tags[1].Notes)
}

func TestEmotionalTagStore_ListScopesToUserAndLimit(t *testing.T) {
	db := newTagTestDB(t)

	_, err := InsertEmotionalTag(db, 1, nil, "calm", 3, "")
	require.NoError(t, err)
	_, err = InsertEmotionalTag(db, 1, nil, "frustrated", 7, "")
	require.NoError(t, err)
	_, err = InsertEmotionalTag(db, 2, nil, "greedy", 9, "")
	require.NoError(t, err)

	tags, err := ListEmotionalTags(db, 1, 1)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "frustrated", tags[0].EmotionalState)

	other, err := ListEmotionalTags(db, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}
