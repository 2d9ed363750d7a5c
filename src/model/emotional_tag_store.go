// src/model/emotional_tag_store.go
package model

import (
	"database/sql"
	"time"
)

// EmotionalTag is a self-reported mood entry, optionally pinned to a trade.
// Intensity runs 0-10.
type EmotionalTag struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"-"`
	TradeID        *int64    `json:"trade_id,omitempty"`
	EmotionalState string    `json:"emotional_state"`
	Intensity      float64   `json:"intensity"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func InsertEmotionalTag(db *sql.DB, userID int64, tradeID *int64, emotionalState string, intensity float64, notes string) (*EmotionalTag, error) {
	tag := &EmotionalTag{
		UserID:         userID,
		TradeID:        tradeID,
		EmotionalState: emotionalState,
		Intensity:      intensity,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}
	res, err := db.Exec(
		`INSERT INTO emotional_tags (user_id, trade_id, emotional_state, intensity, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tag.UserID, nullableInt(tag.TradeID), tag.EmotionalState, tag.Intensity, tag.Notes, tag.CreatedAt)
	if err != nil {
		return nil, err
	}
	tag.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ListEmotionalTags returns the user's tags, newest first.
func ListEmotionalTags(db *sql.DB, userID int64, limit int) ([]EmotionalTag, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT id, user_id, trade_id, emotional_state, intensity, notes, created_at
		 FROM emotional_tags WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []EmotionalTag
	for rows.Next() {
		var tag EmotionalTag
		var tradeID sql.NullInt64
		if err := rows.Scan(&tag.ID, &tag.UserID, &tradeID, &tag.EmotionalState, &tag.Intensity, &tag.Notes, &tag.CreatedAt); err != nil {
			return nil, err
		}
		if tradeID.Valid {
			tag.TradeID = &tradeID.Int64
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
